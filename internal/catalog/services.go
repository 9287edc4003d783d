package catalog

import (
	"fmt"

	"github.com/filingkart/filingkart/internal/wizard"
)

// Turnover thresholds for FSSAI license tiers, in rupees.
const (
	fssaiStateTurnover   = 1_200_000   // ₹12 lakh
	fssaiCentralTurnover = 200_000_000 // ₹20 crore
)

// Default returns the registry with every service the portal offers.
// It panics on a broken configuration; configurations are static and a
// mistake is a programming error caught at startup.
func Default() *Registry {
	registry := NewRegistry()
	for _, service := range []Service{
		opcRegistration(),
		fssaiLicense(),
		directorKYC(),
		addDirector(),
		removeDirector(),
		gstCorrection(),
	} {
		if err := registry.Register(service); err != nil {
			panic(fmt.Sprintf("invalid service configuration: %v", err))
		}
	}
	return registry
}

func opcRegistration() Service {
	return Service{
		Summary:  "Incorporate a One Person Company with MCA",
		Category: "company_registration",
		Definition: wizard.Definition{
			ServiceID:        "opc_registration",
			Title:            "One Person Company Registration",
			SubmissionPrefix: "OPC",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Director Details",
					Fields: []wizard.FieldSchema{
						{Path: "director.name", Label: "Director Name", Kind: wizard.FieldKindText},
						{Path: "director.email", Label: "Email", Kind: wizard.FieldKindEmail},
						{Path: "director.phone", Label: "Mobile Number", Kind: wizard.FieldKindTel},
						{Path: "director.pan", Label: "PAN", Kind: wizard.FieldKindText},
					},
				},
				{
					Index: 1,
					Title: "Company Details",
					Fields: []wizard.FieldSchema{
						{Path: "companyNames.0", Label: "Proposed Name (First Preference)", Kind: wizard.FieldKindText},
						{Path: "companyNames.1", Label: "Proposed Name (Second Preference)", Kind: wizard.FieldKindText},
						{Path: "registeredAddress.state", Label: "State", Kind: wizard.FieldKindSelect},
						{Path: "registeredAddress.pincode", Label: "PIN Code", Kind: wizard.FieldKindText},
						{Path: "registeredAddress.ownership", Label: "Premises Ownership", Kind: wizard.FieldKindSelect,
							Options: []string{"owned", "rented"}},
						{Path: "authorizedCapital", Label: "Authorized Capital", Kind: wizard.FieldKindNumber},
					},
				},
				{
					Index: 2,
					Title: "Documents & Payment",
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "director_pan_card", Label: "Director PAN Card"},
						{ID: "director_aadhaar", Label: "Director Aadhaar"},
						{ID: "address_proof", Label: "Registered Office Address Proof"},
						{ID: "noc_owner", Label: "NOC from Premises Owner",
							RequiredWhen: func(v wizard.Values, _ wizard.PlanID) bool {
								return v.Str("registeredAddress.ownership") == "rented"
							}},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "standard", Title: "Standard", Price: 7999,
					Features: []string{"Name approval", "DSC for one director", "Incorporation filing"}},
				{ID: "premium", Title: "Premium", Price: 12999,
					Features: []string{"Everything in Standard", "GST registration", "First-year compliance calendar"}},
			},
			Rules: wizard.PlanRules{Default: "standard"},
		},
	}
}

func fssaiLicense() Service {
	return Service{
		Summary:  "FSSAI food business license, tier derived from turnover",
		Category: "licenses",
		Definition: wizard.Definition{
			ServiceID:        "fssai_license",
			Title:            "FSSAI License",
			SubmissionPrefix: "FSSAI",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Business Details",
					Fields: []wizard.FieldSchema{
						{Path: "business.name", Label: "Business Name", Kind: wizard.FieldKindText},
						{Path: "business.email", Label: "Email", Kind: wizard.FieldKindEmail},
						{Path: "business.phone", Label: "Mobile Number", Kind: wizard.FieldKindTel},
						{Path: "annualTurnover", Label: "Annual Turnover", Kind: wizard.FieldKindNumber},
						{Path: "isImporterExporter", Label: "Importer / Exporter", Kind: wizard.FieldKindCheckbox},
						{Path: "hasFactoryLicense", Label: "Factory License Held", Kind: wizard.FieldKindCheckbox},
					},
				},
				{
					Index: 1,
					Title: "Premises",
					Fields: []wizard.FieldSchema{
						{Path: "premises.address", Label: "Premises Address", Kind: wizard.FieldKindText},
						{Path: "premises.state", Label: "State", Kind: wizard.FieldKindSelect},
					},
				},
				{
					Index: 2,
					Title: "Documents & Payment",
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "owner_photo", Label: "Proprietor Photo"},
						{ID: "owner_id_proof", Label: "Proprietor ID Proof"},
						{ID: "factory_license", Label: "Factory License",
							RequiredWhen: func(v wizard.Values, _ wizard.PlanID) bool {
								return v.Bool("hasFactoryLicense")
							}},
						{ID: "iec_certificate", Label: "Import Export Code Certificate",
							RequiredWhen: func(v wizard.Values, _ wizard.PlanID) bool {
								return v.Bool("isImporterExporter")
							}},
						{ID: "turnover_declaration", Label: "Turnover Declaration",
							RequiredWhen: func(_ wizard.Values, plan wizard.PlanID) bool {
								return plan == "central"
							}},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "basic", Title: "Basic Registration", Price: 1999,
					Features: []string{"Form A filing", "Registration certificate"}},
				{ID: "state", Title: "State License", Price: 4999,
					Features: []string{"Form B filing", "State license", "1 year validity"}},
				{ID: "central", Title: "Central License", Price: 9999,
					Features: []string{"Form B filing", "Central license", "IEC support"},
					DocumentSlots: []string{"turnover_declaration"}},
			},
			Rules: wizard.PlanRules{
				Default: "basic",
				Forces: []wizard.ForceRule{
					{Field: "isImporterExporter", Plan: "central"},
				},
				Thresholds: []wizard.ThresholdRule{
					{
						Field: "annualTurnover",
						Steps: []wizard.ThresholdStep{
							{AtLeast: fssaiStateTurnover, Plan: "state"},
							{AtLeast: fssaiCentralTurnover, Plan: "central"},
						},
					},
				},
			},
		},
	}
}

func directorKYC() Service {
	return Service{
		Summary:  "Annual DIR-3 KYC filing for directors",
		Category: "roc_filings",
		Definition: wizard.Definition{
			ServiceID:        "director_kyc",
			Title:            "Director KYC (DIR-3)",
			SubmissionPrefix: "DKYC",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Director Details",
					Fields: []wizard.FieldSchema{
						{Path: "director.name", Label: "Director Name", Kind: wizard.FieldKindText},
						{Path: "director.din", Label: "DIN", Kind: wizard.FieldKindText},
						{Path: "director.email", Label: "Email", Kind: wizard.FieldKindEmail},
						{Path: "director.phone", Label: "Mobile Number", Kind: wizard.FieldKindTel},
						{Path: "director.dob", Label: "Date of Birth", Kind: wizard.FieldKindDate},
						{Path: "director.hasPassport", Label: "Holds a Passport", Kind: wizard.FieldKindCheckbox},
					},
				},
				{
					Index: 1,
					Title: "Documents & Payment",
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "pan_card", Label: "PAN Card"},
						{ID: "aadhaar", Label: "Aadhaar"},
						{ID: "passport", Label: "Passport",
							RequiredWhen: func(v wizard.Values, _ wizard.PlanID) bool {
								return v.Bool("director.hasPassport")
							}},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "standard", Title: "Standard", Price: 999,
					Features: []string{"DIR-3 KYC filing", "SRN confirmation"}},
			},
			Rules: wizard.PlanRules{Default: "standard"},
		},
	}
}

func addDirector() Service {
	return Service{
		Summary:  "Appoint a new director (DIR-12)",
		Category: "roc_filings",
		Definition: wizard.Definition{
			ServiceID:        "add_director",
			Title:            "Add Director",
			SubmissionPrefix: "ADDDIR",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Company Details",
					Fields: []wizard.FieldSchema{
						{Path: "company.cin", Label: "CIN", Kind: wizard.FieldKindText},
						{Path: "company.name", Label: "Company Name", Kind: wizard.FieldKindText},
					},
				},
				{
					Index: 1,
					Title: "Incoming Director",
					Fields: []wizard.FieldSchema{
						{Path: "director.name", Label: "Director Name", Kind: wizard.FieldKindText},
						{Path: "director.email", Label: "Email", Kind: wizard.FieldKindEmail},
						{Path: "director.hasDin", Label: "Holds a DIN", Kind: wizard.FieldKindCheckbox},
						{Path: "director.din", Label: "DIN", Kind: wizard.FieldKindText,
							RequiredWhen: func(v wizard.Values) bool {
								return v.Bool("director.hasDin")
							}},
					},
				},
				{
					Index: 2,
					Title: "Documents & Payment",
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "director_pan_card", Label: "Director PAN Card"},
						{ID: "director_address_proof", Label: "Director Address Proof"},
						{ID: "consent_dir2", Label: "Consent to Act (DIR-2)"},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "standard", Title: "Standard", Price: 2999,
					Features: []string{"DIR-12 filing", "Board resolution draft"}},
				{ID: "with_din", Title: "With DIN Application", Price: 4499,
					Features: []string{"DIR-3 DIN application", "DIR-12 filing", "Board resolution draft"}},
			},
			Rules: wizard.PlanRules{Default: "standard"},
		},
	}
}

func removeDirector() Service {
	return Service{
		Summary:  "Record a director's resignation or removal",
		Category: "roc_filings",
		Definition: wizard.Definition{
			ServiceID:        "remove_director",
			Title:            "Remove Director",
			SubmissionPrefix: "REMDIR",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Company & Director",
					Fields: []wizard.FieldSchema{
						{Path: "company.cin", Label: "CIN", Kind: wizard.FieldKindText},
						{Path: "director.din", Label: "Outgoing Director DIN", Kind: wizard.FieldKindText},
						{Path: "effectiveDate", Label: "Effective Date", Kind: wizard.FieldKindDate},
						{Path: "reason", Label: "Reason", Kind: wizard.FieldKindSelect,
							Options: []string{"resignation", "removal", "death", "disqualification"}},
					},
				},
				{
					Index: 1,
					Title: "Documents & Payment",
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "resignation_letter", Label: "Resignation Letter",
							RequiredWhen: func(v wizard.Values, _ wizard.PlanID) bool {
								return v.Str("reason") == "resignation"
							}},
						{ID: "board_resolution", Label: "Board Resolution"},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "standard", Title: "Standard", Price: 2499,
					Features: []string{"DIR-12 filing", "Register update"}},
			},
			Rules: wizard.PlanRules{Default: "standard"},
		},
	}
}

func gstCorrection() Service {
	return Service{
		Summary:  "Correct errors in an existing GST registration",
		Category: "gst",
		Definition: wizard.Definition{
			ServiceID:        "gst_correction",
			Title:            "GST Registration Correction",
			SubmissionPrefix: "GSTC",
			Steps: []wizard.StepDefinition{
				{
					Index: 0,
					Title: "Registration Details",
					Fields: []wizard.FieldSchema{
						{Path: "gstin", Label: "GSTIN", Kind: wizard.FieldKindText},
						{Path: "legalName", Label: "Legal Name", Kind: wizard.FieldKindText},
						{Path: "email", Label: "Email", Kind: wizard.FieldKindEmail},
					},
				},
				{
					Index: 1,
					Title: "Correction Details",
					Fields: []wizard.FieldSchema{
						{Path: "correctionType", Label: "Correction Type", Kind: wizard.FieldKindSelect,
							Options: []string{"trade_name", "address", "contact", "bank_account"}},
						{Path: "newAddress", Label: "New Address", Kind: wizard.FieldKindText,
							RequiredWhen: func(v wizard.Values) bool {
								return v.Str("correctionType") == "address"
							}},
					},
				},
				{
					Index: 2,
					Title: "Documents & Payment",
					DocumentSlots: []wizard.DocumentSlot{
						{ID: "gst_certificate", Label: "GST Registration Certificate"},
						{ID: "address_proof", Label: "New Address Proof",
							RequiredWhen: func(v wizard.Values, _ wizard.PlanID) bool {
								return v.Str("correctionType") == "address"
							}},
					},
				},
			},
			Plans: []wizard.PlanDefinition{
				{ID: "standard", Title: "Standard", Price: 1499,
					Features: []string{"Amendment application", "ARN tracking"}},
			},
			Rules: wizard.PlanRules{Default: "standard"},
		},
	}
}
