package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func checklistDefinition() Definition {
	return Definition{
		ServiceID: "fssai_license",
		Steps: []StepDefinition{
			{
				Index: 0,
				DocumentSlots: []DocumentSlot{
					{ID: "pan_card", Label: "PAN Card"},
					{ID: "address_proof", Label: "Address Proof"},
					{
						ID:    "factory_license",
						Label: "Factory License",
						RequiredWhen: func(v Values, _ PlanID) bool {
							return v.Bool("hasFactoryLicense")
						},
					},
				},
			},
			{
				Index: 1,
				DocumentSlots: []DocumentSlot{
					{
						ID:    "iec_certificate",
						Label: "Import Export Code",
						RequiredWhen: func(_ Values, plan PlanID) bool {
							return plan == "central"
						},
					},
				},
			},
		},
		Plans: []PlanDefinition{
			{ID: "state", Price: 4999},
			{ID: "central", Price: 9999, DocumentSlots: []string{"turnover_declaration"}},
		},
	}
}

func TestRequiredSlots(t *testing.T) {
	def := checklistDefinition()

	t.Run("Unconditional Slots Only", func(t *testing.T) {
		ids := RequiredSlots(def.Steps[0], Values{}, "state")
		assert.Equal(t, []string{"pan_card", "address_proof"}, ids)
	})

	t.Run("Field Conditioned Slot", func(t *testing.T) {
		ids := RequiredSlots(def.Steps[0], Values{"hasFactoryLicense": true}, "state")
		assert.Equal(t, []string{"pan_card", "address_proof", "factory_license"}, ids)
	})

	t.Run("Plan Conditioned Slot", func(t *testing.T) {
		assert.Empty(t, RequiredSlots(def.Steps[1], Values{}, "state"))
		assert.Equal(t, []string{"iec_certificate"}, RequiredSlots(def.Steps[1], Values{}, "central"))
	})

	t.Run("Idempotent Ordered List", func(t *testing.T) {
		values := Values{"hasFactoryLicense": true}
		first := RequiredSlots(def.Steps[0], values, "central")
		second := RequiredSlots(def.Steps[0], values, "central")
		assert.Equal(t, first, second)
	})
}

func TestRequiredSlotsAll(t *testing.T) {
	def := checklistDefinition()

	ids := RequiredSlotsAll(def, Values{}, "central")
	assert.Equal(t, []string{"pan_card", "address_proof", "iec_certificate", "turnover_declaration"}, ids)

	// Plan-attached slots drop out with the plan.
	ids = RequiredSlotsAll(def, Values{}, "state")
	assert.Equal(t, []string{"pan_card", "address_proof"}, ids)
}

func TestChecklistSatisfied(t *testing.T) {
	required := []string{"pan_card", "address_proof"}

	t.Run("Missing Slot", func(t *testing.T) {
		uploads := map[string]UploadState{
			"pan_card": {SlotID: "pan_card", Status: UploadStatusDone},
		}
		assert.False(t, ChecklistSatisfied(uploads, required))
	})

	t.Run("Only DONE Counts", func(t *testing.T) {
		uploads := map[string]UploadState{
			"pan_card":      {SlotID: "pan_card", Status: UploadStatusDone},
			"address_proof": {SlotID: "address_proof", Status: UploadStatusUploading},
		}
		assert.False(t, ChecklistSatisfied(uploads, required))

		uploads["address_proof"] = UploadState{SlotID: "address_proof", Status: UploadStatusError}
		assert.False(t, ChecklistSatisfied(uploads, required))

		uploads["address_proof"] = UploadState{SlotID: "address_proof", Status: UploadStatusDone}
		assert.True(t, ChecklistSatisfied(uploads, required))
	})

	t.Run("No Required Slots", func(t *testing.T) {
		assert.True(t, ChecklistSatisfied(nil, nil))
	})
}
