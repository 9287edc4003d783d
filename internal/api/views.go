package api

import (
	"github.com/filingkart/filingkart/internal/catalog"
	"github.com/filingkart/filingkart/internal/wizard"
)

type serviceSummary struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Summary   string       `json:"summary"`
	Category  string       `json:"category"`
	FromPrice wizard.Money `json:"fromPrice"`
}

type serviceDetail struct {
	serviceSummary
	Steps []wizard.StepDefinition `json:"steps"`
	Plans []wizard.PlanDefinition `json:"plans"`
}

func summarizeService(svc catalog.Service) serviceSummary {
	var fromPrice wizard.Money
	for _, plan := range svc.Definition.Plans {
		if fromPrice == 0 || plan.Price < fromPrice {
			fromPrice = plan.Price
		}
	}
	return serviceSummary{
		ID:        svc.Definition.ServiceID,
		Title:     svc.Definition.Title,
		Summary:   svc.Summary,
		Category:  svc.Category,
		FromPrice: fromPrice,
	}
}

// describeService exposes the declarative parts of a definition. The
// conditional predicates stay server-side; the front-end learns which
// fields and slots are currently required from the session snapshot.
func describeService(svc catalog.Service) serviceDetail {
	return serviceDetail{
		serviceSummary: summarizeService(svc),
		Steps:          svc.Definition.Steps,
		Plans:          svc.Definition.Plans,
	}
}
