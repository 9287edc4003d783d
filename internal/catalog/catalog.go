// Package catalog holds the per-service wizard configurations. Each
// compliance service the portal offers is pure configuration over the
// generic wizard engine: a step sequence, field schemas, document slots,
// a plan table and plan derivation rules. Adding a service means adding
// a configuration here, not new engine code.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/filingkart/filingkart/internal/wizard"
)

// Service is one catalog entry: the wizard definition plus the metadata
// the front-end lists services by.
type Service struct {
	Definition wizard.Definition
	Summary    string
	Category   string
}

// Registry resolves service ids to their configurations. Registration
// validates a configuration once; lookups afterwards are read-only.
type Registry struct {
	mu       sync.RWMutex
	services map[string]Service
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Register validates and stores a service configuration.
func (r *Registry) Register(service Service) error {
	if err := Validate(service.Definition); err != nil {
		return fmt.Errorf("service %q: %w", service.Definition.ServiceID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[service.Definition.ServiceID]; exists {
		return fmt.Errorf("service %q already registered", service.Definition.ServiceID)
	}
	r.services[service.Definition.ServiceID] = service
	return nil
}

// Get returns the configuration for a service id.
func (r *Registry) Get(serviceID string) (Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.services[serviceID]
	return service, ok
}

// List returns all registered services sorted by service id.
func (r *Registry) List() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Service, 0, len(r.services))
	for _, service := range r.services {
		out = append(out, service)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Definition.ServiceID < out[j].Definition.ServiceID
	})
	return out
}

// Validate checks the structural invariants of a wizard definition:
// at least one step, contiguous step indices, field paths unique within a
// step, document slot ids unique across the service, and plan document
// slots referencing declared slots.
func Validate(def wizard.Definition) error {
	if def.ServiceID == "" {
		return fmt.Errorf("service id is empty")
	}
	if def.SubmissionPrefix == "" {
		return fmt.Errorf("submission prefix is empty")
	}
	if len(def.Steps) == 0 {
		return fmt.Errorf("no steps defined")
	}

	slotIDs := make(map[string]struct{})
	for i, step := range def.Steps {
		if step.Index != i {
			return fmt.Errorf("step %d has index %d, steps must be contiguous from 0", i, step.Index)
		}
		paths := make(map[string]struct{}, len(step.Fields))
		for _, field := range step.Fields {
			if field.Path == "" {
				return fmt.Errorf("step %d: field with empty path", i)
			}
			if _, dup := paths[field.Path]; dup {
				return fmt.Errorf("step %d: duplicate field path %q", i, field.Path)
			}
			paths[field.Path] = struct{}{}
		}
		for _, slot := range step.DocumentSlots {
			if slot.ID == "" {
				return fmt.Errorf("step %d: document slot with empty id", i)
			}
			if _, dup := slotIDs[slot.ID]; dup {
				return fmt.Errorf("duplicate document slot id %q", slot.ID)
			}
			slotIDs[slot.ID] = struct{}{}
		}
	}

	planIDs := make(map[wizard.PlanID]struct{}, len(def.Plans))
	for _, plan := range def.Plans {
		if plan.ID == "" {
			return fmt.Errorf("plan with empty id")
		}
		if _, dup := planIDs[plan.ID]; dup {
			return fmt.Errorf("duplicate plan id %q", plan.ID)
		}
		planIDs[plan.ID] = struct{}{}
		for _, slotID := range plan.DocumentSlots {
			if _, ok := slotIDs[slotID]; !ok {
				return fmt.Errorf("plan %q references undeclared document slot %q", plan.ID, slotID)
			}
		}
	}

	if def.Rules.Default != "" {
		if _, ok := planIDs[def.Rules.Default]; !ok {
			return fmt.Errorf("default plan %q not in plan table", def.Rules.Default)
		}
	}
	for _, force := range def.Rules.Forces {
		if _, ok := planIDs[force.Plan]; !ok {
			return fmt.Errorf("force rule targets unknown plan %q", force.Plan)
		}
	}
	for _, rule := range def.Rules.Thresholds {
		var prev float64
		for i, step := range rule.Steps {
			if _, ok := planIDs[step.Plan]; !ok {
				return fmt.Errorf("threshold rule on %q targets unknown plan %q", rule.Field, step.Plan)
			}
			if i > 0 && step.AtLeast <= prev {
				return fmt.Errorf("threshold rule on %q: steps must be strictly ascending", rule.Field)
			}
			prev = step.AtLeast
		}
	}
	return nil
}
