package wizard

import "sync"

// ForceRule sends the session to a fixed plan whenever a boolean field is
// set, regardless of any threshold outcome. Used for signals like an
// importer/exporter flag that always demands the top tier.
type ForceRule struct {
	Field string
	Plan  PlanID
}

// ThresholdStep maps a numeric lower bound to a plan. A value equal to
// AtLeast selects the step: boundaries belong to the higher tier.
type ThresholdStep struct {
	AtLeast float64
	Plan    PlanID
}

// ThresholdRule derives a plan from a numeric field. Steps must be in
// ascending AtLeast order; the last step whose bound the value meets
// wins. Values below every step fall through to the rule set's default.
type ThresholdRule struct {
	Field string
	Steps []ThresholdStep
}

// PlanRules is a service's plan derivation rule set. Force rules are
// evaluated before threshold rules.
type PlanRules struct {
	Default    PlanID
	Forces     []ForceRule
	Thresholds []ThresholdRule
}

// Derive applies the rules to the current values without considering any
// explicit selection.
func (r PlanRules) Derive(values Values) PlanID {
	for _, force := range r.Forces {
		if values.Bool(force.Field) {
			return force.Plan
		}
	}
	plan := r.Default
	for _, rule := range r.Thresholds {
		value, ok := values.Num(rule.Field)
		if !ok {
			continue
		}
		for _, step := range rule.Steps {
			if value >= step.AtLeast {
				plan = step.Plan
			}
		}
	}
	return plan
}

// PlanResolver combines derived plan rules with an explicit user
// selection. An explicit selection is sticky: derived rules re-evaluate
// on every field change but never override a plan the user clicked.
// Clearing the selection (backward navigation) re-enables derivation.
type PlanResolver struct {
	mu       sync.Mutex
	rules    PlanRules
	explicit *PlanID
}

// NewPlanResolver builds a resolver for the given rule set.
func NewPlanResolver(rules PlanRules) *PlanResolver {
	return &PlanResolver{rules: rules}
}

// Select records an explicit user selection.
func (r *PlanResolver) Select(id PlanID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.explicit = &id
}

// ClearSelection drops the explicit selection so derived rules apply
// again.
func (r *PlanResolver) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.explicit = nil
}

// Explicit returns the explicit selection, if any.
func (r *PlanResolver) Explicit() (PlanID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.explicit == nil {
		return "", false
	}
	return *r.explicit, true
}

// Resolve returns the effective plan for the current values: the explicit
// selection when one exists, the derived plan otherwise. Resolve is a
// pure function of the values and the last explicit selection.
func (r *PlanResolver) Resolve(values Values) PlanID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.explicit != nil {
		return *r.explicit
	}
	return r.rules.Derive(values)
}
