package wizard

import (
	"fmt"
	"strconv"
)

// FieldKind enumerates the input kinds a field schema can declare.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindEmail    FieldKind = "email"
	FieldKindTel      FieldKind = "tel"
	FieldKindDate     FieldKind = "date"
	FieldKindNumber   FieldKind = "number"
	FieldKindSelect   FieldKind = "select"
	FieldKindCheckbox FieldKind = "checkbox"
)

// Values is a read-only view over the current form values, handed to
// RequiredWhen predicates and plan rules.
type Values map[string]any

// Get resolves a dotted/indexed path against the form values.
func (v Values) Get(path string) (any, bool) {
	return lookupPath(map[string]any(v), path)
}

// Str returns the string value at path, or "" when absent or not a string.
func (v Values) Str(path string) string {
	raw, ok := v.Get(path)
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

// Bool returns the boolean value at path. Absent values are false.
func (v Values) Bool(path string) bool {
	raw, ok := v.Get(path)
	if !ok {
		return false
	}
	b, _ := raw.(bool)
	return b
}

// Num returns the numeric value at path. JSON decoding yields float64 for
// numbers, but values set programmatically may be any integer type, and
// values copied from text inputs arrive as strings.
func (v Values) Num(path string) (float64, bool) {
	raw, ok := v.Get(path)
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// FieldSchema declares a single form field within a step.
// A nil RequiredWhen means the field is always required.
type FieldSchema struct {
	Path         string            `json:"path"`
	Label        string            `json:"label"`
	Kind         FieldKind         `json:"kind"`
	Options      []string          `json:"options,omitempty"`
	RequiredWhen func(Values) bool `json:"-"`
}

// Required reports whether the field is required given the current values.
func (f FieldSchema) Required(v Values) bool {
	if f.RequiredWhen == nil {
		return true
	}
	return f.RequiredWhen(v)
}

// DocumentSlot is a single named document upload requirement.
// A nil RequiredWhen means the slot is always required.
type DocumentSlot struct {
	ID           string                    `json:"id"`
	Label        string                    `json:"label"`
	RequiredWhen func(Values, PlanID) bool `json:"-"`
}

// Required reports whether the slot must be satisfied at submission time.
func (d DocumentSlot) Required(v Values, plan PlanID) bool {
	if d.RequiredWhen == nil {
		return true
	}
	return d.RequiredWhen(v, plan)
}

// StepDefinition is one step of a service's wizard. Immutable after
// registration.
type StepDefinition struct {
	Index         int            `json:"index"`
	Title         string         `json:"title"`
	Fields        []FieldSchema  `json:"fields"`
	DocumentSlots []DocumentSlot `json:"documentSlots,omitempty"`
}

// PlanID identifies a priced service tier.
type PlanID string

// Money is an amount in Indian rupees.
type Money int64

func (m Money) String() string {
	return fmt.Sprintf("₹%d", int64(m))
}

// PlanDefinition is an immutable catalog entry for a priced tier.
type PlanDefinition struct {
	ID            PlanID   `json:"id"`
	Title         string   `json:"title"`
	Price         Money    `json:"price"`
	Features      []string `json:"features"`
	DocumentSlots []string `json:"documentSlots,omitempty"`
}

// Definition is the full per-service configuration consumed by a
// Controller: step sequence, plan table and plan derivation rules.
type Definition struct {
	ServiceID        string
	Title            string
	SubmissionPrefix string
	Steps            []StepDefinition
	Plans            []PlanDefinition
	Rules            PlanRules
}

// Plan returns the plan definition for id, if present.
func (d Definition) Plan(id PlanID) (PlanDefinition, bool) {
	for _, p := range d.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return PlanDefinition{}, false
}
