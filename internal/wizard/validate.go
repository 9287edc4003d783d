package wizard

import "fmt"

// ValidateStep checks every field of step against the current values and
// returns a map of field path to error message. The map is empty iff the
// step is valid.
//
// Presence is checked explicitly: nil, missing and empty-string values are
// missing; zero and false are present. Number fields therefore accept a
// legitimate 0 (employee counts, turnover of a dormant entity).
func ValidateStep(step StepDefinition, values Values) map[string]string {
	result := make(map[string]string)
	for _, field := range step.Fields {
		if !field.Required(values) {
			continue
		}
		raw, ok := values.Get(field.Path)
		if !ok || isMissing(raw) {
			result[field.Path] = fmt.Sprintf("%s is required", field.Label)
		}
	}
	return result
}

// isMissing reports whether a stored value counts as absent for required
// field checks. Only nil and the empty string are missing.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && s == ""
}
