package wizard

// RequiredSlots returns the ids of the document slots a step requires
// given the current values and plan, in declaration order. Calling it
// twice with unchanged inputs yields an identical list.
func RequiredSlots(step StepDefinition, values Values, plan PlanID) []string {
	var ids []string
	for _, slot := range step.DocumentSlots {
		if slot.Required(values, plan) {
			ids = append(ids, slot.ID)
		}
	}
	return ids
}

// RequiredSlotsAll collects the required slot ids across every step of a
// definition plus the slots the selected plan mandates, deduplicated and
// in first-seen order. This is the checklist evaluated at submission time.
func RequiredSlotsAll(def Definition, values Values, plan PlanID) []string {
	var ids []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, step := range def.Steps {
		for _, id := range RequiredSlots(step, values, plan) {
			add(id)
		}
	}
	if planDef, ok := def.Plan(plan); ok {
		for _, id := range planDef.DocumentSlots {
			add(id)
		}
	}
	return ids
}

// ChecklistSatisfied reports whether every required slot has a completed
// upload. A slot counts only when its upload status is DONE.
func ChecklistSatisfied(uploads map[string]UploadState, required []string) bool {
	for _, id := range required {
		state, ok := uploads[id]
		if !ok || state.Status != UploadStatusDone {
			return false
		}
	}
	return true
}
