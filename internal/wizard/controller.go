package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Phase is the coarse state of a wizard session. While the phase is
// PhaseStep the fine-grained position is the step index.
type Phase string

const (
	PhaseStep         Phase = "STEP"
	PhaseSubmitting   Phase = "SUBMITTING"
	PhaseSubmitted    Phase = "SUBMITTED"
	PhaseSubmitFailed Phase = "SUBMIT_FAILED"
)

// Controller orchestrates one wizard session: step navigation gated on
// validation, plan resolution, the document checklist and the final
// submission. It owns the session's FieldStore exclusively.
//
// Transitions:
//
//	STEP_k   --Next, valid-->   STEP_k+1          (k < N)
//	STEP_k   --Next, invalid--> STEP_k            (errors populated)
//	STEP_k   --Back-->          STEP_k-1          (always, no validation)
//	STEP_N   --Submit-->        SUBMITTING
//	SUBMITTING --ok-->          SUBMITTED         (terminal)
//	SUBMITTING --rejected-->    SUBMIT_FAILED     (retryable)
//
// The submission id is generated once on entering the final step, and
// Submit refuses to start while another submit is in flight, so a rapid
// double-click cannot produce two distinct backend records.
type Controller struct {
	mu sync.Mutex

	def         Definition
	fields      *FieldStore
	errors      map[string]string
	resolver    *PlanResolver
	coordinator *UploadCoordinator
	submitter   Submitter
	user        *User

	phase        Phase
	stepIndex    int
	submissionID string
	receiptID    string
	lastError    string

	now func() time.Time
}

// NewController builds a controller for one applicant's session. The
// coordinator and submitter are the session's upload and submission
// collaborators; user may be nil for services that allow anonymous
// drafts.
func NewController(def Definition, coordinator *UploadCoordinator, submitter Submitter, user *User) *Controller {
	c := &Controller{
		def:         def,
		fields:      NewFieldStore(),
		errors:      make(map[string]string),
		resolver:    NewPlanResolver(def.Rules),
		coordinator: coordinator,
		submitter:   submitter,
		user:        user,
		phase:       PhaseStep,
		now:         time.Now,
	}
	// A single-step service starts on its final step.
	if len(def.Steps) == 1 {
		c.mintSubmissionIDLocked()
	}
	return c
}

func (c *Controller) mintSubmissionIDLocked() {
	if c.submissionID == "" {
		c.submissionID = fmt.Sprintf("%s-%d", c.def.SubmissionPrefix, c.now().UnixMilli())
	}
}

// Definition returns the immutable service configuration of the session.
func (c *Controller) Definition() Definition {
	return c.def
}

// Uploads returns the session's upload coordinator.
func (c *Controller) Uploads() *UploadCoordinator {
	return c.coordinator
}

// SetField writes a single field value and clears any stale validation
// error recorded for it.
func (c *Controller) SetField(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitted || c.phase == PhaseSubmitting {
		return ErrAlreadySubmitted
	}
	if err := c.fields.Set(path, value); err != nil {
		return err
	}
	delete(c.errors, path)
	return nil
}

// Field reads a single field value.
func (c *Controller) Field(path string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.Get(path)
}

// SelectPlan records an explicit plan choice. Derived rules keep
// re-evaluating on field changes but never override it.
func (c *Controller) SelectPlan(id PlanID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitted || c.phase == PhaseSubmitting {
		return ErrAlreadySubmitted
	}
	if _, ok := c.def.Plan(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlan, id)
	}
	c.resolver.Select(id)
	return nil
}

// ClearPlan drops an explicit plan selection, typically when the user
// navigates back to the plan step, so derived rules apply again.
func (c *Controller) ClearPlan() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitted || c.phase == PhaseSubmitting {
		return ErrAlreadySubmitted
	}
	c.resolver.ClearSelection()
	return nil
}

// Plan returns the effective plan for the current field values.
func (c *Controller) Plan() PlanID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolver.Resolve(c.fields.Values())
}

// Next validates the current step and advances on success. On failure the
// step does not change, the error map is populated and ErrValidationFailed
// is returned.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseStep {
		return ErrAlreadySubmitted
	}
	step := c.def.Steps[c.stepIndex]
	stepErrors := ValidateStep(step, c.fields.Values())
	c.errors = stepErrors
	if len(stepErrors) > 0 {
		return ErrValidationFailed
	}
	if c.stepIndex < len(c.def.Steps)-1 {
		c.stepIndex++
	}
	if c.stepIndex == len(c.def.Steps)-1 {
		c.mintSubmissionIDLocked()
	}
	return nil
}

// Back moves to the previous step. Backward navigation is always allowed
// and bypasses validation; editing previously valid data is permitted.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitted || c.phase == PhaseSubmitting {
		return ErrAlreadySubmitted
	}
	if c.stepIndex == 0 {
		return ErrFirstStep
	}
	c.stepIndex--
	c.phase = PhaseStep
	c.errors = make(map[string]string)
	c.lastError = ""
	return nil
}

// Errors returns a copy of the current validation error map.
func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// RequiredDocuments returns the slot ids the session currently requires.
func (c *Controller) RequiredDocuments() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	values := c.fields.Values()
	return RequiredSlotsAll(c.def, values, c.resolver.Resolve(values))
}

// Submit builds the payload and invokes the submission collaborator.
// It is blocked client-side, without any network call, unless the session
// is on its final step and every required document slot is DONE. A
// rejection surfaces the collaborator's message verbatim and leaves all
// entered data intact for an immediate retry.
func (c *Controller) Submit(ctx context.Context) (SubmissionReceipt, error) {
	c.mu.Lock()
	switch c.phase {
	case PhaseSubmitting:
		c.mu.Unlock()
		return SubmissionReceipt{}, ErrSubmissionInFlight
	case PhaseSubmitted:
		c.mu.Unlock()
		return SubmissionReceipt{}, ErrAlreadySubmitted
	}
	if c.stepIndex != len(c.def.Steps)-1 {
		c.mu.Unlock()
		return SubmissionReceipt{}, ErrNotOnFinalStep
	}

	values := c.fields.Values()
	plan := c.resolver.Resolve(values)
	required := RequiredSlotsAll(c.def, values, plan)
	uploads := c.coordinator.States()
	if !ChecklistSatisfied(uploads, required) {
		c.mu.Unlock()
		return SubmissionReceipt{}, ErrDocumentsIncomplete
	}

	payload := c.buildPayloadLocked(plan, required, uploads)
	c.phase = PhaseSubmitting
	c.lastError = ""
	c.mu.Unlock()

	receipt, err := c.submitter.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseSubmitFailed
		c.lastError = err.Error()
		slog.Warn("application submission failed",
			"service", c.def.ServiceID,
			"submissionId", payload.SubmissionID,
			"error", err,
		)
		return SubmissionReceipt{}, err
	}
	c.phase = PhaseSubmitted
	c.receiptID = receipt.ID
	slog.Info("application submitted",
		"service", c.def.ServiceID,
		"submissionId", payload.SubmissionID,
		"applicationId", receipt.ID,
	)
	return receipt, nil
}

func (c *Controller) buildPayloadLocked(plan PlanID, required []string, uploads map[string]UploadState) SubmissionPayload {
	var price Money
	if planDef, ok := c.def.Plan(plan); ok {
		price = planDef.Price
	}
	documents := make([]SubmittedDocument, 0, len(required))
	for _, slotID := range required {
		state := uploads[slotID]
		documents = append(documents, SubmittedDocument{
			SlotID:   slotID,
			Filename: state.OriginalName,
			FileURL:  state.FileURL,
			FileID:   state.FileID,
		})
	}
	var userID string
	if c.user != nil {
		userID = c.user.ID
	}
	return SubmissionPayload{
		SubmissionID: c.submissionID,
		ServiceID:    c.def.ServiceID,
		UserID:       userID,
		Plan:         plan,
		Price:        price,
		FormData:     c.fields.Snapshot(),
		Documents:    documents,
		Status:       PaymentSuccessful,
	}
}

// View is a serializable snapshot of the session for the front-end.
type View struct {
	ServiceID       string                 `json:"serviceId"`
	Phase           Phase                  `json:"phase"`
	StepIndex       int                    `json:"stepIndex"`
	StepCount       int                    `json:"stepCount"`
	Fields          map[string]any         `json:"fields"`
	Errors          map[string]string      `json:"errors"`
	Plan            PlanID                 `json:"plan"`
	ExplicitPlan    bool                   `json:"explicitPlan"`
	RequiredSlots   []string               `json:"requiredSlots"`
	Uploads         map[string]UploadState `json:"uploads"`
	SubmissionID    string                 `json:"submissionId,omitempty"`
	ApplicationID   string                 `json:"applicationId,omitempty"`
	SubmissionError string                 `json:"submissionError,omitempty"`
}

// Snapshot assembles the current view of the session.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	values := c.fields.Values()
	plan := c.resolver.Resolve(values)
	_, explicit := c.resolver.Explicit()
	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return View{
		ServiceID:       c.def.ServiceID,
		Phase:           c.phase,
		StepIndex:       c.stepIndex,
		StepCount:       len(c.def.Steps),
		Fields:          c.fields.Snapshot(),
		Errors:          errs,
		Plan:            plan,
		ExplicitPlan:    explicit,
		RequiredSlots:   RequiredSlotsAll(c.def, values, plan),
		Uploads:         c.coordinator.States(),
		SubmissionID:    c.submissionID,
		ApplicationID:   c.receiptID,
		SubmissionError: c.lastError,
	}
}

// Phase returns the coarse state of the session.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// StepIndex returns the zero-based current step while in PhaseStep.
func (c *Controller) StepIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepIndex
}

// SubmissionID returns the client-generated submission id, empty until
// the final step is first reached.
func (c *Controller) SubmissionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submissionID
}
