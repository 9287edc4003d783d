package wizard

import "errors"

var (
	// ErrValidationFailed is returned by Next when the current step has
	// unmet required fields. The error map carries the detail.
	ErrValidationFailed = errors.New("step validation failed")

	// ErrDocumentsIncomplete blocks submission while a required document
	// slot has no completed upload. No network call is made.
	ErrDocumentsIncomplete = errors.New("required documents incomplete")

	// ErrSubmissionInFlight blocks a second submit while one is pending.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrAlreadySubmitted rejects any mutation after the terminal state.
	ErrAlreadySubmitted = errors.New("application already submitted")

	// ErrNotOnFinalStep rejects a submit before the last step is reached.
	ErrNotOnFinalStep = errors.New("not on final step")

	// ErrUnknownPlan rejects selection of a plan id absent from the
	// service's plan table.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrFirstStep rejects backward navigation from the first step.
	ErrFirstStep = errors.New("already on first step")
)
