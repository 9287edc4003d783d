package wizard

import "context"

// User identifies the authenticated applicant a wizard session belongs to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionProvider is the authentication gate consulted once when a wizard
// session is opened. A nil user with a nil error means no one is logged
// in; the caller redirects instead of opening a session.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// SubmissionReceipt is what the submission collaborator returns on
// success.
type SubmissionReceipt struct {
	ID string `json:"id"`
}

// Submitter is the external application-submission collaborator.
type Submitter interface {
	Submit(ctx context.Context, payload SubmissionPayload) (SubmissionReceipt, error)
}

// SubmittedDocument is one entry of a submission's document manifest.
type SubmittedDocument struct {
	SlotID   string `json:"id"`
	Filename string `json:"filename"`
	FileURL  string `json:"fileUrl"`
	FileID   string `json:"fileId"`
}

// SubmissionPayload is built once at the final step and sent to the
// Submitter. Immutable after construction.
type SubmissionPayload struct {
	SubmissionID string              `json:"submissionId"`
	ServiceID    string              `json:"serviceId"`
	UserID       string              `json:"userId,omitempty"`
	Plan         PlanID              `json:"plan"`
	Price        Money               `json:"price"`
	FormData     map[string]any      `json:"formData"`
	Documents    []SubmittedDocument `json:"documents"`
	Status       string              `json:"status"`
}

// PaymentSuccessful is the status stamped on every payload; payment is
// simulated upstream of submission.
const PaymentSuccessful = "PAYMENT_SUCCESSFUL"
