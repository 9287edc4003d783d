package application

import (
	"encoding/json"

	"github.com/filingkart/filingkart/internal/model"
)

// ApplicationStatus tracks a filed application through back-office review.
type ApplicationStatus string

const (
	// StatusPaymentSuccessful is the status an application is filed with.
	StatusPaymentSuccessful ApplicationStatus = "PAYMENT_SUCCESSFUL"
	// StatusReceived means the back office has picked the filing up.
	StatusReceived ApplicationStatus = "RECEIVED"
	// StatusInReview means the filing is being processed with the authority.
	StatusInReview ApplicationStatus = "IN_REVIEW"
	// StatusCompleted means the registration or license was granted.
	StatusCompleted ApplicationStatus = "COMPLETED"
	// StatusRejected means the filing was refused or abandoned.
	StatusRejected ApplicationStatus = "REJECTED"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPaymentSuccessful, StatusReceived, StatusInReview, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Application is a filed service application: the final form snapshot,
// the document manifest, and the chosen plan, frozen at submission time.
type Application struct {
	model.BaseModel
	SubmissionID string            `gorm:"type:varchar(64);column:submission_id;uniqueIndex;not null" json:"submissionId"`
	ServiceID    string            `gorm:"type:varchar(100);column:service_id;not null;index" json:"serviceId"`
	UserID       string            `gorm:"type:varchar(64);column:user_id;index" json:"userId,omitempty"`
	Plan         string            `gorm:"type:varchar(50);column:plan;not null" json:"plan"`
	Price        int64             `gorm:"type:bigint;column:price;not null" json:"price"`
	FormData     json.RawMessage   `gorm:"type:jsonb;column:form_data;not null" json:"formData"`
	Documents    json.RawMessage   `gorm:"type:jsonb;column:documents;not null" json:"documents"`
	Status       ApplicationStatus `gorm:"type:varchar(30);column:status;not null" json:"status"`
}

func (a *Application) TableName() string {
	return "applications"
}
