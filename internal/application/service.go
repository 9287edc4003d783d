package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filingkart/filingkart/internal/wizard"
	"github.com/filingkart/filingkart/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an application does not exist.
var ErrNotFound = errors.New("application not found")

// Service persists filed applications and serves them back to applicants
// and the back office. It is the submission collaborator behind the
// wizard engine.
type Service struct {
	db *gorm.DB
}

// NewService creates a Service backed by the given database connection
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// Submit implements wizard.Submitter. The payload's form snapshot and
// document manifest are stored as received; nothing is revalidated here.
func (s *Service) Submit(ctx context.Context, payload wizard.SubmissionPayload) (wizard.SubmissionReceipt, error) {
	formData, err := json.Marshal(payload.FormData)
	if err != nil {
		return wizard.SubmissionReceipt{}, fmt.Errorf("failed to encode form data: %w", err)
	}

	documents, err := json.Marshal(payload.Documents)
	if err != nil {
		return wizard.SubmissionReceipt{}, fmt.Errorf("failed to encode document manifest: %w", err)
	}

	app := Application{
		SubmissionID: payload.SubmissionID,
		ServiceID:    payload.ServiceID,
		UserID:       payload.UserID,
		Plan:         string(payload.Plan),
		Price:        int64(payload.Price),
		FormData:     formData,
		Documents:    documents,
		Status:       ApplicationStatus(payload.Status),
	}

	if result := s.db.WithContext(ctx).Create(&app); result.Error != nil {
		slog.Error("failed to persist application",
			"submission_id", payload.SubmissionID,
			"service_id", payload.ServiceID,
			"error", result.Error,
		)
		return wizard.SubmissionReceipt{}, fmt.Errorf("failed to persist application: %w", result.Error)
	}

	slog.Info("application filed",
		"submission_id", app.SubmissionID,
		"service_id", app.ServiceID,
		"plan", app.Plan,
	)

	return wizard.SubmissionReceipt{ID: app.SubmissionID}, nil
}

// GetByID retrieves an application by its record ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	var app Application
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&app)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", result.Error)
	}
	return &app, nil
}

// GetBySubmissionID retrieves an application by the submission ID shown
// to the applicant.
func (s *Service) GetBySubmissionID(ctx context.Context, submissionID string) (*Application, error) {
	var app Application
	result := s.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&app)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", result.Error)
	}
	return &app, nil
}

// ListByUser returns a page of a user's applications, newest first
func (s *Service) ListByUser(ctx context.Context, userID string, offset, limit *int) ([]Application, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var apps []Application
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&apps)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list applications: %w", result.Error)
	}
	return apps, nil
}

// UpdateStatus moves an application to a new review status
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid application status: %s", status)
	}

	result := s.db.WithContext(ctx).
		Model(&Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	slog.Info("application status updated", "id", id, "status", status)
	return nil
}
