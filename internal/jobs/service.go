package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filingkart/filingkart/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a job posting does not exist.
var ErrNotFound = errors.New("job not found")

// Service manages job postings
type Service struct {
	db *gorm.DB
}

// NewService creates a Service backed by the given database connection
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// ListActive returns a page of active postings for the public careers page
func (s *Service) ListActive(ctx context.Context, offset, limit *int) ([]Job, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var postings []Job
	result := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&postings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", result.Error)
	}
	return postings, nil
}

// ListAll returns a page of all postings, inactive included, for the
// admin view.
func (s *Service) ListAll(ctx context.Context, offset, limit *int) ([]Job, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var postings []Job
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&postings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", result.Error)
	}
	return postings, nil
}

// GetByID retrieves a single posting, active or not
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var posting Job
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&posting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch job: %w", result.Error)
	}
	return &posting, nil
}

// Create stores a new posting
func (s *Service) Create(ctx context.Context, posting *Job) error {
	if posting.Title == "" || posting.ApplyEmail == "" {
		return fmt.Errorf("job title and apply email are required")
	}

	if result := s.db.WithContext(ctx).Create(posting); result.Error != nil {
		return fmt.Errorf("failed to create job: %w", result.Error)
	}

	slog.Info("job posting created", "id", posting.ID, "title", posting.Title)
	return nil
}

// Delete removes a posting
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&Job{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	slog.Info("job posting deleted", "id", id)
	return nil
}
