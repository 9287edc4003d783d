package database

import (
	"fmt"
	"log/slog"

	"github.com/filingkart/filingkart/internal/application"
	"github.com/filingkart/filingkart/internal/jobs"
	"github.com/filingkart/filingkart/internal/session"
	"gorm.io/gorm"
)

// Migrate runs schema migrations for all persisted models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&session.UserAccount{},
		&application.Application{},
		&jobs.Job{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
