package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filingkart/filingkart/internal/wizard"
	"gorm.io/gorm"
)

type contextKey string

const tokenContextKey contextKey = "sessionToken"

// WithToken returns a context carrying the raw session token extracted
// from the request.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext returns the raw session token from a context, or ""
// if the request carried none.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// Provider resolves the current user for a request. It verifies the
// session token from the context and looks the account up in the
// database. A request without a token resolves to a nil user with a nil
// error; callers treat that as "not logged in".
type Provider struct {
	db        *gorm.DB
	extractor *TokenExtractor
}

// NewProvider creates a Provider backed by the given database connection
func NewProvider(db *gorm.DB, extractor *TokenExtractor) *Provider {
	return &Provider{
		db:        db,
		extractor: extractor,
	}
}

// CurrentUser implements wizard.SessionProvider
func (p *Provider) CurrentUser(ctx context.Context) (*wizard.User, error) {
	token := TokenFromContext(ctx)
	if token == "" {
		return nil, nil
	}

	accountID, err := p.extractor.ExtractAccountID(token)
	if err != nil {
		slog.Debug("session token rejected", "error", err)
		return nil, nil
	}

	var account UserAccount
	result := p.db.WithContext(ctx).Where("id = ?", accountID).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Debug("no account for session token", "account_id", accountID)
			return nil, nil
		}
		slog.Error("failed to fetch user account",
			"account_id", accountID,
			"error", result.Error,
		)
		return nil, fmt.Errorf("failed to fetch user account: %w", result.Error)
	}

	return &wizard.User{
		ID:    account.ID.String(),
		Email: account.Email,
		Name:  account.Name,
	}, nil
}

// IsAdmin reports whether the account behind the context's token has the
// admin flag set. Used to gate the job-postings management endpoints.
func (p *Provider) IsAdmin(ctx context.Context) (bool, error) {
	token := TokenFromContext(ctx)
	if token == "" {
		return false, nil
	}

	accountID, err := p.extractor.ExtractAccountID(token)
	if err != nil {
		return false, nil
	}

	var account UserAccount
	result := p.db.WithContext(ctx).Where("id = ?", accountID).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch user account: %w", result.Error)
	}

	return account.Admin, nil
}
