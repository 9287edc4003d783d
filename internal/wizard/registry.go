package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthenticated is returned by Open when the session provider
// reports no logged-in user.
var ErrUnauthenticated = errors.New("authentication required")

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("wizard session not found")

// Session binds one controller to one applicant. A session is owned
// exclusively by its applicant; there are no concurrent writers by
// design, the controller's locking only guards overlapping uploads.
type Session struct {
	ID         uuid.UUID
	ServiceID  string
	UserID     string
	Controller *Controller
	CreatedAt  time.Time

	lastAccess time.Time
}

// Registry holds the live wizard sessions in memory. Sessions are
// discarded on successful submission and swept after the configured idle
// TTL; there is no persistence, navigating away loses the draft.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	sessionP SessionProvider
	ttl      time.Duration
}

// DefaultSessionTTL is how long an idle draft survives before sweeping.
const DefaultSessionTTL = 2 * time.Hour

// NewRegistry builds a registry gated by provider. A non-positive ttl
// falls back to DefaultSessionTTL.
func NewRegistry(provider SessionProvider, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		sessionP: provider,
		ttl:      ttl,
	}
}

// Open consults the session provider once and, for an authenticated user,
// creates a new session around a fresh controller.
func (r *Registry) Open(ctx context.Context, def Definition, coordinator *UploadCoordinator, submitter Submitter) (*Session, error) {
	user, err := r.sessionP.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("session check failed: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	now := time.Now()
	session := &Session{
		ID:         uuid.New(),
		ServiceID:  def.ServiceID,
		UserID:     user.ID,
		Controller: NewController(def, coordinator, submitter, user),
		CreatedAt:  now,
		lastAccess: now,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	slog.Info("wizard session opened", "session", session.ID, "service", def.ServiceID, "user", user.ID)
	return session, nil
}

// Get returns the session for id and refreshes its idle timer.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.lastAccess = time.Now()
	return session, nil
}

// Discard drops a session, called after successful submission or an
// explicit cancel.
func (r *Registry) Discard(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		delete(r.sessions, id)
		slog.Info("wizard session discarded", "session", id)
	}
}

// Sweep removes sessions idle past the TTL and returns how many were
// dropped.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, session := range r.sessions {
		if session.lastAccess.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("swept idle wizard sessions", "count", removed)
	}
	return removed
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
