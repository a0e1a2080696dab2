// Package store persists discovery sessions and their ranked results as
// opaque blobs keyed by session id. The pipeline core never interprets the
// stored data; the web layer reads it back for rendering and export.
package store

import (
	"context"
	"time"

	"github.com/scholarlens/discovery-service/internal/domain"
)

// Session is one recorded discovery session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Interests []string  `json:"interests"`
	Countries []string  `json:"countries"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
}

// Store is the persistence collaborator contract.
type Store interface {
	// SaveSession records a new session and returns its id.
	SaveSession(ctx context.Context, interests, countries []string, provider, model string) (string, error)

	// SaveResults stores the ranked researcher list for a session.
	SaveResults(ctx context.Context, sessionID string, researchers []*domain.ResearcherProfile) error

	// Results returns the stored ranked list for a session, or an empty
	// list when none was stored.
	Results(ctx context.Context, sessionID string) ([]*domain.ResearcherProfile, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]Session, error)

	// SaveAlert records an alert message for a session.
	SaveAlert(ctx context.Context, sessionID, message string) error
}
