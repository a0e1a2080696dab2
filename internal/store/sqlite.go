package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scholarlens/discovery-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	interests  TEXT NOT NULL,
	countries  TEXT NOT NULL,
	provider   TEXT NOT NULL,
	model      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	session_id TEXT PRIMARY KEY REFERENCES sessions(id),
	data       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	message    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// SQLiteStore implements Store on a local sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, interests, countries []string, provider, model string) (string, error) {
	id := uuid.NewString()

	interestsJSON, err := json.Marshal(interests)
	if err != nil {
		return "", fmt.Errorf("encoding interests: %w", err)
	}
	countriesJSON, err := json.Marshal(countries)
	if err != nil {
		return "", fmt.Errorf("encoding countries: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, interests, countries, provider, model) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), string(interestsJSON), string(countriesJSON), provider, model,
	)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) SaveResults(ctx context.Context, sessionID string, researchers []*domain.ResearcherProfile) error {
	data, err := json.Marshal(researchers)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (session_id, data) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET data = excluded.data`,
		sessionID, string(data),
	)
	if err != nil {
		return fmt.Errorf("inserting results: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Results(ctx context.Context, sessionID string) ([]*domain.ResearcherProfile, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM results WHERE session_id = ?`, sessionID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []*domain.ResearcherProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}

	var researchers []*domain.ResearcherProfile
	if err := json.Unmarshal([]byte(data), &researchers); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return researchers, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, interests, countries, provider, model FROM sessions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess          Session
			interestsJSON string
			countriesJSON string
		)
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &interestsJSON, &countriesJSON, &sess.Provider, &sess.Model); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(interestsJSON), &sess.Interests); err != nil {
			return nil, fmt.Errorf("decoding interests: %w", err)
		}
		if err := json.Unmarshal([]byte(countriesJSON), &sess.Countries); err != nil {
			return nil, fmt.Errorf("decoding countries: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLiteStore) SaveAlert(ctx context.Context, sessionID, message string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (session_id, message, created_at) VALUES (?, ?, ?)`,
		sessionID, message, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting alert: %w", err)
	}
	return nil
}
