package repository

import (
	"database/sql"
	"fmt"
	"time"

	"summerlit/internal/database"
)

// SessionRepository handles database operations for server-side sessions.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession stores a new session row.
func (r *SessionRepository) CreateSession(id string, state []byte, expiresAt time.Time) error {
	query := "INSERT INTO sessions (id, state, expires_at, updated_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.Exec(query, id, string(state), expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession returns the serialized state and expiry for a session id.
// A missing session returns sql.ErrNoRows untouched so callers can branch.
func (r *SessionRepository) GetSession(id string) ([]byte, time.Time, error) {
	query := "SELECT state, expires_at FROM sessions WHERE id = ?"
	var state string
	var expiresAt time.Time
	err := r.db.QueryRow(query, id).Scan(&state, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, err
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get session: %w", err)
	}
	return []byte(state), expiresAt, nil
}

// UpdateSession replaces the serialized state of an existing session.
func (r *SessionRepository) UpdateSession(id string, state []byte) error {
	query := "UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.Exec(query, string(state), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteSession removes a session row.
func (r *SessionRepository) DeleteSession(id string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *SessionRepository) DeleteExpiredSessions() (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
