package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"summerlit/internal/repository"
	"summerlit/internal/security"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Store persists SessionState between interactions, keyed by session id.
type Store struct {
	repo     *repository.SessionRepository
	duration time.Duration
}

// NewStore creates a session store.
func NewStore(repo *repository.SessionRepository, duration time.Duration) *Store {
	return &Store{repo: repo, duration: duration}
}

// Create assigns a fresh session id to the state and persists it.
func (s *Store) Create(state *State) error {
	state.ID = security.GenerateSessionID()
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := s.repo.CreateSession(state.ID, body, time.Now().Add(s.duration)); err != nil {
		return err
	}
	return nil
}

// Get rehydrates the state for a session id.
func (s *Store) Get(id string) (*State, error) {
	body, expiresAt, err := s.repo.GetSession(id)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) {
		// Expired rows are swept by the cleanup ticker; deleting here just
		// shortens the window.
		_ = s.repo.DeleteSession(id)
		return nil, ErrSessionExpired
	}

	state := New()
	if err := json.Unmarshal(body, state); err != nil {
		return nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	return state, nil
}

// Save persists the current state under its session id.
func (s *Store) Save(state *State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	err = s.repo.UpdateSession(state.ID, body)
	if err == sql.ErrNoRows {
		return ErrSessionNotFound
	}
	return err
}

// Delete removes the session.
func (s *Store) Delete(id string) error {
	return s.repo.DeleteSession(id)
}

// CleanupExpired removes expired sessions and returns how many were swept.
func (s *Store) CleanupExpired() (int64, error) {
	return s.repo.DeleteExpiredSessions()
}
