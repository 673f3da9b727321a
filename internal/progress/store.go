package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"summerlit/internal/models"
	"summerlit/internal/storage"
)

// Store persists per-student progress records in the object store as
// pretty-printed JSON, replaced in full on every save.
type Store struct {
	store storage.ObjectStore
}

// NewStore creates a progress store.
func NewStore(store storage.ObjectStore) *Store {
	return &Store{store: store}
}

// key returns the progress object key for a student prefix.
func key(studentPrefix string) string {
	return studentPrefix + "/progress.json"
}

// Load reads a student's progress record. A missing record is a fresh
// start, not an error; a malformed record is surfaced so login can report
// it instead of silently discarding history.
func (s *Store) Load(ctx context.Context, studentPrefix string) (models.ProgressRecord, error) {
	body, err := s.store.Get(ctx, key(studentPrefix))
	if err != nil {
		if storage.IsNotFound(err) {
			return make(models.ProgressRecord), nil
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	var record models.ProgressRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to parse progress record: %w", err)
	}
	if record == nil {
		record = make(models.ProgressRecord)
	}
	return record, nil
}

// Save writes the full record. The caller keeps its in-memory state on
// failure; the next successful save catches the persisted copy up.
func (s *Store) Save(ctx context.Context, studentPrefix string, record models.ProgressRecord) error {
	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress record: %w", err)
	}
	if err := s.store.Put(ctx, key(studentPrefix), body, "application/json"); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
