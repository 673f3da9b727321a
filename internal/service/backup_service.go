package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"summerlit/internal/models"
)

// BackupData is the on-disk shape of a progress export: every student's
// progress record keyed by "Group/Student".
type BackupData struct {
	Version    string                           `json:"version"`
	ExportedAt time.Time                        `json:"exported_at"`
	RootPrefix string                           `json:"root_prefix"`
	Students   map[string]models.ProgressRecord `json:"students"`
}

// BackupService exports and imports progress records for every student in
// the bucket.
type BackupService struct {
	auth       *AuthService
	activities *ActivityService
	rootPrefix string
}

// NewBackupService creates a new backup service.
func NewBackupService(auth *AuthService, activities *ActivityService, rootPrefix string) *BackupService {
	return &BackupService{
		auth:       auth,
		activities: activities,
		rootPrefix: rootPrefix,
	}
}

// Export writes every student's progress record to a local JSON file.
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	entries, err := s.auth.Roster(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	backup := BackupData{
		Version:    "1",
		ExportedAt: time.Now().UTC(),
		RootPrefix: s.rootPrefix,
		Students:   make(map[string]models.ProgressRecord),
	}

	for _, entry := range entries {
		prefix := s.auth.StudentPrefix(entry)
		record, err := s.activities.LoadProgress(ctx, prefix)
		if err != nil {
			log.Printf("Skipping %s/%s: %v", entry.Group, entry.Original, err)
			continue
		}
		backup.Students[entry.Group+"/"+entry.Original] = record
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	log.Printf("Exported progress for %d students to %s", len(backup.Students), outputPath)
	return nil
}

// Import restores progress records from a backup file, overwriting what is
// in the bucket for each student in the file.
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	entries, err := s.auth.Roster(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	byKey := make(map[string]RosterEntry, len(entries))
	for _, entry := range entries {
		byKey[entry.Group+"/"+entry.Original] = entry
	}

	restored := 0
	for key, record := range backup.Students {
		entry, ok := byKey[key]
		if !ok {
			log.Printf("Skipping %s: not in the current roster", key)
			continue
		}
		prefix := s.auth.StudentPrefix(entry)
		if err := s.activities.SaveProgress(ctx, prefix, record); err != nil {
			return fmt.Errorf("failed to restore progress for %s: %w", key, err)
		}
		restored++
	}

	log.Printf("Restored progress for %d students from %s", restored, inputPath)
	return nil
}
