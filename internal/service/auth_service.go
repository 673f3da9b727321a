package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"summerlit/internal/credentials"
	"summerlit/internal/roster"
	"summerlit/internal/storage"
)

// ErrInvalidCredentials is returned for a wrong name or password. The two
// cases are deliberately not distinguished to the client.
var ErrInvalidCredentials = errors.New("invalid student name or password")

// RosterEntry is one student discovered in the bucket.
type RosterEntry struct {
	Display  string // capitalized name shown in the login dropdown
	Original string // name exactly as it appears in object keys
	Group    string
}

// AuthService discovers the student roster from the bucket layout and
// checks login attempts against the group password files.
type AuthService struct {
	objects    storage.ObjectStore
	creds      *credentials.Loader
	rootPrefix string
}

// NewAuthService creates a new auth service.
func NewAuthService(objects storage.ObjectStore, creds *credentials.Loader, rootPrefix string) *AuthService {
	return &AuthService{
		objects:    objects,
		creds:      creds,
		rootPrefix: rootPrefix,
	}
}

// Roster lists the students found under the root prefix, sorted by display
// name.
func (s *AuthService) Roster(ctx context.Context) ([]RosterEntry, error) {
	keys, err := s.objects.List(ctx, s.rootPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket for roster: %w", err)
	}

	byStudent := roster.Infer(keys, s.rootPrefix)
	entries := make([]RosterEntry, 0, len(byStudent))
	for name, group := range byStudent {
		entries = append(entries, RosterEntry{
			Display:  credentials.Capitalize(name),
			Original: name,
			Group:    group,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Display < entries[j].Display
	})
	return entries, nil
}

// Authenticate verifies a student's password and returns their roster
// entry. The student name is matched case-insensitively against the roster.
func (s *AuthService) Authenticate(ctx context.Context, student, secret string) (RosterEntry, error) {
	entries, err := s.Roster(ctx)
	if err != nil {
		return RosterEntry{}, err
	}

	var entry RosterEntry
	found := false
	for _, e := range entries {
		if strings.EqualFold(e.Original, student) {
			entry = e
			found = true
			break
		}
	}
	if !found {
		return RosterEntry{}, ErrInvalidCredentials
	}

	passwords, err := s.creds.LoadGroup(ctx, entry.Group)
	if err != nil {
		return RosterEntry{}, fmt.Errorf("failed to load passwords for group %s: %w", entry.Group, err)
	}

	stored, ok := credentials.Lookup(passwords, entry.Original)
	if !ok || !credentials.Verify(stored, secret) {
		return RosterEntry{}, ErrInvalidCredentials
	}
	return entry, nil
}

// StudentPrefix returns the bucket prefix holding a student's content.
func (s *AuthService) StudentPrefix(entry RosterEntry) string {
	return strings.TrimSuffix(s.rootPrefix, "/") + "/" + entry.Group + "/" + entry.Original
}
