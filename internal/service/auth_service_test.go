package service

import (
	"context"
	"errors"
	"testing"

	"summerlit/internal/credentials"
	"summerlit/internal/storage"
)

func newAuthFixture() *AuthService {
	store := storage.NewMemStore()
	store.Seed("Summer_Activities/GroupA/alice/day1/activity_pack.json", []byte("{}"))
	store.Seed("Summer_Activities/GroupA/bob/day1/activity_pack.json", []byte("{}"))
	store.Seed("Summer_Activities/GroupB/carol/day1/activity_pack.json", []byte("{}"))
	store.Seed("Summer_Activities/GroupA/GroupA_passwords.txt", []byte(
		"GROUP A PASSWORDS\n=========\nalice: sunshine\nbob: rainbow\n"))
	store.Seed("Summer_Activities/GroupB/carol_passwords.txt", []byte("seashell\n"))

	creds := credentials.NewLoader(store, "Summer_Activities/")
	return NewAuthService(store, creds, "Summer_Activities/")
}

func TestRoster(t *testing.T) {
	svc := newAuthFixture()

	entries, err := svc.Roster(context.Background())
	if err != nil {
		t.Fatalf("Roster() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	want := []RosterEntry{
		{Display: "Alice", Original: "alice", Group: "GroupA"},
		{Display: "Bob", Original: "bob", Group: "GroupA"},
		{Display: "Carol", Original: "carol", Group: "GroupB"},
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	tests := []struct {
		name    string
		student string
		secret  string
		wantErr bool
	}{
		{"group file password", "alice", "sunshine", false},
		{"display-cased name", "Alice", "sunshine", false},
		{"per-student file password", "carol", "seashell", false},
		{"wrong password", "alice", "rainbow", true},
		{"unknown student", "mallory", "sunshine", true},
		{"empty password", "bob", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := svc.Authenticate(ctx, tt.student, tt.secret)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("error = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if entry.Group == "" || entry.Original == "" {
				t.Errorf("incomplete entry: %+v", entry)
			}
		})
	}
}

func TestStudentPrefix(t *testing.T) {
	svc := newAuthFixture()
	entry := RosterEntry{Display: "Alice", Original: "alice", Group: "GroupA"}
	if got := svc.StudentPrefix(entry); got != "Summer_Activities/GroupA/alice" {
		t.Errorf("StudentPrefix() = %q", got)
	}
}
