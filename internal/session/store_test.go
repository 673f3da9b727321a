package session

import (
	"path/filepath"
	"testing"
	"time"

	"summerlit/internal/database"
	"summerlit/internal/repository"
)

func newTestStore(t *testing.T, duration time.Duration) *Store {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(repository.NewSessionRepository(db), duration)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)

	state := New()
	state.Authenticated = true
	state.Student = "Alice"
	state.Group = "GroupA"
	state.CurrentDay = "day2"
	state.Answers["answer_day2_0"] = "the cat sat"
	state.CompletedDays["day1"] = true

	if err := store.Create(state); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if state.ID == "" {
		t.Fatal("Create() must assign a session id")
	}

	loaded, err := store.Get(state.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if loaded.Student != "Alice" || loaded.CurrentDay != "day2" {
		t.Errorf("loaded state mismatch: %+v", loaded)
	}
	if loaded.Answers["answer_day2_0"] != "the cat sat" {
		t.Errorf("answers not restored: %v", loaded.Answers)
	}
	if !loaded.CompletedDays["day1"] {
		t.Error("completed days not restored")
	}

	loaded.QuestionPage = 3
	if err := store.Save(loaded); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	again, err := store.Get(state.ID)
	if err != nil {
		t.Fatalf("Get() after save error: %v", err)
	}
	if again.QuestionPage != 3 {
		t.Errorf("QuestionPage = %d, want 3", again.QuestionPage)
	}
}

func TestStoreMissingSession(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if _, err := store.Get("nope"); err != ErrSessionNotFound {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestStoreExpiredSession(t *testing.T) {
	store := newTestStore(t, -time.Minute)

	state := New()
	if err := store.Create(state); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := store.Get(state.ID); err != ErrSessionExpired {
		t.Errorf("Get() error = %v, want ErrSessionExpired", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Mint("session-123")
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}

	id, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if id != "session-123" {
		t.Errorf("session id = %q, want session-123", id)
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := other.Mint("session-123")
	if err != nil {
		t.Fatalf("Mint() error: %v", err)
	}
	if _, err := manager.Verify(token); err == nil {
		t.Error("token signed with another secret must not verify")
	}

	if _, err := manager.Verify("not-a-token"); err == nil {
		t.Error("garbage token must not verify")
	}
}
