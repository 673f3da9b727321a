package security

import (
	"testing"
	"time"
)

func TestCSRFTokens(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.Token("session-1")
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if !gen.Valid("session-1", token) {
		t.Error("token rejected for its own session")
	}
	if gen.Valid("session-2", token) {
		t.Error("token accepted for a different session")
	}
	if gen.Valid("session-1", token+"0") {
		t.Error("tampered token accepted")
	}
	if gen.Valid("", token) || gen.Valid("session-1", "") {
		t.Error("empty session or token accepted")
	}

	other := NewCSRFGenerator("other-secret")
	if other.Valid("session-1", token) {
		t.Error("token accepted under a different secret")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d blocked below the limit", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request above the limit allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("separate IP blocked by another IP's bucket")
	}
}

func TestGenerateSessionID(t *testing.T) {
	a, b := GenerateSessionID(), GenerateSessionID()
	if a == "" || a == b {
		t.Errorf("session ids not unique: %q, %q", a, b)
	}
}
