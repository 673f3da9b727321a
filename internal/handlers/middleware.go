package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"summerlit/internal/security"
	"summerlit/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions *session.Store
	tokens   *session.TokenManager
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessions *session.Store, tokens *session.TokenManager) *Middleware {
	return &Middleware{
		sessions: sessions,
		tokens:   tokens,
	}
}

// RequireStudent requires an authenticated student session. The session id
// is carried in a signed cookie; the session state itself lives server-side.
func (m *Middleware) RequireStudent(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sessionID, err := m.tokens.Verify(cookie.Value)
		if err != nil {
			security.ClearSessionCookie(w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		state, err := m.sessions.Get(sessionID)
		if err != nil {
			security.ClearSessionCookie(w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if !state.Authenticated {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, state)
		next(w, r.WithContext(ctx))
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// StateFromContext retrieves the session state from the request context
func StateFromContext(ctx context.Context) *session.State {
	state, ok := ctx.Value(SessionContextKey).(*session.State)
	if !ok {
		return nil
	}
	return state
}
