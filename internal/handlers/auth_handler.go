package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"summerlit/internal/runner"
	"summerlit/internal/security"
	"summerlit/internal/service"
	"summerlit/internal/session"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	auth       *service.AuthService
	activities *service.ActivityService
	sessions   *session.Store
	tokens     *session.TokenManager
	limiter    *security.RateLimiter
	templates  *template.Template
	duration   time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, activities *service.ActivityService, sessions *session.Store, tokens *session.TokenManager, limiter *security.RateLimiter, templates *template.Template, duration time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		activities: activities,
		sessions:   sessions,
		tokens:     tokens,
		limiter:    limiter,
		templates:  templates,
		duration:   duration,
	}
}

// ShowLogin renders the login page with the student roster dropdown.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	// Already logged in?
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if id, err := h.tokens.Verify(cookie.Value); err == nil {
			if state, err := h.sessions.Get(id); err == nil && state.Authenticated {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
		}
	}

	h.renderLogin(w, r, "", "")
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	student := r.FormValue("student")
	password := r.FormValue("password")

	if !h.limiter.Allow(security.ClientIP(r)) {
		h.renderLogin(w, r, student, MsgTooManyAttempts)
		return
	}

	entry, err := h.auth.Authenticate(r.Context(), student, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(w, r, student, MsgLoginFailed)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Login failed", err)
		return
	}

	prefix := h.auth.StudentPrefix(entry)
	record, err := h.activities.LoadProgress(r.Context(), prefix)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progress", err)
		return
	}

	days, _, err := h.activities.Days(r.Context(), prefix)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load activities", err)
		return
	}

	state := session.New()
	runner.Login(state, entry.Display, entry.Original, entry.Group, prefix, record, days)

	if err := h.sessions.Create(state); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create session", err)
		return
	}
	token, err := h.tokens.Mint(state.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to mint session token", err)
		return
	}

	security.SetSessionCookie(w, r, token, time.Now().Add(h.duration))
	log.Printf("Student %s (%s) logged in", entry.Display, entry.Group)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout saves in-progress answers, then drops the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	state := StateFromContext(r.Context())
	if state == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.activities.SaveProgress(r.Context(), state.StudentPrefix, state.Progress); err != nil {
		log.Printf("Failed to save progress on logout for %s: %v", state.Student, err)
	}
	h.activities.Refresh(state.StudentPrefix)

	runner.Logout(state)
	if err := h.sessions.Delete(state.ID); err != nil {
		log.Printf("Failed to delete session %s: %v", state.ID, err)
	}

	security.ClearSessionCookie(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, student, errMsg string) {
	entries, err := h.auth.Roster(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load roster", err)
		return
	}

	data := LoginViewData{
		Title:    "Login - Summer Literacy",
		Students: entries,
		Student:  student,
		Error:    errMsg,
	}
	if err := h.templates.ExecuteTemplate(w, "login.tmpl", data); err != nil {
		log.Printf("Error rendering login template: %v", err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
