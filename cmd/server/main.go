package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"summerlit/internal/config"
	"summerlit/internal/content"
	"summerlit/internal/credentials"
	"summerlit/internal/database"
	"summerlit/internal/handlers"
	"summerlit/internal/progress"
	"summerlit/internal/repository"
	"summerlit/internal/security"
	"summerlit/internal/service"
	"summerlit/internal/session"
	"summerlit/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the session database
	db, err := database.Initialize(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize session database: %v", err)
	}
	defer db.Close()

	log.Println("Session database ready")

	// Connect to the object store
	objects, err := storageFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object store: %v", err)
	}

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories and stores
	sessionRepo := repository.NewSessionRepository(db)
	sessions := session.NewStore(sessionRepo, cfg.SessionDuration)
	tokens := session.NewTokenManager(cfg.SessionSecret, cfg.SessionDuration)
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	loginLimiter := security.NewRateLimiter(10, time.Minute)

	// Initialize services
	credLoader := credentials.NewLoader(objects, cfg.RootPrefix)
	authService := service.NewAuthService(objects, credLoader, cfg.RootPrefix)
	activityService := service.NewActivityService(
		content.NewLoader(objects),
		content.NewCache(),
		progress.NewStore(objects),
	)

	// Initialize handlers
	middleware := handlers.NewMiddleware(sessions, tokens)
	authHandler := handlers.NewAuthHandler(authService, activityService, sessions, tokens, loginLimiter, templates, cfg.SessionDuration)
	activityHandler := handlers.NewActivityHandler(activityService, sessions, csrf, templates)
	audioHandler := handlers.NewAudioHandler(objects)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", middleware.RequireStudent(authHandler.Logout))

	mux.HandleFunc("GET /{$}", middleware.RequireStudent(activityHandler.Home))
	mux.HandleFunc("POST /day/start", middleware.RequireStudent(activityHandler.StartDay))
	mux.HandleFunc("POST /answer/select", middleware.RequireStudent(activityHandler.SubmitSelect))
	mux.HandleFunc("POST /answer/text", middleware.RequireStudent(activityHandler.SubmitText))
	mux.HandleFunc("POST /page/next", middleware.RequireStudent(activityHandler.NextPage))
	mux.HandleFunc("POST /page/prev", middleware.RequireStudent(activityHandler.PrevPage))
	mux.HandleFunc("POST /day/complete", middleware.RequireStudent(activityHandler.CompleteDay))
	mux.HandleFunc("POST /day/continue", middleware.RequireStudent(activityHandler.ContinueDay))
	mux.HandleFunc("POST /practice", middleware.RequireStudent(activityHandler.TogglePractice))

	mux.HandleFunc("GET /audio/{key...}", middleware.RequireStudent(audioHandler.Stream))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(sessions)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func storageFromConfig(cfg *config.Config) (*storage.S3Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return storage.NewS3Store(ctx, cfg)
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	pattern := filepath.Join(templatesPath, "*.tmpl")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesPath)
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(sessions *session.Store) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := sessions.CleanupExpired()
		if err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
			continue
		}
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}
