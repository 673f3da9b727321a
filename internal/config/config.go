package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	RootPrefix      string
	SessionDBPath   string
	SessionSecret   string
	SessionDuration time.Duration
	TemplatesPath   string
}

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults for everything except the object-store settings.
func Load() *Config {
	// Missing .env is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		Region:          getEnv("REGION", "eu-north-1"),
		AccessKeyID:     os.Getenv("ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("BUCKET_NAME"),
		RootPrefix:      getEnv("ROOT_PREFIX", "Summer_Activities/"),
		SessionDBPath:   getEnv("SESSION_DB_PATH", "./summerlit_sessions.db"),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionDuration: 24 * time.Hour,
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
	}
}

// Validate checks that the object-store settings are present. A missing
// bucket or credential is fatal at startup; partial operation is not allowed.
func (c *Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("BUCKET_NAME is required")
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return fmt.Errorf("ACCESS_KEY_ID and SECRET_ACCESS_KEY are required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
