// Package config holds the runtime configuration for the server
package config

import (
	"os"
	"time"
)

// Config carries everything the server needs at startup. Flags fill Debug
// and Port, the rest comes from the environment (loaded via godotenv in main).
type Config struct {
	Debug bool
	Port  string

	// AuthSecret signs and verifies connection tokens.
	AuthSecret string

	// DatabaseURL enables the Postgres result recorder when set.
	DatabaseURL string

	// RedisURL enables the recent-result cache when set.
	RedisURL string

	// FrontendOrigin is the allowed CORS/websocket origin.
	FrontendOrigin string

	// GraceWindow is how long a finished session stays lookupable
	// before it is removed from the active registry.
	GraceWindow time.Duration
}

// DefaultGraceWindow is applied when GRACE_WINDOW is not set.
const DefaultGraceWindow = 5 * time.Second

// Load fills the environment-backed fields of the config.
func (c *Config) Load() {
	c.AuthSecret = os.Getenv("AUTH_SECRET")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.RedisURL = os.Getenv("REDIS_URL")
	c.FrontendOrigin = os.Getenv("FRONTEND_PATH")

	c.GraceWindow = DefaultGraceWindow
	if raw := os.Getenv("GRACE_WINDOW"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			c.GraceWindow = d
		}
	}
}
