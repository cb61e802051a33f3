// Package config provides configuration management for the eventdeck server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Session configuration
	SessionSecret string
	SessionMaxAge time.Duration

	// Password hashing
	BcryptCost int

	// Form limits
	MaxLinkCount int

	// CORS configuration
	CORSOrigin string

	// Development seeding
	SeedOnEmpty bool
}

// Load loads configuration from environment variables with sensible defaults.
// SessionSecret has no default; main refuses to start without it.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./dev.db"),

		// Sessions
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionMaxAge: time.Duration(getEnvInt("SESSION_MAX_AGE", 7*24*3600)) * time.Second,

		// Passwords
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		// Forms
		MaxLinkCount: getEnvInt("MAX_LINK_COUNT", 5),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		// Seeding
		SeedOnEmpty: getEnvBool("SEED_ON_EMPTY", false),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
