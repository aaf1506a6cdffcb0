package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "instavibe/backend/pkg/errors"
)

// Supported database backends
const (
	BackendSpanner  = "spanner"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// App
	Env     string
	AppHost string
	Port    string

	// Database
	Backend    string
	DDLTimeout time.Duration

	// Spanner
	ProjectID  string
	InstanceID string
	DatabaseID string

	// Postgres
	DatabaseURL string

	// Neo4j (graph projection only)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Seed
	SeedFixture string // Optional path to a TOML fixture; empty uses the embedded one
}

// Load reads configuration from environment variables. It does not validate:
// callers apply their overrides first and then call Validate.
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		AppHost:       getEnv("APP_HOST", "0.0.0.0"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "8080")),
		Backend:       getEnv("DB_BACKEND", BackendSpanner),
		DDLTimeout:    time.Duration(getEnvInt("DDL_TIMEOUT_SECONDS", 360)) * time.Second,
		ProjectID:     getEnv("GOOGLE_CLOUD_PROJECT", ""),
		InstanceID:    getEnv("SPANNER_INSTANCE_ID", "instavibe-graph-instance-v1"),
		DatabaseID:    getEnv("SPANNER_DATABASE_ID", "graphdbv1"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Neo4jURI:      getEnv("NEO4J_URI", ""),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),
		SeedFixture:   getEnv("SEED_FIXTURE", ""),
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.DDLTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("DDL_TIMEOUT_SECONDS", "must be positive")
	}
	switch c.Backend {
	case BackendSpanner:
		if c.ProjectID == "" {
			return apperrors.NewConfigMissingRequired("GOOGLE_CLOUD_PROJECT")
		}
		if c.InstanceID == "" {
			return apperrors.NewConfigMissingRequired("SPANNER_INSTANCE_ID")
		}
		if c.DatabaseID == "" {
			return apperrors.NewConfigMissingRequired("SPANNER_DATABASE_ID")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return apperrors.NewConfigMissingRequired("DATABASE_URL")
		}
	default:
		return apperrors.NewConfigValidationFailed("DB_BACKEND", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	// Neo4j settings are optional; only the graph projection needs them
	return nil
}

// SpannerDatabase returns the fully qualified Spanner database name
func (c *Config) SpannerDatabase() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", c.ProjectID, c.InstanceID, c.DatabaseID)
}

// ListenAddr returns the HTTP listen address
func (c *Config) ListenAddr() string {
	return c.AppHost + ":" + c.Port
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
