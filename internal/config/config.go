package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL = "powertown.db"
	defaultHTTPAddr    = ":8080"
	defaultUploadsDir  = "./data/uploads"
	defaultStaticBase  = "/static/uploads"
)

// Config holds runtime settings, populated from environment variables.
type Config struct {
	DatabaseURL string
	HTTPAddr    string
	UploadsDir  string // filesystem root for stored media
	StaticBase  string // URL prefix the stored media is served under
}

// Load reads configuration from the environment, applying defaults where
// unset. A local .env file is honoured when present.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the real environment.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: envOrDefault("DATABASE_URL", defaultDatabaseURL),
		HTTPAddr:    envOrDefault("HTTP_ADDR", defaultHTTPAddr),
		UploadsDir:  envOrDefault("UPLOADS_DIR", defaultUploadsDir),
		StaticBase:  envOrDefault("STATIC_BASE", defaultStaticBase),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.UploadsDir == "" {
		return nil, fmt.Errorf("UPLOADS_DIR is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
