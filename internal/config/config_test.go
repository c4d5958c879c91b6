package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("UPLOADS_DIR", "")
	t.Setenv("STATIC_BASE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "powertown.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./data/uploads", cfg.UploadsDir)
	assert.Equal(t, "/static/uploads", cfg.StaticBase)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/powertown")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("UPLOADS_DIR", "/var/lib/powertown/uploads")
	t.Setenv("STATIC_BASE", "/media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/powertown", cfg.DatabaseURL)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "/var/lib/powertown/uploads", cfg.UploadsDir)
	assert.Equal(t, "/media", cfg.StaticBase)
}
