package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Postgres.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "https://openlibrary.org", cfg.Catalog.BaseURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/%s-L.jpg", cfg.Catalog.CoverTemplate)
	assert.InDelta(t, 5.0, cfg.Catalog.RPS, 0.0001)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":             "8081",
		"ENV":              "production",
		"DATABASE_URL":     "postgres://db/reviews",
		"CATALOG_BASE_URL": "http://catalog.local",
		"CATALOG_TIMEOUT":  "2s",
		"AUDIT_WORKERS":    "2",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://db/reviews", cfg.Postgres.URL)
	assert.Equal(t, "http://catalog.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 2, cfg.Audit.Workers)
}

func TestLoadWith_InvalidDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_TIMEOUT": "soon",
	}))
	assert.Error(t, err)
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "staging")
	t.Setenv("AUDIT_WORKERS", "8")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 8, cfg.Audit.Workers)
}
