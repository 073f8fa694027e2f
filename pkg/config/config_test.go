package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jamescw/unicef-assessment-tool/internal/errors"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "CATALOG_SHEET", "CATALOG_SKIP_ROWS", "COMBINE_POLICY", "DATABASE_URL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg := New()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "All", cfg.CatalogSheet)
	assert.Equal(t, 2, cfg.CatalogSkipRows)
	assert.Equal(t, CombinePolicySkip, cfg.CombinePolicy)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.HasDatabase())
	require.NoError(t, cfg.Validate())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("COMBINE_POLICY", "ZERO")
	t.Setenv("CATALOG_SKIP_ROWS", "0")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_FORMAT", "")

	cfg := New()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, CombinePolicyZero, cfg.CombinePolicy)
	assert.Equal(t, 0, cfg.CatalogSkipRows)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetAllowedOrigins())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{CatalogPath: "framework.xlsx", CombinePolicy: CombinePolicySkip, MaxRequestSize: 1024}
	}

	cases := map[string]func(c *Config){
		"unknown combine policy": func(c *Config) { c.CombinePolicy = "average" },
		"missing catalog":        func(c *Config) { c.CatalogPath = "" },
		"negative skip rows":     func(c *Config) { c.CatalogSkipRows = -1 },
		"zero request size":      func(c *Config) { c.MaxRequestSize = 0 },
		"database without jwt":   func(c *Config) { c.DatabaseURL = "postgres://localhost/db" },
	}

	require.NoError(t, base().Validate())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err))
		})
	}
}
