package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "ENVIRONMENT", "LOG_LEVEL", "PORT", "GEMINI_API_KEY", "GEMINI_MODEL",
	"GEMINI_HTTP_TIMEOUT", "ALLOWED_ORIGINS", "ANALYZE_MAX_ATTEMPTS", "ANALYZE_MIN_DELAY",
	"ANALYZE_MAX_DELAY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.Gemini.HTTPTimeout)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.MinDelay)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, "local", cfg.Environment)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("GEMINI_HTTP_TIMEOUT", "45s")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ANALYZE_MAX_ATTEMPTS", "3")
	t.Setenv("ANALYZE_MIN_DELAY", "500ms")
	t.Setenv("ANALYZE_MAX_DELAY", "10s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 45*time.Second, cfg.Gemini.HTTPTimeout)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.MinDelay)
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxDelay)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
gemini:
  api_key: from-file
  model: gemini-1.5-pro
server:
  port: "7000"
  allowed_origins:
    - https://app.example
retry:
  max_attempts: 4
  max_delay: 5s
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_MODEL", "env-wins")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "from-file", cfg.Gemini.APIKey)
	assert.Equal(t, "env-wins", cfg.Gemini.Model)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Retry.MaxDelay)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "attempts not a number", env: map[string]string{"ANALYZE_MAX_ATTEMPTS": "two"}},
		{name: "negative attempts", env: map[string]string{"ANALYZE_MAX_ATTEMPTS": "-1"}},
		{name: "negative http timeout", env: map[string]string{"GEMINI_HTTP_TIMEOUT": "-1s"}},
		{name: "bad duration", env: map[string]string{"ANALYZE_MIN_DELAY": "soon"}},
		{name: "min above max", env: map[string]string{"ANALYZE_MIN_DELAY": "40s", "ANALYZE_MAX_DELAY": "30s"}},
		{name: "missing file", env: map[string]string{"CONFIG_FILE": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GEMINI_API_KEY", "k")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
