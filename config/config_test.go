package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
		assert.InDelta(t, 0.2, cfg.Gemini.AnalysisTemperature, 0.0001)
		assert.Zero(t, cfg.Gemini.SafetyTemperature)
		assert.Equal(t, 5, cfg.Gemini.Burst)
		assert.Equal(t, "memory", cfg.Quota.Type)
		assert.Equal(t, 10, cfg.Quota.DailyLimit)
		assert.Equal(t, 24*time.Hour, cfg.Quota.Window)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)

		assert.ErrorIs(t, cfg.RequireGemini(), ErrMissingAPIKey)
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ULTRASCORE_SERVER_PORT", "9090")
		t.Setenv("ULTRASCORE_SERVER_ENVIRONMENT", "production")
		t.Setenv("ULTRASCORE_GEMINI_API_KEY", "custom-api-key")
		t.Setenv("ULTRASCORE_GEMINI_MODEL", "gemini-2.5-pro")
		t.Setenv("ULTRASCORE_QUOTA_TYPE", "sqlite")
		t.Setenv("ULTRASCORE_QUOTA_DAILY_LIMIT", "25")
		t.Setenv("ULTRASCORE_QUOTA_WINDOW", "1h")
		t.Setenv("ULTRASCORE_LOG_FORMAT", "console")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "production", cfg.Server.Environment)
		assert.Equal(t, "custom-api-key", cfg.Gemini.APIKey)
		assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
		assert.Equal(t, "sqlite", cfg.Quota.Type)
		assert.Equal(t, 25, cfg.Quota.DailyLimit)
		assert.Equal(t, time.Hour, cfg.Quota.Window)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.NoError(t, cfg.RequireGemini())
	})

	t.Run("loads explicit config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ultrascore.yaml")
		content := []byte(`
server:
  port: "7070"
  allowed_origins:
    - https://ultrascore.app
gemini:
  api_key: file-key
quota:
  type: none
`)
		require.NoError(t, os.WriteFile(path, content, 0600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, []string{"https://ultrascore.app"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "file-key", cfg.Gemini.APIKey)
		assert.Equal(t, "none", cfg.Quota.Type)
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("rejects invalid quota type", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ULTRASCORE_QUOTA_TYPE", "redis")

		_, err := Load("")
		assert.ErrorContains(t, err, "quota type must be")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Quota: QuotaConfig{Type: "memory", DailyLimit: 10, Window: 24 * time.Hour, SQLitePath: "quota.db"},
			Log:   LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "sqlite without path", mutate: func(c *Config) { c.Quota.Type = "sqlite"; c.Quota.SQLitePath = "" }, wantErr: true},
		{name: "negative limit", mutate: func(c *Config) { c.Quota.DailyLimit = -1 }, wantErr: true},
		{name: "zero window", mutate: func(c *Config) { c.Quota.Window = 0 }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "negative temperature", mutate: func(c *Config) { c.Gemini.SafetyTemperature = -0.1 }, wantErr: true},
		{name: "quota disabled", mutate: func(c *Config) { c.Quota.Type = "none" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
