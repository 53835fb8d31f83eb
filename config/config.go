package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Quota  QuotaConfig  `mapstructure:"quota"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds configuration for the attribute extraction and safety collaborator
type GeminiConfig struct {
	APIKey              string  `mapstructure:"api_key"`
	Model               string  `mapstructure:"model"`
	AnalysisTemperature float32 `mapstructure:"analysis_temperature"`
	SafetyTemperature   float32 `mapstructure:"safety_temperature"`
	RequestsPerSecond   float64 `mapstructure:"requests_per_second"`
	Burst               int     `mapstructure:"burst"`
}

// QuotaConfig holds per-client quota configuration
type QuotaConfig struct {
	Type       string        `mapstructure:"type"` // "memory", "sqlite" or "none"
	DailyLimit int           `mapstructure:"daily_limit"`
	Window     time.Duration `mapstructure:"window"`
	SQLitePath string        `mapstructure:"sqlite_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ErrMissingAPIKey is returned by RequireGemini when no API key is configured
var ErrMissingAPIKey = errors.New("gemini API key is required (set ULTRASCORE_GEMINI_API_KEY)")

// Load loads configuration from environment variables and config files.
// configFile, when set, replaces the default search paths.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ultrascore/")
	}

	// ULTRASCORE_GEMINI_API_KEY -> gemini.api_key
	v.SetEnvPrefix("ULTRASCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.analysis_temperature", 0.2)
	v.SetDefault("gemini.safety_temperature", 0.0)
	v.SetDefault("gemini.requests_per_second", 1.0)
	v.SetDefault("gemini.burst", 5)

	v.SetDefault("quota.type", "memory")
	v.SetDefault("quota.daily_limit", 10)
	v.SetDefault("quota.window", "24h")
	v.SetDefault("quota.sqlite_path", "ultrascore-quota.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Quota.Type {
	case "memory", "none":
	case "sqlite":
		if config.Quota.SQLitePath == "" {
			return fmt.Errorf("quota sqlite_path is required when quota type is 'sqlite'")
		}
	default:
		return fmt.Errorf("quota type must be 'memory', 'sqlite' or 'none', got: %s", config.Quota.Type)
	}

	if config.Quota.DailyLimit < 0 {
		return fmt.Errorf("quota daily_limit must not be negative, got: %d", config.Quota.DailyLimit)
	}
	if config.Quota.Window <= 0 {
		return fmt.Errorf("quota window must be positive, got: %s", config.Quota.Window)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if config.Gemini.AnalysisTemperature < 0 || config.Gemini.SafetyTemperature < 0 {
		return fmt.Errorf("gemini temperatures must not be negative")
	}

	return nil
}

// RequireGemini reports whether the AI-backed analysis can run. The score
// command works without it; serve and mcp do not.
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
