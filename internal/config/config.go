package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Version is the application version, injected at build time via ldflags.
var Version = "dev"

// Config holds all application configuration.
//
// Service credentials (Tautulli, Overseerr, TMDB, AI backends) listed here
// are seed values only: the settings service copies them into the database
// on first run, and the database copy is what the clients read on every
// call. Editing them through the admin API takes effect without a restart.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Tautulli  TautulliConfig  `mapstructure:"tautulli"`
	Overseerr OverseerrConfig `mapstructure:"overseerr"`
	TMDB      TMDBConfig      `mapstructure:"tmdb"`
	AI        AIConfig        `mapstructure:"ai"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// TautulliConfig holds seed values for the Tautulli history provider.
type TautulliConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// OverseerrConfig holds seed values for the Overseerr request provider.
type OverseerrConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// TMDBConfig holds seed values for the TMDB metadata provider.
type TMDBConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// AIConfig holds seed values for the generative-text backends.
type AIConfig struct {
	Provider        string `mapstructure:"provider"` // "openai" or "compat"
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	Model           string `mapstructure:"model"`
	FallbackKind    string `mapstructure:"fallback_kind"`
	FallbackAPIKey  string `mapstructure:"fallback_api_key"`
	FallbackBaseURL string `mapstructure:"fallback_base_url"`
	FallbackModel   string `mapstructure:"fallback_model"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8787,
		},
		Database: DatabaseConfig{
			Path: "./data/sagarr.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Auth: AuthConfig{
			JWTSecret: "", // Will be generated if empty
		},
		AI: AIConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.sagarr")
	}

	// Environment variable settings
	v.SetEnvPrefix("SAGARR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8787)

	// Database defaults
	v.SetDefault("database.path", "./data/sagarr.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")

	// Service seeds
	v.SetDefault("tautulli.url", "")
	v.SetDefault("tautulli.api_key", "")
	v.SetDefault("overseerr.url", "")
	v.SetDefault("overseerr.api_key", "")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.fallback_kind", "")
	v.SetDefault("ai.fallback_api_key", "")
	v.SetDefault("ai.fallback_base_url", "")
	v.SetDefault("ai.fallback_model", "")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
