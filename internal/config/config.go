package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TUTORLY_DATABASE_URL.
const EnvPrefix = "TUTORLY"

// Config holds all application configuration.
type Config struct {
	// DatabaseURL selects the store. Empty means an in-memory SQLite
	// database; postgres:// URLs use PostgreSQL; anything else is a SQLite
	// file.
	DatabaseURL string `mapstructure:"database_url"`

	// RedisURL enables the shared rate limiter when set.
	RedisURL string `mapstructure:"redis_url"`

	Port      string `mapstructure:"port"`
	GinMode   string `mapstructure:"gin_mode"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// TutorDelay is the simulated latency of tutor replies.
	TutorDelay time.Duration `mapstructure:"tutor_delay"`

	// AllowedOrigins controls CORS. Empty means all origins are permitted.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RateLimit is the number of requests a client may make per RateWindow.
	// Zero disables rate limiting.
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`

	// Seed loads the built-in problem bank into an empty database.
	Seed bool `mapstructure:"seed"`
}

// New returns a viper instance with defaults, environment binding and an
// optional tutorly.yaml from the working directory or ~/.config/tutorly.
// A .env file in the working directory is loaded first when present.
func New() *viper.Viper {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tutorly")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tutorly"))
	}

	// Defaults
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "pretty")
	v.SetDefault("tutor_delay", "1s")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_window", "1m")
	v.SetDefault("seed", true)

	return v
}

// Load reads the config file if one exists and unmarshals v into a
// validated Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges and enum values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("gin_mode must be debug, release or test, got %q", c.GinMode)
	}
	switch c.LogFormat {
	case "json", "pretty":
	default:
		return fmt.Errorf("log_format must be json or pretty, got %q", c.LogFormat)
	}
	if c.TutorDelay < 0 {
		return fmt.Errorf("tutor_delay must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		return fmt.Errorf("rate_window must be > 0 when rate_limit is set")
	}
	return nil
}

// parseOrigins trims entries and splits any that still contain commas.
// Returns nil (allow-all) when nothing is left.
func parseOrigins(raw []string) []string {
	var origins []string
	for _, entry := range raw {
		for _, p := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}
	return origins
}
