package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/blogem/usermgmt/database"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds runtime configuration for the application
type Config struct {
	Port   string `envconfig:"PORT" default:"8080"`
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"memory"`
	DatabaseDSN  string `envconfig:"DATABASE_DSN" default:"file:usermgmt?mode=memory&cache=shared"`

	UseHTTPS           bool          `envconfig:"USE_HTTPS" default:"false"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	SessionCookie   string        `envconfig:"SESSION_COOKIE" default:"usermgmt_session"`
	SessionLifetime time.Duration `envconfig:"SESSION_LIFETIME" default:"3600s"`

	OIDC OIDCConfig
}

// OIDCConfig holds the optional login provider settings
type OIDCConfig struct {
	Domain       string `envconfig:"DOMAIN"`
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	CallbackURL  string `envconfig:"CALLBACK_URL"`
}

// Enabled reports whether login is configured
func (c OIDCConfig) Enabled() bool {
	return c.Domain != ""
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check by itself
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, BackendMemory, BackendSQLite)
	}

	if c.StoreBackend == BackendSQLite && c.DatabaseDSN == "" {
		c.DatabaseDSN = database.DefaultDSN
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}

	if c.OIDC.Enabled() {
		missing := []string{}
		if c.OIDC.ClientID == "" {
			missing = append(missing, "OIDC_CLIENT_ID")
		}
		if c.OIDC.ClientSecret == "" {
			missing = append(missing, "OIDC_CLIENT_SECRET")
		}
		if c.OIDC.CallbackURL == "" {
			missing = append(missing, "OIDC_CALLBACK_URL")
		}
		if len(missing) > 0 {
			return fmt.Errorf("OIDC_DOMAIN is set but %s missing", strings.Join(missing, ", "))
		}
	}

	return nil
}

// IsProduction returns true when the application runs in production
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("unknown LOG_LEVEL %q: %w", level, err)
	}
	return l, nil
}
