package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // user_id travels in request bodies (default)
	AuthModeLocal AuthMode = "local" // login issues a session cookie, API requires it
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Tasks
		Completion
		Events
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver          string // "sqlite" or "postgres"
		Path            string // SQLite file path
		DSN             string // Postgres connection string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		Debug           bool // Log every SQL statement
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string // Defaults to "<database>-tasks.db" next to the main database
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Completion struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Events struct {
		NatsURL string // Empty disables event publishing
		Subject string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Database defaults
	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_debug", false)

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Completion sweep defaults
	v.SetDefault("completion_sweep_enabled", true)
	v.SetDefault("completion_sweep_schedule", "0 * * * *") // Hourly at :00

	// Event publishing defaults
	v.SetDefault("nats_url", "")
	v.SetDefault("nats_subject", DefaultEventsSubject)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:          normalize(v.GetString("DATABASE_DRIVER")),
			Path:            v.GetString("DATABASE_PATH"),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			Debug:           v.GetBool("DATABASE_DEBUG"),
		},
		Auth: Auth{
			Mode:            AuthMode(normalize(v.GetString("AUTH_MODE"))),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Completion: Completion{
			Enabled:  v.GetBool("COMPLETION_SWEEP_ENABLED"),
			Schedule: v.GetString("COMPLETION_SWEEP_SCHEDULE"),
		},
		Events: Events{
			NatsURL: v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate rejects settings the application cannot run with safely.
// An unrecognised auth mode must never fall back to running without auth.
func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeNone, AuthModeLocal:
	default:
		return fmt.Errorf("%w: AUTH_MODE must be %q or %q, got %q", ErrInvalidConfig, AuthModeNone, AuthModeLocal, c.Auth.Mode)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: DATABASE_PATH is required for sqlite", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: DATABASE_DRIVER must be %q or %q, got %q", ErrInvalidConfig, DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	return nil
}
