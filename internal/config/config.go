// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Deployment environments accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Default listening ports. Production follows the container platform
// convention; development stays off it so both can run side by side.
const (
	DefaultDevPort  = "8000"
	DefaultProdPort = "8080"
)

// ErrInvalidEnv is returned when a variable holds a value outside its allowed set.
var ErrInvalidEnv = errors.New("invalid environment variable")

// Config holds all configuration values for the name service.
// Values are populated by Load from environment variables and an optional
// .env file in the working directory.
type Config struct {
	// Env is the deployment environment: development or production.
	Env string `env:"APP_ENV" envDefault:"development"`

	// Port is the TCP port the HTTP server listens on.
	// Defaults to DefaultDevPort in development and DefaultProdPort in production.
	Port string `env:"PORT"`

	// Workers is the number of name workers. 0 derives it from the CPU count,
	// see WorkerCount.
	Workers int `env:"WORKERS" envDefault:"0"`

	// LogLevel controls the minimum log level. Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// MaxBodyBytes caps request bodies. The API takes none, so this only
	// bounds what a misbehaving client can make the server read.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// NamePoolDatabaseURL, when set, loads the name pool from Postgres once at
	// start-up instead of using the embedded list.
	NamePoolDatabaseURL string `env:"NAME_POOL_DATABASE_URL"`

	// NamePoolMigrate runs the goose migrations (schema plus seed) before the
	// start-up read. Leave it off when the service connects with a read-only
	// role; the schema must then already exist.
	NamePoolMigrate bool `env:"NAME_POOL_MIGRATE" envDefault:"false"`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads configuration from the environment and returns a Config.
// A .env file is read first if present; variables already set in the
// environment take precedence over it.
func Load() (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	var problems []string
	switch cfg.Env {
	case EnvDevelopment, EnvProduction:
	default:
		problems = append(problems, fmt.Sprintf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env))
	}
	if cfg.Workers < 0 {
		problems = append(problems, fmt.Sprintf("WORKERS must be >= 0, got %d", cfg.Workers))
	}
	if cfg.MaxBodyBytes <= 0 {
		problems = append(problems, fmt.Sprintf("MAX_BODY_BYTES must be > 0, got %d", cfg.MaxBodyBytes))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("config.Load: %w: %s", ErrInvalidEnv, strings.Join(problems, "; "))
	}

	if cfg.Port == "" {
		cfg.Port = DefaultDevPort
		if cfg.Env == EnvProduction {
			cfg.Port = DefaultProdPort
		}
	}

	return cfg, nil
}

// WorkerCount returns the configured worker count, or (cpu_count * 2) + 1
// when Workers is 0.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return DefaultWorkers(runtime.NumCPU())
}

// DefaultWorkers applies the (cpu_count * 2) + 1 sizing rule.
func DefaultWorkers(cpus int) int {
	return cpus*2 + 1
}

// SlogLevel parses LogLevel, falling back to info for unknown values.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
