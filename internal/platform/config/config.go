// Package config binds server settings to command-line flags and
// environment variables. Values from .env files are loaded into the
// environment first, so precedence is flag > environment > .env > default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
)

const (
	flagPort            = "port"
	flagLogLevel        = "log-level"
	flagDocs            = "docs"
	flagRateLimit       = "rate-limit"
	flagShutdownTimeout = "shutdown-timeout"
)

// Config holds the server settings.
type Config struct {
	Port            string
	LogLevel        string
	DocsEnabled     bool
	RateLimit       int
	ShutdownTimeout time.Duration
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Flags returns the CLI flags backing Config.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagPort,
			Usage:   "TCP port to listen on",
			Value:   "8080",
			EnvVars: []string{"PORT"},
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "minimum log level (debug, info, warn, error)",
			Value:   "info",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    flagDocs,
			Usage:   "serve the OpenAPI document and docs UI",
			EnvVars: []string{"API_DOCS"},
		},
		&cli.IntFlag{
			Name:    flagRateLimit,
			Usage:   "requests per minute per client IP, 0 disables limiting",
			EnvVars: []string{"RATE_LIMIT_RPM"},
		},
		&cli.DurationFlag{
			Name:    flagShutdownTimeout,
			Usage:   "grace period for in-flight requests on shutdown",
			Value:   10 * time.Second,
			EnvVars: []string{"SHUTDOWN_TIMEOUT"},
		},
	}
}

// FromContext builds and validates a Config from parsed CLI flags.
func FromContext(c *cli.Context) (Config, error) {
	cfg := Config{
		Port:            c.String(flagPort),
		LogLevel:        c.String(flagLogLevel),
		DocsEnabled:     c.Bool(flagDocs),
		RateLimit:       c.Int(flagRateLimit),
		ShutdownTimeout: c.Duration(flagShutdownTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// LoadDotenv loads variables from the given .env files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotenv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}
