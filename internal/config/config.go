// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/tinoosan/sitehost/internal/errs"
)

// DefaultStaticDirName is the directory looked up next to the executable
// when STATIC_DIR is unset.
const DefaultStaticDirName = "static"

// Config holds all settings for the site process.
type Config struct {
	// StaticDir is the root of the served site.
	StaticDir string `env:"STATIC_DIR"`

	Addr      string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if strings.TrimSpace(cfg.StaticDir) == "" {
		dir, err := DefaultStaticDir()
		if err != nil {
			return nil, err
		}
		cfg.StaticDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultStaticDir resolves the static directory deployed alongside the executable.
func DefaultStaticDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultStaticDirName), nil
}

// Validate checks values the environment parser cannot.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error", "err":
	default:
		return fmt.Errorf("%w: LOG_LEVEL %q", errs.ErrInvalid, c.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT %q (want json or text)", errs.ErrInvalid, c.LogFormat)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: HTTP_ADDR is empty", errs.ErrInvalid)
	}
	timeouts := map[string]time.Duration{
		"HTTP_READ_TIMEOUT":        c.ReadTimeout,
		"HTTP_READ_HEADER_TIMEOUT": c.ReadHeaderTimeout,
		"HTTP_WRITE_TIMEOUT":       c.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":        c.IdleTimeout,
		"SHUTDOWN_TIMEOUT":         c.ShutdownTimeout,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", errs.ErrInvalid, name, d)
		}
	}
	return nil
}
