package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/sitehost/internal/errs"
)

func loadFrom(t *testing.T, vars map[string]string) (*Config, error) {
	t.Helper()
	return load(env.Options{Environment: vars})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	want, err := DefaultStaticDir()
	require.NoError(t, err)
	assert.Equal(t, want, cfg.StaticDir)
	assert.Equal(t, DefaultStaticDirName, filepath.Base(cfg.StaticDir))
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadFrom(t, map[string]string{
		"STATIC_DIR":        dir,
		"HTTP_ADDR":         "127.0.0.1:9000",
		"LOG_LEVEL":         "DEBUG",
		"LOG_FORMAT":        "text",
		"HTTP_READ_TIMEOUT": "2s",
		"SHUTDOWN_TIMEOUT":  "1m",
	})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.StaticDir)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"log level":   {"LOG_LEVEL": "verbose"},
		"log format":  {"LOG_FORMAT": "xml"},
		"zero write":  {"HTTP_WRITE_TIMEOUT": "0s"},
		"neg timeout": {"SHUTDOWN_TIMEOUT": "-1s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadFrom(t, vars)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInvalid)
		})
	}
}

func TestLoad_UnparsableDuration(t *testing.T) {
	_, err := loadFrom(t, map[string]string{"HTTP_IDLE_TIMEOUT": "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
