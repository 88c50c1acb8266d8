package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tinoosan/sitehost/internal/config"
	"github.com/tinoosan/sitehost/internal/httpapi"
	"github.com/tinoosan/sitehost/internal/storage/disk"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration", "err", err)
		return err
	}

	// Logger (slog to stderr). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	store, err := disk.Open(cfg.StaticDir)
	if err != nil {
		logger.Error("static directory unavailable", "dir", cfg.StaticDir, "err", err)
		return err
	}
	defer store.Close()
	logger.Info("serving static site", "dir", store.Dir())

	metrics := httpapi.NewMetrics(httpapi.NewRegistry(), httpapi.ExcludedPaths...)
	srv := httpapi.New(store, metrics, logger)

	timeouts := httpapi.Timeouts{
		Read:       cfg.ReadTimeout,
		ReadHeader: cfg.ReadHeaderTimeout,
		Write:      cfg.WriteTimeout,
		Idle:       cfg.IdleTimeout,
		Shutdown:   cfg.ShutdownTimeout,
	}
	if err := httpapi.ListenAndServe(ctx, cfg.Addr, srv.Handler(), timeouts, logger); err != nil {
		logger.Error("server error", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if strings.ToLower(strings.TrimSpace(format)) == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(w, opts))
}
