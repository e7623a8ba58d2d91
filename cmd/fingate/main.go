// Command fingate runs the financial fixture gateway: a demo server that
// authenticates callers via an opaque session cookie and serves per-subject
// fixture data as one-shot JSON responses or polling event streams.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/finvel/fingate/fixtures/fsdir"
	"github.com/finvel/fingate/internal/metrics"
	"github.com/finvel/fingate/sessions/memory"
	"github.com/finvel/fingate/streaminghttp"
)

// Config is populated from the environment.
type Config struct {
	// Addr is the listen address. ENV: FINGATE_ADDR
	Addr string `env:"FINGATE_ADDR,default=:8080"`
	// DataDir holds one fixture directory per subject. ENV: FINGATE_DATA_DIR
	DataDir string `env:"FINGATE_DATA_DIR,default=test_data_dir"`
	// LogLevel is a slog level name. ENV: FINGATE_LOG_LEVEL
	LogLevel string `env:"FINGATE_LOG_LEVEL,default=info"`
	// Watch enables fixture change logging. ENV: FINGATE_WATCH
	Watch bool `env:"FINGATE_WATCH,default=false"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("fingate.fatal", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := fsdir.New(cfg.DataDir, fsdir.WithLogger(log))
	if cfg.Watch {
		go func() {
			if err := provider.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("fixture.watch.fail", slog.String("err", err.Error()))
			}
		}()
	}

	handler, err := streaminghttp.New(memory.NewStore(), provider,
		streaminghttp.WithServerName("fingate"),
		streaminghttp.WithLogger(log),
		streaminghttp.WithMetrics(metrics.New()),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("http.listen", slog.String("addr", cfg.Addr), slog.String("data_dir", cfg.DataDir))

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	// Open event streams never drain on their own; give in-flight one-shot
	// requests a grace period, then force-close the remaining connections.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http.shutdown.force", slog.String("err", err.Error()))
		_ = srv.Close()
	}
	log.Info("http.shutdown.ok")
	return nil
}
