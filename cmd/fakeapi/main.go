// cmd/fakeapi/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ammerola/stockroom/internal/fakeapi"
	"github.com/ammerola/stockroom/internal/pkg/config"
	"github.com/ammerola/stockroom/internal/pkg/logger"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json", "stockroom-fakeapi")

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat, "stockroom-fakeapi")
	slogger.Info("starting development backend",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("environment", cfg.App.Environment))

	m := metrics.New()
	backend := fakeapi.New(fakeapi.Options{
		SessionTTL: cfg.FakeAPI.SessionTTL,
		RateLimit:  cfg.FakeAPI.RateLimit,
		RateBurst:  cfg.FakeAPI.RateBurst,
	}, m, slogger.Logger)

	if _, err := backend.AddUser(cfg.FakeAPI.UserName, cfg.FakeAPI.UserEmail, cfg.FakeAPI.UserPassword, "admin"); err != nil {
		slogger.Error("failed to create account", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Worker.Email != "" && cfg.Worker.Password != "" && cfg.Worker.Email != cfg.FakeAPI.UserEmail {
		if _, err := backend.AddUser("Worker", cfg.Worker.Email, cfg.Worker.Password, "service"); err != nil {
			slogger.Error("failed to create worker account", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if cfg.FakeAPI.SeedItems > 0 {
		if err := backend.Seed(cfg.FakeAPI.SeedItems); err != nil {
			slogger.Error("failed to seed backend", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/", backend.Handler())
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", m.Handler())
	}

	server := &http.Server{
		Addr:         cfg.FakeAPI.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.FakeAPI.ReadTimeout,
		WriteTimeout: cfg.FakeAPI.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", server.Addr),
			slog.String("account", cfg.FakeAPI.UserEmail))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.FakeAPI.GracefulTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}
		slogger.Info("server shutdown complete")
	}
}
