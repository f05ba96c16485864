// cmd/console/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/adapters/filestore"
	"github.com/ammerola/stockroom/internal/adapters/queue"
	redis_a "github.com/ammerola/stockroom/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom/internal/adapters/storage"
	"github.com/ammerola/stockroom/internal/console"
	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/i18n"
	"github.com/ammerola/stockroom/internal/importer"
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
	os.Exit(run())
}

func run() int {
	boot := logger.SetupLogger("warn", "text", "stockroom-console")

	cfg, err := config.Load(boot.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return console.ExitError
	}

	slogger := logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat, "stockroom-console")
	defer slogger.Close()
	slogger.Debug("starting console",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("api", cfg.API.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return console.ExitError
	}
	defer deps.cleanup()

	c := console.New(console.Options{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		Client:     deps.client,
		Sessions:   deps.sessions,
		Settings:   services.NewSettingsService(cfg.App.SettingsFile, i18n.Languages(), slogger.Logger),
		Storage:    deps.storage,
		PresignTTL: cfg.Files.PresignTTL,
		ExportDir:  cfg.Files.ExportDir,
		Importer:   importer.New(cfg.Files.ExcelMaxSizeMB, cfg.Files.PDFMaxSizeMB, 0, slogger.Logger),
		Reporter:   deps.reporter,
		Cache:      deps.cache,
		CacheTTL:   cfg.Redis.TTL,
		Locale:     firstEnv("LC_ALL", "LC_MESSAGES", "LANG"),
		Logger:     slogger.Logger,
	})
	return c.Run(ctx, os.Args[1:])
}

// dependencies holds the adapters the console is wired to
type dependencies struct {
	client      *api.Client
	sessions    ports.SessionStore
	storage     ports.ObjectStorage
	reporter    ports.PartialFailureReporter
	cache       ports.CacheRepository
	redisClient *redis.Client
	asynqClient *asynq.Client
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Metrics are collected in-process; the console has no scrape endpoint
	m := metrics.New()

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		RateLimit:       cfg.API.RateLimit,
		RateBurst:       cfg.API.RateBurst,
		RequestIDHeader: cfg.API.RequestIDHeader,
		UserAgent:       cfg.API.UserAgent,
	}, m, logger)
	if err != nil {
		return nil, err
	}
	deps.client = client

	if cfg.Redis.Enabled || cfg.Session.Store == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = redisClient
		if cfg.Redis.Enabled {
			deps.cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
		}
	}

	switch cfg.Session.Store {
	case "redis":
		deps.sessions = redis_a.NewSessionStore(deps.redisClient, cfg.API.BaseURL, cfg.Session.TTL, logger)
	default:
		deps.sessions = filestore.NewSessionStore(cfg.Session.File, cfg.Session.TTL, logger)
	}

	if cfg.Files.ExportDriver == "s3" {
		store, err := storage.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		deps.storage = store
	}

	reporters := queue.Reporters{queue.NewLogReporter(logger, m)}
	if cfg.Asynq.Enabled {
		deps.asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		})
		reporters = append(reporters, queue.NewAsynqReporter(deps.asynqClient, cfg.Asynq.RetryMax, logger))
	}
	deps.reporter = reporters

	return deps, nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
