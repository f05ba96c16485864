// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/adapters/queue"
	redis_a "github.com/ammerola/stockroom/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/pkg/config"
	"github.com/ammerola/stockroom/internal/pkg/logger"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
	"github.com/ammerola/stockroom/internal/workers"
)

func main() {
	// Setup logger
	slogger := logger.SetupLogger("info", "json", "stockroom-worker")

	// Load configuration
	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat, "stockroom-worker")
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.String("api", cfg.API.BaseURL))

	ctx := context.Background()

	secrets, err := config.NewSecretsProvider(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize secrets provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := config.ResolveWorkerCredentials(ctx, cfg, secrets); err != nil {
		slogger.Error("failed to resolve worker credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m := metrics.New()
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		RateLimit:       cfg.API.RateLimit,
		RateBurst:       cfg.API.RateBurst,
		RequestIDHeader: cfg.API.RequestIDHeader,
		UserAgent:       "stockroom-worker",
	}, m, slogger.Logger)
	if err != nil {
		slogger.Error("failed to create API client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	session := &backendSession{
		auth:   api.NewAuthClient(client),
		creds:  domain.Credentials{Email: cfg.Worker.Email, Password: cfg.Worker.Password},
		logger: slogger.Logger,
	}
	if err := session.login(ctx); err != nil {
		slogger.Error("failed to sign in to backend", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The reconcile lock and dashboard invalidation share the console's redis
	var cache ports.CacheRepository
	if cfg.Redis.Enabled {
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
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slogger.Warn("redis unavailable, reconciling without locks", slog.String("error", err.Error()))
		} else {
			cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger.Logger)
		}
	}

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		},
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger.Logger),
		},
	)

	// Create task handlers
	mux := asynq.NewServeMux()
	mux.Use(taskContext, session.reauthenticate)

	reconciler := workers.NewReconcileProcessor(
		api.NewInventoryAPI(client),
		api.NewTransactionAPI(client),
		cache, m, slogger.Logger)
	mux.HandleFunc(queue.TypeStockPartialFailure, reconciler.ProcessPartialFailure)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("GET /metrics", m.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slogger.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
	}

	// Handle shutdown gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	// Wait for shutdown signal
	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Gracefully shutdown
	srv.Shutdown()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	slogger.Info("worker shutdown complete")
}

// backendSession keeps the worker's cookie session alive
type backendSession struct {
	mu     sync.Mutex
	auth   *api.AuthClient
	creds  domain.Credentials
	logger *slog.Logger
}

func (s *backendSession) login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.auth.Login(ctx, s.creds)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "signed in to backend",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role))
	return nil
}

// reauthenticate signs in again when a task fails on an expired session.
// The task is still reported as failed so asynq retries it.
func (s *backendSession) reauthenticate(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		err := next.ProcessTask(ctx, t)
		if err != nil && errors.Is(err, ports.ErrUnauthorized) {
			if loginErr := s.login(ctx); loginErr != nil {
				s.logger.ErrorContext(ctx, "failed to renew backend session",
					slog.String("error", loginErr.Error()))
			}
		}
		return err
	})
}

// taskContext tags log records with the asynq task id
func taskContext(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		if id, ok := asynq.GetTaskID(ctx); ok {
			ctx = logger.WithTaskID(ctx, id)
		}
		return next.ProcessTask(ctx, t)
	})
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.Int("retried", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	// A held reconcile lock clears within seconds
	if errors.Is(e, workers.ErrLocked) {
		return 5 * time.Second
	}
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
