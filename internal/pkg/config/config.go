// internal/pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig is wrapped by validation failures for unset values
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Config holds all application configuration
type Config struct {
	// Application
	App AppConfig

	// Backend REST API
	API APIConfig

	// Session persistence
	Session SessionConfig

	// Redis
	Redis RedisConfig

	// Asynq
	Asynq AsynqConfig

	// AWS
	AWS AWSConfig

	// Export / import files
	Files FilesConfig

	// Metrics endpoint
	Metrics MetricsConfig

	// Service account used by the worker and seeder
	Worker WorkerConfig

	// In-memory backend for development
	FakeAPI FakeAPIConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name         string
	Environment  string // development, staging, production
	Version      string
	LogLevel     string
	LogFormat    string // json, text
	Debug        bool
	SettingsFile string
}

// APIConfig describes how the backend is reached
type APIConfig struct {
	BaseURL         string `required:"true"`
	Timeout         time.Duration
	RateLimit       float64 // requests per second, 0 disables throttling
	RateBurst       int
	RequestIDHeader string
	UserAgent       string
}

// SessionConfig selects where the signed-in session is kept
type SessionConfig struct {
	Store string // file, redis
	File  string
	TTL   time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	Enabled         bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	SecretName      string // Secrets Manager entry holding worker credentials
}

// FilesConfig holds export and import configuration
type FilesConfig struct {
	ExportDriver   string // local, s3
	ExportDir      string
	PresignTTL     time.Duration
	PDFMaxSizeMB   int
	ExcelMaxSizeMB int
}

// MetricsConfig holds the prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// WorkerConfig holds the backend account used by non-interactive binaries
type WorkerConfig struct {
	Email    string
	Password string
}

// FakeAPIConfig configures the development backend
type FakeAPIConfig struct {
	Addr            string
	SeedItems       int // 0 starts empty
	SessionTTL      time.Duration
	RateLimit       float64 // requests per second per client, 0 disables
	RateBurst       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	GracefulTimeout time.Duration
	UserName        string
	UserEmail       string
	UserPassword    string
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Debug(".env file loaded successfully")
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetTypeByDefaultValue(true)

	setDefaults()

	home, _ := os.UserConfigDir()
	if home == "" {
		home = os.TempDir()
	}
	stateDir := getEnv("STOCKROOM_HOME", home+"/stockroom")

	redisAddr := fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379"))

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", viper.GetString("app.name")),
			Environment:  env,
			Version:      getEnv("APP_VERSION", "dev"),
			LogLevel:     getEnv("LOG_LEVEL", viper.GetString("log.level")),
			LogFormat:    getEnv("LOG_FORMAT", viper.GetString("log.format")),
			Debug:        getBoolEnv("APP_DEBUG", false),
			SettingsFile: getEnv("SETTINGS_FILE", stateDir+"/settings.yaml"),
		},
		API: APIConfig{
			BaseURL:         getEnv("API_BASE_URL", "http://localhost:8080/api"),
			Timeout:         getDurationEnv("API_TIMEOUT", 15*time.Second),
			RateLimit:       getFloatEnv("API_RATE_LIMIT", 20),
			RateBurst:       getIntEnv("API_RATE_BURST", 40),
			RequestIDHeader: getEnv("REQUEST_ID_HEADER", "X-Request-ID"),
			UserAgent:       getEnv("API_USER_AGENT", "stockroom-console"),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "file"),
			File:  getEnv("SESSION_FILE", stateDir+"/session.json"),
			TTL:   getDurationEnv("SESSION_TTL", 7*24*time.Hour),
		},
		Redis: RedisConfig{
			Enabled:      getBoolEnv("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			MaxRetries:   getIntEnv("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 1),
			TTL:          getDurationEnv("CACHE_TTL", time.Minute),
		},
		Asynq: AsynqConfig{
			Enabled:         getBoolEnv("ASYNQ_ENABLED", false),
			RedisAddr:       getEnv("ASYNQ_REDIS_ADDR", redisAddr),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         getIntEnv("ASYNQ_REDIS_DB", 0),
			Concurrency:     getIntEnv("ASYNQ_CONCURRENCY", 4),
			Queues:          parseQueues(getEnv("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:  getBoolEnv("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:        getIntEnv("ASYNQ_RETRY_MAX", 5),
			ShutdownTimeout: getDurationEnv("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "stockroom-exports"),
			S3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    getBoolEnv("AWS_S3_PATH_STYLE", env == "development"),
			SecretName:      getEnv("AWS_SECRET_NAME", ""),
		},
		Files: FilesConfig{
			ExportDriver:   getEnv("EXPORT_DRIVER", "local"),
			ExportDir:      getEnv("EXPORT_DIR", "exports"),
			PresignTTL:     getDurationEnv("EXPORT_PRESIGN_TTL", time.Hour),
			PDFMaxSizeMB:   getIntEnv("PDF_MAX_SIZE_MB", 20),
			ExcelMaxSizeMB: getIntEnv("EXCEL_MAX_SIZE_MB", 50),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("ENABLE_METRICS", true),
			Addr:    getEnv("METRICS_ADDR", ":9090"),
		},
		Worker: WorkerConfig{
			Email:    getEnv("WORKER_EMAIL", ""),
			Password: getEnv("WORKER_PASSWORD", ""),
		},
		FakeAPI: FakeAPIConfig{
			Addr:            getEnv("FAKEAPI_ADDR", ":8080"),
			SeedItems:       getIntEnv("FAKEAPI_SEED_ITEMS", 40),
			SessionTTL:      getDurationEnv("FAKEAPI_SESSION_TTL", 24*time.Hour),
			RateLimit:       getFloatEnv("FAKEAPI_RATE_LIMIT", 0),
			RateBurst:       getIntEnv("FAKEAPI_RATE_BURST", 20),
			ReadTimeout:     getDurationEnv("FAKEAPI_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("FAKEAPI_WRITE_TIMEOUT", 15*time.Second),
			GracefulTimeout: getDurationEnv("FAKEAPI_GRACEFUL_TIMEOUT", 10*time.Second),
			UserName:        getEnv("FAKEAPI_USER_NAME", "Admin"),
			UserEmail:       getEnv("FAKEAPI_USER_EMAIL", "admin@stockroom.local"),
			UserPassword:    getEnv("FAKEAPI_USER_PASSWORD", "admin123"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}
	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// GetRedisAddress returns the host:port of the redis server
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

func setDefaults() {
	viper.SetDefault("app.name", "stockroom")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "text")
}

func validBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL must include a host, got %q", raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
