package config

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("API_BASE_URL", "http://backend.test/api")
	t.Setenv("API_RATE_LIMIT", "5")

	cfg, err := Load(discard)
	require.NoError(t, err)

	assert.Equal(t, "http://backend.test/api", cfg.API.BaseURL)
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, "file", cfg.Session.Store)
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Environment: "test"},
			API:     APIConfig{BaseURL: "http://localhost:8080/api", Timeout: 1},
			Session: SessionConfig{Store: "file", File: "/tmp/s.json"},
			Files:   FilesConfig{ExportDriver: "local"},
		}
	}

	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorContains string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, errorContains: "API.BaseURL"},
		{name: "bad scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://x" }, errorContains: "http or https"},
		{name: "redis store without redis", mutate: func(c *Config) { c.Session.Store = "redis" }, errorContains: "REDIS_ENABLED"},
		{name: "unknown driver", mutate: func(c *Config) { c.Files.ExportDriver = "ftp" }, errorContains: "export driver"},
		{name: "burst required", mutate: func(c *Config) { c.API.RateLimit = 3 }, errorContains: "rate burst"},
		{
			name: "production requires https",
			mutate: func(c *Config) {
				c.App.Environment = "production"
			},
			errorContains: "https",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

var discard = slog.New(slog.DiscardHandler)

type stubSecrets struct {
	calls int
	value string
	err   error
}

func (s *stubSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput,
	_ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s.value)}, nil
}

func TestAWSSecretsManager_CachesValues(t *testing.T) {
	stub := &stubSecrets{value: `{"WORKER_EMAIL":"worker@stockroom.test","WORKER_PASSWORD":"pw"}`}
	sm := newAWSSecretsManager(stub, "stockroom/worker", discard)
	ctx := context.Background()

	first, err := sm.GetSecrets(ctx, []string{SecretWorkerEmail})
	require.NoError(t, err)
	second, err := sm.GetSecrets(ctx, []string{SecretWorkerEmail, SecretWorkerPassword})
	require.NoError(t, err)

	assert.Equal(t, "worker@stockroom.test", first[SecretWorkerEmail])
	assert.Equal(t, "pw", second[SecretWorkerPassword])
	assert.Equal(t, 1, stub.calls)
}

func TestResolveWorkerCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("fills from provider", func(t *testing.T) {
		cfg := &Config{}
		stub := &stubSecrets{value: `{"WORKER_EMAIL":"w@s.test","WORKER_PASSWORD":"pw"}`}
		require.NoError(t, ResolveWorkerCredentials(ctx, cfg, newAWSSecretsManager(stub, "x", discard)))
		assert.Equal(t, "w@s.test", cfg.Worker.Email)
	})

	t.Run("environment values win", func(t *testing.T) {
		cfg := &Config{Worker: WorkerConfig{Email: "a@b.test", Password: "x"}}
		require.NoError(t, ResolveWorkerCredentials(ctx, cfg, &failingProvider{}))
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv(SecretWorkerEmail, "")
		t.Setenv(SecretWorkerPassword, "")
		cfg := &Config{}
		err := ResolveWorkerCredentials(ctx, cfg, EnvSecretsManager{})
		assert.ErrorIs(t, err, ErrMissingRequiredConfig)
	})

	t.Run("provider failure", func(t *testing.T) {
		err := ResolveWorkerCredentials(ctx, &Config{}, &failingProvider{})
		assert.ErrorContains(t, err, "vault sealed")
	})
}

type failingProvider struct{}

func (failingProvider) GetSecrets(context.Context, []string) (map[string]string, error) {
	return nil, errors.New("vault sealed")
}
