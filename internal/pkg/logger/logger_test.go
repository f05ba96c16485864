package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom/internal/pkg/logger"
)

func newJSONLogger(buf *bytes.Buffer, level string) *logger.Logger {
	return logger.NewLogger(&logger.LogConfig{
		Level:       level,
		Format:      "json",
		Writer:      buf,
		ServiceName: "console",
	})
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_ContextValues(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, "info")

	ctx := logger.WithRequestID(context.Background(), "req-123")
	ctx = logger.WithCommand(ctx, "inventory list")
	log.InfoContext(ctx, "listed", slog.Int("count", 3))

	entry := decode(t, &buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "inventory list", entry["command"])
	assert.Equal(t, "console", entry["service"])
	assert.Equal(t, "INFO", entry["severity"])
	assert.Equal(t, float64(3), entry["count"])
	assert.Equal(t, "req-123", logger.RequestID(ctx))
}

func TestLogger_Sanitization(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *logger.Logger)
		key   string
		check func(t *testing.T, value any)
	}{
		{
			name: "sensitive key",
			log:  func(l *logger.Logger) { l.Info("login", slog.String("password", "hunter2")) },
			key:  "password",
			check: func(t *testing.T, value any) {
				assert.Equal(t, "***REDACTED***", value)
			},
		},
		{
			name: "cookie header in value",
			log:  func(l *logger.Logger) { l.Info("response", slog.String("headers", "Set-Cookie: sid=abc")) },
			key:  "headers",
			check: func(t *testing.T, value any) {
				assert.NotContains(t, value, "abc")
			},
		},
		{
			name: "token in message",
			log:  func(l *logger.Logger) { l.Info("token=abc123 refreshed") },
			key:  "msg",
			check: func(t *testing.T, value any) {
				assert.Equal(t, "token=***REDACTED*** refreshed", value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newJSONLogger(&buf, "debug"))
			tt.check(t, decode(t, &buf)[tt.key])
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, "warn")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(&logger.LogConfig{Level: "debug", Format: "text", Writer: &buf})

	log.With(slog.String("collection", "inventory")).Debug("fetched", slog.Int("count", 2))

	out := buf.String()
	assert.Contains(t, out, "fetched")
	assert.Contains(t, out, "collection")
	assert.Contains(t, out, "inventory")
	assert.Contains(t, out, "count")
}
