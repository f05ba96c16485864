package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ammerola/stockroom/internal/pkg/logger"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
)

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a round tripper
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain applies middlewares so the first one sees the request first
func Chain(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// RequestIDTransport sets the request id header, reusing the id stored in the
// request context so backend and client logs correlate
func RequestIDTransport(header string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			id := logger.RequestID(ctx)
			if id == "" {
				id = uuid.NewString()
				ctx = logger.WithRequestID(ctx, id)
			}
			out := req.Clone(ctx)
			out.Header.Set(header, id)
			return next.RoundTrip(out)
		})
	}
}

// LoggingTransport logs every backend exchange
func LoggingTransport(log *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			start := time.Now()

			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			if err != nil {
				log.WarnContext(ctx, "backend request failed",
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
					slog.Duration("duration_ms", duration),
					slog.String("error", err.Error()))
				return nil, err
			}

			level := slog.LevelDebug
			if resp.StatusCode >= 500 {
				level = slog.LevelWarn
			}
			log.Log(ctx, level, "backend request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration_ms", duration))
			return resp, nil
		})
	}
}

// RateLimitTransport throttles outgoing requests; a non-positive limit disables it
func RateLimitTransport(perSecond float64, burst int) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if perSecond <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(req)
		})
	}
}

// MetricsTransport records request counts and latency by resource
func MetricsTransport(m *metrics.Metrics, basePath string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if m == nil {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			code := 0
			if err == nil {
				code = resp.StatusCode
			}
			m.ObserveClientRequest(resourceLabel(req.URL.Path, basePath), req.Method, code, time.Since(start))
			return resp, err
		})
	}
}

// resourceLabel is the first path segment below the base path, e.g. "inventory"
func resourceLabel(path, basePath string) string {
	rest := strings.TrimPrefix(path, strings.TrimRight(basePath, "/"))
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return "root"
	}
	segment, _, _ := strings.Cut(rest, "/")
	return segment
}
