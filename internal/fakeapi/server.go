// Package fakeapi is an in-memory implementation of the backend REST contract
// for local development and end-to-end tests.
package fakeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
)

// Options configure a Server
type Options struct {
	// Prefix mounts the REST routes, e.g. "/api"
	Prefix     string
	SessionTTL time.Duration
	RateLimit  float64
	RateBurst  int
	// Threshold derives item status when a draft carries none
	Threshold int
	Now       func() time.Time
}

// Server holds the backend state
type Server struct {
	opts         Options
	inventory    *table[domain.InventoryItem]
	suppliers    *table[domain.Supplier]
	transactions *table[domain.Transaction]
	auth         *authStore
	metrics      *metrics.Metrics
	logger       *slog.Logger

	faultsMu sync.Mutex
	faults   []fault
}

type fault struct {
	method string
	prefix string
	status int
}

type errorResponse struct {
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// New creates an empty backend. m may be nil.
func New(opts Options, m *metrics.Metrics, logger *slog.Logger) *Server {
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Threshold <= 0 {
		opts.Threshold = domain.DefaultLowStockThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		opts:         opts,
		inventory:    newTable[domain.InventoryItem](),
		suppliers:    newTable[domain.Supplier](),
		transactions: newTable[domain.Transaction](),
		auth:         newAuthStore(opts.SessionTTL, opts.Now),
		metrics:      m,
		logger:       logger.With(slog.String("component", "fakeapi")),
	}
}

// Handler returns the chi router serving the REST contract
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recovery(s.logger))
	r.Use(s.metrics.Middleware)
	r.Use(RateLimit(s.opts.RateLimit, s.opts.RateBurst))
	r.Use(ContentTypeJSON)

	r.Get("/health", s.health)
	r.Route(s.opts.Prefix, func(r chi.Router) {
		r.Use(s.injectFaults)
		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/register", s.register)
			r.Post("/logout", s.logout)
			r.With(s.requireAuth).Get("/me", s.me)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			mountResource(r, "/inventory", s.inventoryResource())
			mountResource(r, "/suppliers", s.supplierResource())
			mountResource(r, "/transactions", s.transactionResource())
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
	})
	return r
}

// FailNext makes the next request whose method and path prefix match answer
// with status. The prefix is relative to the mount point, e.g. "/transactions".
func (s *Server) FailNext(method, prefix string, status int) {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	s.faults = append(s.faults, fault{method: method, prefix: prefix, status: status})
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, s.opts.Prefix)

		s.faultsMu.Lock()
		status := 0
		for i, f := range s.faults {
			if f.method == r.Method && strings.HasPrefix(path, f.prefix) {
				status = f.status
				s.faults = append(s.faults[:i], s.faults[i+1:]...)
				break
			}
		}
		s.faultsMu.Unlock()

		if status != 0 {
			writeJSON(w, status, errorResponse{Message: "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.opts.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeValidation(w http.ResponseWriter, err error) {
	resp := errorResponse{Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "validation failed"
		resp.Errors = verr.Fields
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}
