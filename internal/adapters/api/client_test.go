package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/pkg/logger"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
	"github.com/ammerola/stockroom/test/helpers"
)

func newClient(t *testing.T, srv *httptest.Server, m *metrics.Metrics) *api.Client {
	t.Helper()
	client, err := api.NewClient(api.ClientConfig{
		BaseURL: srv.URL + "/api",
		Timeout: 2 * time.Second,
	}, m, helpers.TestLogger())
	require.NoError(t, err)
	return client
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, err error)
		wantMsg string
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"session expired"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, api.ErrUnauthorized)
			},
			wantMsg: "authentication required",
		},
		{
			name:   "not found carries sentinel and message",
			status: http.StatusNotFound,
			body:   `{"error":"item missing"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, api.ErrNotFound)
				var reqErr *api.RequestError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, "item missing", reqErr.Message)
			},
			wantMsg: "request failed (404): item missing",
		},
		{
			name:   "nested error object",
			status: http.StatusUnprocessableEntity,
			body:   `{"error":{"message":"sku already exists"}}`,
			check: func(t *testing.T, err error) {
				assert.False(t, errors.Is(err, api.ErrNotFound))
			},
			wantMsg: "request failed (422): sku already exists",
		},
		{
			name:   "no body falls back to status text",
			status: http.StatusInternalServerError,
			body:   ``,
			check: func(t *testing.T, err error) {
				var reqErr *api.RequestError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
			},
			wantMsg: "request failed (500 Internal Server Error)",
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `[{"id":`,
			check: func(t *testing.T, err error) {
				var decErr *api.DecodeError
				assert.ErrorAs(t, err, &decErr)
			},
		},
		{
			name:   "empty success body",
			status: http.StatusOK,
			body:   ``,
			check: func(t *testing.T, err error) {
				var decErr *api.DecodeError
				assert.ErrorAs(t, err, &decErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := api.NewInventoryAPI(newClient(t, srv, nil)).List(context.Background())

			require.Error(t, err)
			tt.check(t, err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := newClient(t, srv, nil)
	srv.Close()

	_, err := api.NewSupplierAPI(client).List(context.Background())

	var netErr *api.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, err.Error(), "network unreachable")
}

func TestResource_CRUD(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
		reqID  string
	}
	var (
		mu    sync.Mutex
		calls []seen
	)
	item := domain.InventoryItem{
		ID: "a/1", Name: "Bolt", SKU: "B-1", Category: "Fasteners", Supplier: "Acme",
		Unit: "pcs", Quantity: 3, Price: decimal.RequireFromString("1.25"), Status: domain.StatusLowStock,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.EscapedPath(), reqID: r.Header.Get("X-Request-ID")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&s.body)
		}
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/api/inventory" {
				_ = json.NewEncoder(w).Encode([]domain.InventoryItem{item})
				return
			}
			_ = json.NewEncoder(w).Encode(item)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_ = json.NewEncoder(w).Encode(item)
		}
	}))
	defer srv.Close()

	m := metrics.New()
	inv := api.NewInventoryAPI(newClient(t, srv, m))
	ctx := logger.WithRequestID(context.Background(), "req-fixed")

	items, err := inv.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("1.25")))

	got, err := inv.Get(ctx, "a/1")
	require.NoError(t, err)
	assert.Equal(t, "Bolt", got.Name)

	_, err = inv.Create(ctx, item.Draft())
	require.NoError(t, err)
	_, err = inv.Update(ctx, "a/1", item.Draft())
	require.NoError(t, err)
	require.NoError(t, inv.Delete(ctx, "a/1"))

	require.Len(t, calls, 5)
	assert.Equal(t, "/api/inventory", calls[0].path)
	assert.Equal(t, "/api/inventory/a%2F1", calls[1].path)
	assert.Equal(t, http.MethodPost, calls[2].method)
	assert.NotContains(t, calls[2].body, "id")
	assert.Equal(t, http.MethodPut, calls[3].method)
	assert.Equal(t, "a/1", calls[3].body["id"])
	assert.Equal(t, "Bolt", calls[3].body["name"])
	assert.Equal(t, http.MethodDelete, calls[4].method)
	for _, c := range calls {
		assert.Equal(t, "req-fixed", c.reqID)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `resource="inventory"`)
}

func TestResource_RejectsDotSegmentIDs(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	inv := api.NewInventoryAPI(newClient(t, srv, nil))
	ctx := context.Background()
	draft := domain.InventoryDraft{Name: "Bolt"}

	for _, id := range []string{"", ".", ".."} {
		t.Run("id "+id, func(t *testing.T) {
			var verr *domain.ValidationError

			_, err := inv.Get(ctx, id)
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{"id"}, verr.FieldNames())

			_, err = inv.Update(ctx, id, draft)
			assert.ErrorAs(t, err, &verr)

			assert.ErrorAs(t, inv.Delete(ctx, id), &verr)
		})
	}
	assert.Zero(t, hits.Load())

	t.Run("ids containing dots are still sent", func(t *testing.T) {
		_, err := inv.Get(ctx, "v1..2")
		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestClient_GeneratesRequestID(t *testing.T) {
	ids := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()
	txs := api.NewTransactionAPI(newClient(t, srv, nil))

	list, err := txs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = txs.List(context.Background())
	require.NoError(t, err)

	first, second := <-ids, <-ids
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestAuthClient_SessionCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s3cret", Path: "/"})
			_ = json.NewEncoder(w).Encode(map[string]any{"user": domain.User{ID: "u1", Name: "Ops", Email: "ops@x.test"}})
		case "/api/auth/me":
			if c, err := r.Cookie("sid"); err != nil || c.Value != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"user": domain.User{ID: "u1"}})
		case "/api/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	auth := api.NewAuthClient(newClient(t, srv, nil))
	user, err := auth.Login(ctx, domain.Credentials{Email: "ops@x.test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Ops", user.Name)

	cookies := auth.Cookies()
	require.Len(t, cookies, 1)

	t.Run("restored cookies authenticate a fresh client", func(t *testing.T) {
		fresh := api.NewAuthClient(newClient(t, srv, nil))
		_, err := fresh.Me(ctx)
		require.ErrorIs(t, err, api.ErrUnauthorized)

		fresh.RestoreCookies(cookies)
		me, err := fresh.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", me.ID)
	})

	t.Run("logout clears the jar", func(t *testing.T) {
		require.NoError(t, auth.Logout(ctx))
		assert.Empty(t, auth.Cookies())
		_, err := auth.Me(ctx)
		assert.ErrorIs(t, err, api.ErrUnauthorized)
	})
}

func TestCheckHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	client := newClient(t, srv, nil)

	result := api.CheckHealth(context.Background(), client)
	assert.True(t, result.OK)
	assert.Equal(t, srv.URL+"/api/health", result.URL)

	healthy.Store(false)
	result = api.CheckHealth(context.Background(), client)
	assert.False(t, result.OK)
	assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	_, err := api.NewClient(api.ClientConfig{BaseURL: "localhost:8080"}, nil, helpers.TestLogger())
	assert.Error(t, err)
}
