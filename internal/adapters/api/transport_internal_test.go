package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLabel(t *testing.T) {
	tests := []struct {
		path, base, want string
	}{
		{"/api/inventory", "/api", "inventory"},
		{"/api/inventory/42", "/api/", "inventory"},
		{"/suppliers/9", "", "suppliers"},
		{"/api", "/api", "root"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resourceLabel(tt.path, tt.base), tt.path)
	}
}

func TestMessageFrom(t *testing.T) {
	assert.Equal(t, "bad", messageFrom([]byte(`{"message":" bad "}`)))
	assert.Equal(t, "worse", messageFrom([]byte(`{"error":"worse"}`)))
	assert.Equal(t, "nested", messageFrom([]byte(`{"error":{"message":"nested"}}`)))
	assert.Empty(t, messageFrom([]byte(`<html>oops</html>`)))
	assert.Empty(t, messageFrom([]byte(`{"error":42}`)))
}

func TestRateLimitTransport_HonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rt := Chain(nil, RateLimitTransport(0.001, 1))
	client := &http.Client{Transport: rt}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.Error(t, err)
}
