package api

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// HealthResult is the outcome of a backend health probe
type HealthResult struct {
	URL        string        `json:"url"`
	OK         bool          `json:"ok"`
	StatusCode int           `json:"statusCode,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
}

// CheckHealth probes GET /health with a short timeout
func CheckHealth(ctx context.Context, client *Client) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	result := HealthResult{URL: client.BaseURL().JoinPath("health").String()}
	start := time.Now()
	err := client.Do(ctx, http.MethodGet, "health", nil, nil)
	result.Latency = time.Since(start)

	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			result.StatusCode = reqErr.Status
		}
		result.Error = err.Error()
		return result
	}
	result.OK = true
	result.StatusCode = http.StatusOK
	return result
}
