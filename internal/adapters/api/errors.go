package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ammerola/stockroom/internal/core/ports"
)

var (
	// ErrUnauthorized is matched by errors.Is when the backend answers 401
	ErrUnauthorized = ports.ErrUnauthorized
	// ErrNotFound is matched by errors.Is when the backend answers 404
	ErrNotFound = ports.ErrNotFound
)

// RequestError is a non-2xx backend response
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized.Error()
	}
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed (%d %s)", e.Status, http.StatusText(e.Status))
}

// Unwrap exposes the sentinel for statuses that have one
func (e *RequestError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// NetworkError is a request that never produced a response
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network unreachable: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is a response body that is not the expected JSON
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// errorBody covers the error shapes backends commonly return
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// messageFrom extracts a human readable message from an error response body
func messageFrom(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(eb.Message); msg != "" {
		return msg
	}
	if len(eb.Error) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(eb.Error, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(eb.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}
