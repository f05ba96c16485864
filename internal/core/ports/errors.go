package ports

import "errors"

// Backend conditions the core reacts to regardless of transport
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("not found")
)
