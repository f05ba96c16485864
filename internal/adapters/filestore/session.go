// Package filestore keeps the console session in a single JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// SessionStore persists the session at path with owner-only permissions
type SessionStore struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a store; ttl <= 0 keeps sessions until logout
func NewSessionStore(path string, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		path:   path,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With(slog.String("component", "file_session_store")),
	}
}

// Path returns the session file location
func (s *SessionStore) Path() string {
	return s.path
}

// Load returns ports.ErrNoSession when the file is missing, unreadable or expired
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable session file",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil, ports.ErrNoSession
	}

	now := s.now()
	if session.Expired(now) || (s.ttl > 0 && now.Sub(session.CreatedAt) > s.ttl) {
		s.logger.InfoContext(ctx, "stored session expired", slog.String("path", s.path))
		return nil, ports.ErrNoSession
	}

	return &session, nil
}

// Save writes the session atomically
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	s.logger.DebugContext(ctx, "session saved", slog.String("path", s.path))
	return nil
}

// Clear deletes the session file; a missing file is not an error
func (s *SessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
