package redis_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// SessionStore keeps the signed-in session in Redis so several consoles
// on one workstation share it
type SessionStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore stores the session under session:<profile>
func NewSessionStore(client *redis.Client, profile string, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		key:    BuildKey(PrefixSession, profile),
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_session_store")),
	}
}

// Load returns the stored session or ports.ErrNoSession
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable session",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		_ = s.client.Del(ctx, s.key).Err()
		return nil, ports.ErrNoSession
	}

	return &session, nil
}

// Save overwrites the stored session and refreshes its expiry
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.DebugContext(ctx, "session saved",
		slog.String("key", s.key),
		slog.Duration("ttl", s.ttl))
	return nil
}

// Clear removes the stored session
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
