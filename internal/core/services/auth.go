// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// AuthService signs users in and keeps their session between runs
type AuthService struct {
	api     ports.AuthAPI
	store   ports.SessionStore
	baseURL string
	now     func() time.Time
	logger  *slog.Logger
}

// NewAuthService creates an auth service for the backend at baseURL
func NewAuthService(api ports.AuthAPI, store ports.SessionStore, baseURL string, logger *slog.Logger) *AuthService {
	return &AuthService{
		api:     api,
		store:   store,
		baseURL: baseURL,
		now:     time.Now,
		logger:  logger.With(slog.String("service", "auth")),
	}
}

// Login validates creds, signs in and persists the session
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	user, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	session, err := s.persist(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "signed in", slog.String("user_id", user.ID))
	return session, nil
}

// Register creates an account; the backend signs the new user in
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	user, err := s.api.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	session, err := s.persist(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "registered", slog.String("user_id", user.ID))
	return session, nil
}

// Logout ends the backend session and forgets the stored one.
// A session the backend already dropped is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, err := s.Restore(ctx); err != nil && !errors.Is(err, ports.ErrNoSession) {
		return err
	}

	var logoutErr error
	if err := s.api.Logout(ctx); err != nil && !isUnauthorized(err) {
		logoutErr = fmt.Errorf("logout: %w", err)
	}
	s.api.ClearCookies()

	if err := s.store.Clear(ctx); err != nil {
		return errors.Join(logoutErr, fmt.Errorf("clear session: %w", err))
	}
	return logoutErr
}

// Restore loads the stored session into the client cookie jar.
// A session stored for another backend is ignored.
func (s *AuthService) Restore(ctx context.Context) (*domain.Session, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if session.BaseURL != "" && s.baseURL != "" && session.BaseURL != s.baseURL {
		s.logger.DebugContext(ctx, "stored session belongs to another backend",
			slog.String("session_base_url", session.BaseURL))
		return nil, ports.ErrNoSession
	}

	s.api.RestoreCookies(session.HTTPCookies())
	return session, nil
}

// Whoami restores the session and asks the backend who it belongs to.
// A session the backend rejects is cleared.
func (s *AuthService) Whoami(ctx context.Context) (domain.User, error) {
	if _, err := s.Restore(ctx); err != nil {
		return domain.User{}, err
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		if isUnauthorized(err) {
			if clearErr := s.store.Clear(ctx); clearErr != nil {
				s.logger.WarnContext(ctx, "failed to clear rejected session",
					slog.String("error", clearErr.Error()))
			}
		}
		return domain.User{}, fmt.Errorf("whoami: %w", err)
	}
	return user, nil
}

func (s *AuthService) persist(ctx context.Context, user domain.User) (*domain.Session, error) {
	session := &domain.Session{
		User:      user,
		BaseURL:   s.baseURL,
		Cookies:   domain.NewSessionCookies(s.api.Cookies()),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func isUnauthorized(err error) bool {
	return errors.Is(err, ports.ErrUnauthorized)
}
