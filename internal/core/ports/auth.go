// internal/core/ports/auth.go
package ports

import (
	"context"
	"errors"
	"net/http"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// ErrNoSession is returned by a SessionStore that holds nothing
var ErrNoSession = errors.New("no stored session")

// AuthAPI is the backend authentication contract
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (domain.User, error)

	// Cookie jar access for session persistence
	Cookies() []*http.Cookie
	RestoreCookies(cookies []*http.Cookie)
	ClearCookies()
}

// SessionStore persists the signed-in session between console runs
type SessionStore interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Clear(ctx context.Context) error
}
