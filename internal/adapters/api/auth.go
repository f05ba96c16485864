package api

import (
	"context"
	"net/http"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// AuthClient talks to the /auth endpoints; the session lives in the client's cookie jar
type AuthClient struct {
	*Client
}

var _ ports.AuthAPI = (*AuthClient)(nil)

type authResponse struct {
	User domain.User `json:"user"`
}

// NewAuthClient wraps client for authentication calls
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{Client: client}
}

// Login exchanges credentials for a session cookie
func (a *AuthClient) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	var resp authResponse
	err := a.Do(ctx, http.MethodPost, "auth/login", creds, &resp)
	return resp.User, err
}

// Register creates an account and signs it in
func (a *AuthClient) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var resp authResponse
	err := a.Do(ctx, http.MethodPost, "auth/register", reg, &resp)
	return resp.User, err
}

// Logout ends the backend session and drops the local cookies
func (a *AuthClient) Logout(ctx context.Context) error {
	err := a.Do(ctx, http.MethodPost, "auth/logout", nil, nil)
	a.ClearCookies()
	return err
}

// Me returns the user the current cookies authenticate
func (a *AuthClient) Me(ctx context.Context) (domain.User, error) {
	var resp authResponse
	err := a.Do(ctx, http.MethodGet, "auth/me", nil, &resp)
	return resp.User, err
}
