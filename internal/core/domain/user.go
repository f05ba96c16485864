package domain

import (
	"net/http"
	"strings"
	"time"
)

// User is the authenticated account as reported by the backend
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Credentials are submitted to the login endpoint
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate trims the email and checks both fields
func (c *Credentials) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	return structErrors(c).OrNil()
}

// Registration is submitted to the register endpoint
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Validate trims the registration and checks its fields
func (r *Registration) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	return structErrors(r).OrNil()
}

// Session holds the signed-in user and the backend cookies that authenticate them
type Session struct {
	User      User            `json:"user"`
	BaseURL   string          `json:"baseUrl"`
	Cookies   []SessionCookie `json:"cookies"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SessionCookie is the persisted form of an http.Cookie
type SessionCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

// NewSessionCookies converts jar cookies into their persisted form
func NewSessionCookies(cookies []*http.Cookie) []SessionCookie {
	out := make([]SessionCookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, SessionCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return out
}

// HTTPCookies converts the persisted cookies back for a cookie jar
func (s *Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return out
}

// Expired reports whether every cookie with an expiry has lapsed at now
func (s *Session) Expired(now time.Time) bool {
	if len(s.Cookies) == 0 {
		return true
	}
	for _, c := range s.Cookies {
		if c.Expires.IsZero() || c.Expires.After(now) {
			return false
		}
	}
	return true
}
