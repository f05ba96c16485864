package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/pkg/logger"
)

// SessionCookie is the cookie carrying the backend session
const SessionCookie = "stockroom_session"

type account struct {
	user domain.User
	hash []byte
}

type session struct {
	userID  string
	expires time.Time
}

type authStore struct {
	mu       sync.RWMutex
	accounts map[string]account // by lower-cased email
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func newAuthStore(ttl time.Duration, now func() time.Time) *authStore {
	return &authStore{
		accounts: make(map[string]account),
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      now,
	}
}

type userKey struct{}

// AddUser registers an account directly, e.g. for seeding
func (s *Server) AddUser(name, email, password, role string) (domain.User, error) {
	return s.auth.add(name, email, password, role)
}

func (a *authStore) add(name, email, password, role string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{ID: uuid.NewString(), Name: name, Email: email, Role: role}
	key := strings.ToLower(email)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[key]; exists {
		return domain.User{}, errEmailTaken
	}
	a.accounts[key] = account{user: user, hash: hash}
	return user, nil
}

var errEmailTaken = &domain.ValidationError{Fields: map[string]string{"email": "is already registered"}}

func (a *authStore) authenticate(email, password string) (domain.User, bool) {
	a.mu.RLock()
	acc, ok := a.accounts[strings.ToLower(email)]
	a.mu.RUnlock()
	if !ok {
		return domain.User{}, false
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return domain.User{}, false
	}
	return acc.user, true
}

func (a *authStore) open(user domain.User) (string, time.Time) {
	token := uuid.NewString()
	expires := a.now().Add(a.ttl)

	a.mu.Lock()
	a.sessions[token] = session{userID: user.ID, expires: expires}
	a.mu.Unlock()
	return token, expires
}

func (a *authStore) lookup(token string) (domain.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sess, ok := a.sessions[token]
	if !ok || a.now().After(sess.expires) {
		return domain.User{}, false
	}
	for _, acc := range a.accounts {
		if acc.user.ID == sess.userID {
			return acc.user, true
		}
	}
	return domain.User{}, false
}

func (a *authStore) close(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

type authResponse struct {
	User domain.User `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}
	if err := creds.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	user, ok := s.auth.authenticate(creds.Email, creds.Password)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "invalid email or password"})
		return
	}
	s.startSession(w, user)
	writeJSON(w, http.StatusOK, authResponse{User: user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}
	if err := reg.Validate(); err != nil {
		writeValidation(w, err)
		return
	}

	user, err := s.auth.add(reg.Name, reg.Email, reg.Password, "staff")
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			writeJSON(w, http.StatusConflict, errorResponse{Message: "email is already registered"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "could not create account"})
		return
	}
	s.startSession(w, user)
	writeJSON(w, http.StatusCreated, authResponse{User: user})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.auth.close(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(userKey{}).(domain.User)
	writeJSON(w, http.StatusOK, authResponse{User: user})
}

func (s *Server) startSession(w http.ResponseWriter, user domain.User) {
	token, expires := s.auth.open(user)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "authentication required"})
			return
		}
		user, ok := s.auth.lookup(c.Value)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "session expired"})
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, user)
		ctx = logger.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
