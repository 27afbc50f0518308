// Package session holds the authenticated user for one request: the
// verified identity, the hydrated profile and the loading flag.
package session

import (
	"context"
	"sync"
	"time"

	"foodshare/internal/domain/entity"
)

// Identity is what the identity provider vouches for.
type Identity struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"-"`
	ExpiresAt   time.Time `json:"-"`
}

// Tokens are returned from sign-in and sign-up.
type Tokens struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Session struct {
	mu          sync.RWMutex
	identity    *Identity
	currentUser *entity.User
	loading     bool
}

// New starts a session in the loading state until Apply or Clear.
func New() *Session {
	return &Session{loading: true}
}

func (s *Session) Apply(identity *Identity, user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.currentUser = user
	s.loading = false
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.currentUser = nil
	s.loading = false
}

func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) CurrentUser() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// UserID is empty when nobody is signed in.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser != nil {
		return s.currentUser.ID
	}
	if s.identity != nil {
		return s.identity.UID
	}
	return ""
}

// DisplayName falls back to the provider display name, then the e-mail.
func (s *Session) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser != nil && s.currentUser.Name != "" {
		return s.currentUser.Name
	}
	if s.identity != nil {
		if s.identity.DisplayName != "" {
			return s.identity.DisplayName
		}
		return s.identity.Email
	}
	return ""
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns nil when no session was attached.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
