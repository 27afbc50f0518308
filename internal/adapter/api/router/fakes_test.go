package router_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

// fakeIdentity issues "token-<uid>" ID tokens for accounts it holds.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount
	nextUID  int
}

type fakeAccount struct {
	uid         string
	email       string
	password    string
	displayName string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]*fakeAccount)}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password string) (*session.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.email == email {
			return nil, errors.Conflict("Email is already registered", nil)
		}
	}
	f.nextUID++
	a := &fakeAccount{uid: fmt.Sprintf("uid-%d", f.nextUID), email: email, password: password}
	f.accounts[a.uid] = a
	return &session.Identity{UID: a.uid, Email: email}, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*session.Identity, *session.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.email == email && a.password == password {
			return f.identity(a), &session.Tokens{
				IDToken:      "token-" + a.uid,
				RefreshToken: "refresh-" + a.uid,
				ExpiresIn:    3600,
			}, nil
		}
	}
	return nil, nil, errors.Unauthorized("Invalid email or password", nil)
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, idToken string) (*session.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.HasPrefix(idToken, "token-") {
		return nil, errors.Unauthorized("Invalid or expired token", nil)
	}
	a, ok := f.accounts[strings.TrimPrefix(idToken, "token-")]
	if !ok {
		return nil, errors.Unauthorized("Invalid or expired token", nil)
	}
	return f.identity(a), nil
}

func (f *fakeIdentity) identity(a *fakeAccount) *session.Identity {
	return &session.Identity{
		UID:         a.uid,
		Email:       a.email,
		DisplayName: a.displayName,
		Token:       "token-" + a.uid,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func (f *fakeIdentity) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[uid]
	if !ok {
		return errors.NotFound("Account", nil)
	}
	a.displayName = displayName
	return nil
}

func (f *fakeIdentity) RevokeSessions(ctx context.Context, uid string) error {
	return nil
}

func (f *fakeIdentity) DeleteAccount(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[uid]; !ok {
		return errors.NotFound("Account", nil)
	}
	delete(f.accounts, uid)
	return nil
}
