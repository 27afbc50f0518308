package usecase

import (
	"context"
	"time"

	"foodshare/internal/session"
)

// IdentityProvider is the external credential service.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (*session.Identity, error)
	SignIn(ctx context.Context, email, password string) (*session.Identity, *session.Tokens, error)
	VerifyIDToken(ctx context.Context, idToken string) (*session.Identity, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	RevokeSessions(ctx context.Context, uid string) error
	DeleteAccount(ctx context.Context, uid string) error
}

// ActionLimiter throttles a user action, reporting the wait when denied.
type ActionLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

// BlobStore is the bucket emptied by the maintenance cleanup.
type BlobStore interface {
	DeleteAll(ctx context.Context) (int, error)
}
