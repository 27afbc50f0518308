package firebase

import (
	"context"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

type FirebaseAuthClient struct {
	client  *auth.Client
	toolkit *identitytoolkit.Service
}

func NewFirebaseAuthClient(client *auth.Client, toolkit *identitytoolkit.Service) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:  client,
		toolkit: toolkit,
	}
}

// NewIdentityToolkit builds the client used for password sign-in. It
// authenticates with the project's web API key, not the service account.
func NewIdentityToolkit(ctx context.Context, apiKey string) (*identitytoolkit.Service, error) {
	return identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
}

// CreateUser creates the credential only. The display name is set in a
// separate call, as sign-up does.
func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password string) (*session.Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, errors.Conflict("Email is already registered", err)
		}
		if auth.IsInvalidEmail(err) {
			return nil, errors.BadRequest("Invalid email address", err)
		}
		return nil, errors.BadRequest("Failed to create account", err)
	}

	return &session.Identity{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

func (f *FirebaseAuthClient) SignIn(ctx context.Context, email, password string) (*session.Identity, *session.Tokens, error) {
	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == http.StatusBadRequest {
			return nil, nil, errors.Unauthorized("Invalid email or password", err)
		}
		return nil, nil, errors.Internal("Failed to sign in", err)
	}

	expiresIn := resp.ExpiresIn
	identity := &session.Identity{
		UID:         resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Token:       resp.IdToken,
		ExpiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	tokens := &session.Tokens{
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    expiresIn,
	}
	return identity, tokens, nil
}

func (f *FirebaseAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*session.Identity, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	identity := &session.Identity{
		UID:       token.UID,
		Token:     idToken,
		ExpiresAt: time.Unix(token.Expires, 0),
	}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	return identity, nil
}

func (f *FirebaseAuthClient) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	params := (&auth.UserToUpdate{}).
		DisplayName(displayName)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		if auth.IsUserNotFound(err) {
			return errors.NotFound("Account", err)
		}
		return errors.Internal("Failed to update display name", err)
	}
	return nil
}

// RevokeSessions invalidates every refresh token of the user. Already
// issued ID tokens stay valid until they expire.
func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return errors.Internal("Failed to revoke sessions", err)
	}
	return nil
}

func (f *FirebaseAuthClient) DeleteAccount(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return errors.NotFound("Account", err)
		}
		return errors.Internal("Failed to delete account", err)
	}
	return nil
}
