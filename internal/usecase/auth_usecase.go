package usecase

import (
	"context"
	"log"
	"strings"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity IdentityProvider
	sessions *SessionUseCase
}

func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityProvider, sessions *SessionUseCase) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
		sessions: sessions,
	}
}

type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
	PhoneNumber     string
}

type AuthResult struct {
	User   *entity.User    `json:"user"`
	Tokens *session.Tokens `json:"tokens"`
}

// SignUp creates the credential, sets its display name, writes the profile
// document and signs in. A failure after the credential exists leaves it
// in place.
func (uc *AuthUseCase) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, errors.BadRequest("Passwords do not match", nil)
	}

	email := strings.TrimSpace(input.Email)
	identity, err := uc.identity.CreateUser(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := uc.identity.UpdateDisplayName(ctx, identity.UID, input.Name); err != nil {
		log.Printf("Sign-up: failed to set display name for %s: %v", identity.UID, err)
		return nil, err
	}

	user := &entity.User{
		ID:          identity.UID,
		Name:        input.Name,
		Email:       email,
		Location:    entity.Location{Address: input.Address},
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		log.Printf("Sign-up: failed to create profile for %s: %v", identity.UID, err)
		return nil, err
	}

	_, tokens, err := uc.identity.SignIn(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:   user,
		Tokens: tokens,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	identity, tokens, err := uc.identity.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	sess := uc.sessions.Hydrate(ctx, identity)
	return &AuthResult{
		User:   sess.CurrentUser(),
		Tokens: tokens,
	}, nil
}
