package usecase

import (
	"context"
	"log"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/infrastructure/cache"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
	"foodshare/pkg/logger"
)

type SessionUseCase struct {
	identity        IdentityProvider
	denylist        cache.TokenDenylist
	userRepo        repository.UserRepository
	foodItemRepo    repository.FoodItemRepository
	chatRepo        repository.ChatRepository
	activityRepo    repository.ActivityRepository
	reservationRepo repository.ReservationRepository
}

func NewSessionUseCase(
	identity IdentityProvider,
	denylist cache.TokenDenylist,
	userRepo repository.UserRepository,
	foodItemRepo repository.FoodItemRepository,
	chatRepo repository.ChatRepository,
	activityRepo repository.ActivityRepository,
	reservationRepo repository.ReservationRepository,
) *SessionUseCase {
	return &SessionUseCase{
		identity:        identity,
		denylist:        denylist,
		userRepo:        userRepo,
		foodItemRepo:    foodItemRepo,
		chatRepo:        chatRepo,
		activityRepo:    activityRepo,
		reservationRepo: reservationRepo,
	}
}

// Authenticate verifies an ID token and hydrates a session for it. Tokens
// presented to Logout are refused until they expire.
func (uc *SessionUseCase) Authenticate(ctx context.Context, idToken string) (*session.Session, error) {
	if idToken == "" {
		return nil, errors.Unauthorized("Missing authentication token", nil)
	}

	denied, err := uc.denylist.Contains(ctx, idToken)
	if err != nil {
		return nil, errors.Internal("Failed to check token", err)
	}
	if denied {
		return nil, errors.Unauthorized("Token has been revoked", nil)
	}

	identity, err := uc.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	return uc.Hydrate(ctx, identity), nil
}

// Hydrate merges the profile document into the session. A missing or
// unreadable profile falls back to what the identity provider knows.
func (uc *SessionUseCase) Hydrate(ctx context.Context, identity *session.Identity) *session.Session {
	sess := session.New()

	profile, err := uc.userRepo.GetByID(ctx, identity.UID)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.Error("Failed to load profile for %s, using basic profile: %v", identity.UID, err)
		}
		sess.Apply(identity, basicProfile(identity))
		return sess
	}

	if profile.Name == "" {
		profile.Name = identity.DisplayName
	}
	profile.ID = identity.UID
	profile.Email = identity.Email
	sess.Apply(identity, profile)
	return sess
}

func basicProfile(identity *session.Identity) *entity.User {
	return &entity.User{
		ID:        identity.UID,
		Name:      identity.DisplayName,
		Email:     identity.Email,
		CreatedAt: now(),
	}
}

// Logout revokes refresh tokens, denies the presented ID token and clears
// the session. Provider failures are logged, the session is cleared anyway.
func (uc *SessionUseCase) Logout(ctx context.Context, sess *session.Session) error {
	uid, _, err := requireUser(sess)
	if err != nil {
		return err
	}

	if err := uc.identity.RevokeSessions(ctx, uid); err != nil {
		log.Printf("Error signing out %s: %v", uid, err)
	}
	if identity := sess.Identity(); identity != nil && identity.Token != "" {
		if err := uc.denylist.Add(ctx, identity.Token, identity.ExpiresAt); err != nil {
			log.Printf("Error denylisting token for %s: %v", uid, err)
		}
	}

	sess.Clear()
	return nil
}

// DeleteAccount runs the deletion cascade for the signed-in user and
// clears the session once it completes.
func (uc *SessionUseCase) DeleteAccount(ctx context.Context, sess *session.Session) error {
	uid, _, err := requireUser(sess)
	if err != nil {
		return err
	}
	if err := uc.DeleteUserData(ctx, uid); err != nil {
		return err
	}
	sess.Clear()
	return nil
}

// DeleteUserData deletes what uid owns: food items and chats where it is
// the donor, its activities and reservations, then the profile and the
// credential. The first failing step aborts the cascade and earlier steps
// stay applied. Chats where uid is only the receiver, and the messages of
// deleted chats, are left behind.
func (uc *SessionUseCase) DeleteUserData(ctx context.Context, uid string) error {
	const flow = "delete_user"

	items, err := uc.foodItemRepo.DeleteByDonor(ctx, uid)
	if err != nil {
		logger.Step(flow, "food_items", uid, err)
		return err
	}

	chats, err := uc.chatRepo.DeleteByDonor(ctx, uid)
	if err != nil {
		logger.Step(flow, "chats", uid, err)
		return err
	}
	logger.Debug("%s: deleted %d food items and %d chats of %s", flow, items, chats, uid)

	if _, err := uc.activityRepo.DeleteByUser(ctx, uid); err != nil {
		logger.Step(flow, "activities", uid, err)
		return err
	}

	if _, err := uc.reservationRepo.DeleteByUser(ctx, uid); err != nil {
		logger.Step(flow, "reservations", uid, err)
		return err
	}

	if err := uc.userRepo.Delete(ctx, uid); err != nil {
		logger.Step(flow, "profile", uid, err)
		return err
	}

	if err := uc.identity.DeleteAccount(ctx, uid); err != nil && !errors.IsNotFound(err) {
		logger.Step(flow, "credential", uid, err)
		return err
	}

	logger.Info("Deleted account %s", uid)
	return nil
}
