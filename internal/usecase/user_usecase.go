package usecase

import (
	"context"
	"log"
	"time"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/session"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	identity IdentityProvider
}

func NewUserUseCase(userRepo repository.UserRepository, identity IdentityProvider) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		identity: identity,
	}
}

// DonorProfile is the public view of a user with their rating summary.
type DonorProfile struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Location       entity.Location        `json:"location"`
	CreatedAt      time.Time              `json:"created_at"`
	Ratings        []int                  `json:"ratings"`
	RatingComments []entity.RatingComment `json:"rating_comments"`
	AverageRating  *float64               `json:"average_rating,omitempty"`
	RatingLabel    string                 `json:"rating_label"`
}

func (uc *UserUseCase) GetDonorProfile(ctx context.Context, id string) (*DonorProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &DonorProfile{
		ID:             user.ID,
		Name:           user.Name,
		Location:       user.Location,
		CreatedAt:      user.CreatedAt,
		Ratings:        user.Ratings,
		RatingComments: user.RatingComments,
		AverageRating:  user.AverageRating,
		RatingLabel:    user.RatingLabel(),
	}
	if profile.Ratings == nil {
		profile.Ratings = []int{}
	}
	if profile.RatingComments == nil {
		profile.RatingComments = []entity.RatingComment{}
	}
	return profile, nil
}

// GetMe returns the hydrated profile of the session user.
func (uc *UserUseCase) GetMe(ctx context.Context, sess *session.Session) (*entity.User, error) {
	if _, _, err := requireUser(sess); err != nil {
		return nil, err
	}
	return sess.CurrentUser(), nil
}

type UpdateProfileInput struct {
	Name        string
	Email       string
	Address     string
	PhoneNumber string
}

// UpdateProfile edits the profile document, then mirrors the name onto the
// credential's display name. Only the document write can fail the call.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, sess *session.Session, input UpdateProfileInput) (*entity.User, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	update := &entity.User{
		ID:          uid,
		Name:        input.Name,
		Email:       input.Email,
		Location:    entity.Location{Address: input.Address},
		PhoneNumber: input.PhoneNumber,
	}
	if err := uc.userRepo.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}

	if err := uc.identity.UpdateDisplayName(ctx, uid, input.Name); err != nil {
		log.Printf("Profile: failed to update display name for %s: %v", uid, err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	sess.Apply(sess.Identity(), user)
	return user, nil
}
