package repository

import (
	"context"

	"foodshare/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID returns a NOT_FOUND AppError when the profile document is absent.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// UpdateProfile merges name, email, location and phone number.
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdateRatings(ctx context.Context, id string, ratings []int, comments []entity.RatingComment, average float64) error
	Delete(ctx context.Context, id string) error
}
