package repository

import (
	"context"

	"foodshare/internal/domain/entity"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Activity, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
