package repository

import (
	"context"
	"time"

	"foodshare/internal/domain/entity"
)

type FoodItemRepository interface {
	Create(ctx context.Context, item *entity.FoodItem) error
	GetByID(ctx context.Context, id string) (*entity.FoodItem, error)
	ListByStatus(ctx context.Context, status entity.FoodStatus) ([]*entity.FoodItem, error)
	ListByDonor(ctx context.Context, donorID string) ([]*entity.FoodItem, error)
	// MarkReserved overwrites status, reservedBy and reservedAt without
	// checking the current status.
	MarkReserved(ctx context.Context, id, userID string, at time.Time) error
	DeleteByDonor(ctx context.Context, donorID string) (int, error)
}
