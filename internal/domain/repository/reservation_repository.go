package repository

import (
	"context"
	"time"

	"foodshare/internal/domain/entity"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Reservation, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// ReservationPlan is every write a reservation performs, prepared up front
// so a Reserver can apply them together.
type ReservationPlan struct {
	FoodItemID    string
	ReservedBy    string
	ReservedAt    time.Time
	Reservation   *entity.Reservation
	Chat          *entity.Chat
	SystemMessage *entity.Message
}

// Reserver applies a ReservationPlan atomically. It fails with a CONFLICT
// AppError when the food item is no longer available.
type Reserver interface {
	Reserve(ctx context.Context, plan *ReservationPlan) error
}
