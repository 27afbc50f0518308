package usecase

import (
	"context"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/session"
)

type ActivityUseCase struct {
	foodItemRepo repository.FoodItemRepository
	activityRepo repository.ActivityRepository
}

func NewActivityUseCase(foodItemRepo repository.FoodItemRepository, activityRepo repository.ActivityRepository) *ActivityUseCase {
	return &ActivityUseCase{
		foodItemRepo: foodItemRepo,
		activityRepo: activityRepo,
	}
}

type Dashboard struct {
	Donations  []*entity.FoodItem `json:"donations"`
	Activities []*entity.Activity `json:"activities"`
}

// Dashboard returns the session user's own listings and activity trail.
func (uc *ActivityUseCase) Dashboard(ctx context.Context, sess *session.Session) (*Dashboard, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	donations, err := uc.foodItemRepo.ListByDonor(ctx, uid)
	if err != nil {
		return nil, err
	}
	activities, err := uc.activityRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if donations == nil {
		donations = []*entity.FoodItem{}
	}
	if activities == nil {
		activities = []*entity.Activity{}
	}
	return &Dashboard{
		Donations:  donations,
		Activities: activities,
	}, nil
}
