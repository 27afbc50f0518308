package usecase

import (
	"context"
	"fmt"
	"net/url"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/infrastructure/ratelimit"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
	"foodshare/pkg/logger"
)

type ReservationUseCase struct {
	foodItemRepo    repository.FoodItemRepository
	reservationRepo repository.ReservationRepository
	chatRepo        repository.ChatRepository
	reserver        repository.Reserver
	limiter         ActionLimiter
}

// NewReservationUseCase issues the reservation writes one by one, unless
// reserver is non-nil, in which case all of them go through it as a unit.
func NewReservationUseCase(
	foodItemRepo repository.FoodItemRepository,
	reservationRepo repository.ReservationRepository,
	chatRepo repository.ChatRepository,
	reserver repository.Reserver,
	limiter ActionLimiter,
) *ReservationUseCase {
	return &ReservationUseCase{
		foodItemRepo:    foodItemRepo,
		reservationRepo: reservationRepo,
		chatRepo:        chatRepo,
		reserver:        reserver,
		limiter:         limiter,
	}
}

type ReservationResult struct {
	ChatID        string `json:"chat_id"`
	ReservationID string `json:"reservation_id"`
	Redirect      string `json:"redirect"`
}

// Reserve marks the item reserved, creates the reservation and the chat,
// then posts the system message announcing it.
//
// In sequential mode the item's current status is not checked, a later
// reservation overwrites an earlier one, and a failing step leaves the
// earlier writes in place.
func (uc *ReservationUseCase) Reserve(ctx context.Context, sess *session.Session, foodItemID string) (*ReservationResult, error) {
	uid, name, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if err := checkLimit(uc.limiter, uid, ratelimit.ActionReserve, "Too many reservations"); err != nil {
		return nil, err
	}

	item, err := uc.foodItemRepo.GetByID(ctx, foodItemID)
	if err != nil {
		return nil, err
	}
	if item.DonorID == uid {
		return nil, errors.BadRequest("You cannot reserve your own listing", nil)
	}

	plan := buildPlan(item, uid, name)
	if uc.reserver != nil {
		if err := uc.reserver.Reserve(ctx, plan); err != nil {
			logger.Step("reserve", "transaction", item.ID, err)
			return nil, err
		}
	} else if err := uc.reserveSequentially(ctx, plan); err != nil {
		return nil, err
	}

	logger.Info("Food item %s reserved by %s, chat %s", item.ID, uid, plan.Chat.ID)
	return &ReservationResult{
		ChatID:        plan.Chat.ID,
		ReservationID: plan.Reservation.ID,
		Redirect:      "/chats?chatId=" + url.QueryEscape(plan.Chat.ID),
	}, nil
}

func buildPlan(item *entity.FoodItem, uid, name string) *repository.ReservationPlan {
	at := now()
	return &repository.ReservationPlan{
		FoodItemID: item.ID,
		ReservedBy: uid,
		ReservedAt: at,
		Reservation: &entity.Reservation{
			FoodItemID:    item.ID,
			FoodItemTitle: item.Title,
			UserID:        uid,
			UserName:      name,
			DonorID:       item.DonorID,
			DonorName:     item.DonorName,
			Status:        entity.ReservationPending,
			CreatedAt:     at,
			UpdatedAt:     at,
		},
		Chat: &entity.Chat{
			FoodItemID:    item.ID,
			FoodItemTitle: item.Title,
			DonorID:       item.DonorID,
			DonorName:     item.DonorName,
			ReceiverID:    uid,
			ReceiverName:  name,
			Participants:  entity.ParticipantsOf(item.DonorID, uid),
			Status:        entity.ChatPending,
			CreatedAt:     at,
		},
		SystemMessage: entity.NewSystemMessage(fmt.Sprintf("%s has reserved %s", name, item.Title), at),
	}
}

func (uc *ReservationUseCase) reserveSequentially(ctx context.Context, plan *repository.ReservationPlan) error {
	const flow = "reserve"

	if err := uc.foodItemRepo.MarkReserved(ctx, plan.FoodItemID, plan.ReservedBy, plan.ReservedAt); err != nil {
		logger.Step(flow, "mark_reserved", plan.FoodItemID, err)
		return err
	}
	if err := uc.reservationRepo.Create(ctx, plan.Reservation); err != nil {
		logger.Step(flow, "create_reservation", plan.FoodItemID, err)
		return err
	}
	if err := uc.chatRepo.Create(ctx, plan.Chat); err != nil {
		logger.Step(flow, "create_chat", plan.FoodItemID, err)
		return err
	}
	if err := uc.chatRepo.CreateMessage(ctx, plan.Chat.ID, plan.SystemMessage); err != nil {
		logger.Step(flow, "system_message", plan.Chat.ID, err)
		return err
	}
	return nil
}
