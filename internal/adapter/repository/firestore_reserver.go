package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type firestoreReserver struct {
	client *firestore.Client
}

// NewFirestoreReserver applies every reservation write in one Firestore
// transaction and rejects items that are no longer available.
func NewFirestoreReserver(client *firestore.Client) repository.Reserver {
	return &firestoreReserver{
		client: client,
	}
}

func (r *firestoreReserver) Reserve(ctx context.Context, plan *repository.ReservationPlan) error {
	itemRef := r.client.Collection(foodItemsCollection).Doc(plan.FoodItemID)
	reservationRef := r.client.Collection(reservationsCollection).NewDoc()
	chatRef := r.client.Collection(chatsCollection).NewDoc()
	messageRef := chatRef.Collection(messagesCollection).NewDoc()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(itemRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Food item", err)
			}
			return err
		}

		var item entity.FoodItem
		if err := doc.DataTo(&item); err != nil {
			return err
		}
		if item.Status != entity.FoodAvailable {
			return errors.Conflict("Food item is no longer available", nil)
		}

		if err := tx.Update(itemRef, []firestore.Update{
			{Path: "status", Value: string(entity.FoodReserved)},
			{Path: "reservedBy", Value: plan.ReservedBy},
			{Path: "reservedAt", Value: plan.ReservedAt},
			{Path: "updatedAt", Value: plan.ReservedAt},
		}); err != nil {
			return err
		}
		if err := tx.Create(reservationRef, plan.Reservation); err != nil {
			return err
		}
		if err := tx.Create(chatRef, plan.Chat); err != nil {
			return err
		}
		return tx.Create(messageRef, plan.SystemMessage)
	})
	if err != nil {
		return errors.Wrap(err, "Failed to reserve food item")
	}

	plan.Reservation.ID = reservationRef.ID
	plan.Chat.ID = chatRef.ID
	plan.SystemMessage.ID = messageRef.ID
	return nil
}
