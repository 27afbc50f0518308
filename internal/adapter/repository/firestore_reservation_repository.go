package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type firestoreReservationRepository struct {
	client *firestore.Client
}

func NewFirestoreReservationRepository(client *firestore.Client) repository.ReservationRepository {
	return &firestoreReservationRepository{
		client: client,
	}
}

func (r *firestoreReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	ref := r.client.Collection(reservationsCollection).NewDoc()
	if _, err := ref.Create(ctx, reservation); err != nil {
		return errors.Internal("Failed to create reservation", err)
	}
	reservation.ID = ref.ID
	return nil
}

func (r *firestoreReservationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Reservation, error) {
	iter := r.client.Collection(reservationsCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	var reservations []*entity.Reservation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list reservations", err)
		}

		var reservation entity.Reservation
		if err := doc.DataTo(&reservation); err != nil {
			return nil, errors.Internal("Failed to parse reservation data", err)
		}
		reservation.ID = doc.Ref.ID
		reservations = append(reservations, &reservation)
	}

	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].CreatedAt.After(reservations[j].CreatedAt)
	})
	return reservations, nil
}

func (r *firestoreReservationRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	n, err := deleteAll(ctx, r.client.Collection(reservationsCollection).Where("userId", "==", userID).Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to delete reservations", err)
	}
	return n, nil
}
