package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type firestoreActivityRepository struct {
	client *firestore.Client
}

func NewFirestoreActivityRepository(client *firestore.Client) repository.ActivityRepository {
	return &firestoreActivityRepository{
		client: client,
	}
}

func (r *firestoreActivityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	ref := r.client.Collection(activitiesCollection).NewDoc()
	if _, err := ref.Create(ctx, activity); err != nil {
		return errors.Internal("Failed to create activity", err)
	}
	activity.ID = ref.ID
	return nil
}

func (r *firestoreActivityRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Activity, error) {
	query := r.client.Collection(activitiesCollection).
		Where("userId", "==", userID).
		OrderBy("timestamp", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var activities []*entity.Activity
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list activities", err)
		}

		var activity entity.Activity
		if err := doc.DataTo(&activity); err != nil {
			return nil, errors.Internal("Failed to parse activity data", err)
		}
		activity.ID = doc.Ref.ID
		activities = append(activities, &activity)
	}
	return activities, nil
}

func (r *firestoreActivityRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	n, err := deleteAll(ctx, r.client.Collection(activitiesCollection).Where("userId", "==", userID).Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to delete activities", err)
	}
	return n, nil
}
