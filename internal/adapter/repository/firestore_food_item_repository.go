package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type firestoreFoodItemRepository struct {
	client *firestore.Client
}

func NewFirestoreFoodItemRepository(client *firestore.Client) repository.FoodItemRepository {
	return &firestoreFoodItemRepository{
		client: client,
	}
}

func (r *firestoreFoodItemRepository) Create(ctx context.Context, item *entity.FoodItem) error {
	ref := r.client.Collection(foodItemsCollection).NewDoc()
	if _, err := ref.Create(ctx, item); err != nil {
		return errors.Internal("Failed to create food item", err)
	}
	item.ID = ref.ID
	return nil
}

func (r *firestoreFoodItemRepository) GetByID(ctx context.Context, id string) (*entity.FoodItem, error) {
	doc, err := r.client.Collection(foodItemsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Food item", err)
		}
		return nil, errors.Internal("Failed to get food item", err)
	}

	var item entity.FoodItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse food item data", err)
	}
	item.ID = doc.Ref.ID

	return &item, nil
}

func (r *firestoreFoodItemRepository) ListByStatus(ctx context.Context, status entity.FoodStatus) ([]*entity.FoodItem, error) {
	query := r.client.Collection(foodItemsCollection).Where("status", "==", string(status))
	return r.list(ctx, query)
}

func (r *firestoreFoodItemRepository) ListByDonor(ctx context.Context, donorID string) ([]*entity.FoodItem, error) {
	query := r.client.Collection(foodItemsCollection).Where("donorId", "==", donorID)
	return r.list(ctx, query)
}

// list sorts in memory so the equality filters need no composite index.
func (r *firestoreFoodItemRepository) list(ctx context.Context, query firestore.Query) ([]*entity.FoodItem, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var items []*entity.FoodItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list food items", err)
		}

		var item entity.FoodItem
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse food item data", err)
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}

	sortFoodItemsNewestFirst(items)
	return items, nil
}

func (r *firestoreFoodItemRepository) MarkReserved(ctx context.Context, id, userID string, at time.Time) error {
	_, err := r.client.Collection(foodItemsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(entity.FoodReserved)},
		{Path: "reservedBy", Value: userID},
		{Path: "reservedAt", Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Food item", err)
		}
		return errors.Internal("Failed to reserve food item", err)
	}
	return nil
}

func (r *firestoreFoodItemRepository) DeleteByDonor(ctx context.Context, donorID string) (int, error) {
	n, err := deleteAll(ctx, r.client.Collection(foodItemsCollection).Where("donorId", "==", donorID).Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to delete food items", err)
	}
	return n, nil
}
