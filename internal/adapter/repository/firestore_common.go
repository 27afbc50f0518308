package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"foodshare/internal/domain/entity"
	"foodshare/pkg/errors"
)

const (
	usersCollection        = "users"
	foodItemsCollection    = "foodItems"
	chatsCollection        = "chats"
	messagesCollection     = "messages"
	activitiesCollection   = "activities"
	reservationsCollection = "reservations"

	// Upper bound on concurrent deletes issued by one cascade.
	deleteConcurrency = 16
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// deleteAll deletes every document the iterator yields, concurrently and
// without ordering. Deletes already issued are not undone when one fails.
func deleteAll(ctx context.Context, iter *firestore.DocumentIterator) (int, error) {
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		refs = append(refs, doc.Ref)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, ref := range refs {
		g.Go(func() error {
			_, err := ref.Delete(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(refs), nil
}

func readMessages(iter *firestore.DocumentIterator) ([]*entity.Message, error) {
	defer iter.Stop()

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}
	return messages, nil
}

func sortFoodItemsNewestFirst(items []*entity.FoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
