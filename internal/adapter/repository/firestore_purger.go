package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type firestorePurger struct {
	client *firestore.Client
}

func NewFirestorePurger(client *firestore.Client) repository.CollectionPurger {
	return &firestorePurger{
		client: client,
	}
}

// Purge deletes every top-level document of a collection. Subcollections
// are left in place.
func (p *firestorePurger) Purge(ctx context.Context, collection string) (int, error) {
	n, err := deleteAll(ctx, p.client.Collection(collection).Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to purge "+collection, err)
	}
	return n, nil
}
