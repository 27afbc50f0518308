package repository

import "context"

// PurgeableCollections is every collection the maintenance cleanup empties.
var PurgeableCollections = []string{
	"users",
	"foodItems",
	"chats",
	"activities",
	"reservations",
	"notifications",
}

type CollectionPurger interface {
	Purge(ctx context.Context, collection string) (int, error)
}
