package bootstrap

import (
	"context"
	"fmt"
	"log"

	"foodshare/internal/adapter/repository"
	"foodshare/internal/adapter/repository/memory"
	domainrepo "foodshare/internal/domain/repository"
	"foodshare/internal/infrastructure/cache"
	"foodshare/internal/infrastructure/firebase"
	"foodshare/pkg/config"
)

// Backend is the set of stores and providers selected by configuration.
type Backend struct {
	Clients *firebase.Clients

	Users        domainrepo.UserRepository
	FoodItems    domainrepo.FoodItemRepository
	Reservations domainrepo.ReservationRepository
	Chats        domainrepo.ChatRepository
	Activities   domainrepo.ActivityRepository
	Purger       domainrepo.CollectionPurger

	// Reserver is nil unless reservations run transactionally.
	Reserver domainrepo.Reserver

	Denylist cache.TokenDenylist

	closers []func() error
}

// Open connects to Firebase and builds the configured data backend. The
// identity provider is always Firebase Auth.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b := &Backend{Clients: clients}
	b.closers = append(b.closers, clients.Close)

	switch cfg.DataBackend {
	case config.DataBackendFirestore:
		client := clients.Firestore
		b.Users = repository.NewFirestoreUserRepository(client)
		b.FoodItems = repository.NewFirestoreFoodItemRepository(client)
		b.Reservations = repository.NewFirestoreReservationRepository(client)
		b.Chats = repository.NewFirestoreChatRepository(client)
		b.Activities = repository.NewFirestoreActivityRepository(client)
		b.Purger = repository.NewFirestorePurger(client)
		if cfg.TransactionalReservations() {
			b.Reserver = repository.NewFirestoreReserver(client)
		}

	case config.DataBackendMemory:
		log.Printf("Using in-memory data backend, nothing is persisted")
		store := memory.NewStore()
		b.Users = store.Users()
		b.FoodItems = store.FoodItems()
		b.Reservations = store.Reservations()
		b.Chats = store.Chats()
		b.Activities = store.Activities()
		b.Purger = store.Purger()
		if cfg.TransactionalReservations() {
			b.Reserver = store.Reserver()
		}

	default:
		b.Close()
		return nil, fmt.Errorf("unknown DATA_BACKEND %q", cfg.DataBackend)
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			b.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Printf("Using Redis token denylist")
		b.Denylist = cache.NewRedisDenylist(client)
		b.closers = append(b.closers, client.Close)
	} else {
		b.Denylist = cache.NewMemoryDenylist()
	}

	return b, nil
}

// Close releases every client in reverse order of creation.
func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
