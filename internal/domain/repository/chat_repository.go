package repository

import (
	"context"

	"foodshare/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error)
	UpdateStatus(ctx context.Context, id string, status entity.ChatStatus) error
	// MarkCompleted writes status completed and isRated true.
	MarkCompleted(ctx context.Context, id string) error
	UpdateLastMessage(ctx context.Context, id string, last entity.LastMessage) error
	// Delete removes the chat document and then its messages.
	Delete(ctx context.Context, id string) error
	// DeleteByDonor removes chat documents only; their messages stay behind.
	DeleteByDonor(ctx context.Context, donorID string) (int, error)

	CreateMessage(ctx context.Context, chatID string, message *entity.Message) error
	// ListMessages is ordered by timestamp ascending.
	ListMessages(ctx context.Context, chatID string) ([]*entity.Message, error)
	SubscribeMessages(ctx context.Context, chatID string) (MessageSubscription, error)
}

// MessageSubscription delivers the full ordered transcript of one chat on
// every change. The channel is closed after Close is called, the
// subscribing context ends, or the store fails (see Err).
type MessageSubscription interface {
	Updates() <-chan []*entity.Message
	Err() error
	Close()
}
