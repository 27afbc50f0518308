package repository

import (
	"context"
	"log"
	"sort"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) chats() *firestore.CollectionRef {
	return r.client.Collection(chatsCollection)
}

func (r *firestoreChatRepository) messages(chatID string) *firestore.CollectionRef {
	return r.chats().Doc(chatID).Collection(messagesCollection)
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	ref := r.chats().NewDoc()
	if _, err := ref.Create(ctx, chat); err != nil {
		return errors.Internal("Failed to create chat", err)
	}
	chat.ID = ref.ID
	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.chats().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID

	return &chat, nil
}

func (r *firestoreChatRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error) {
	query := r.chats().WherePath(firestore.FieldPath{"participants", userID}, "==", true)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var chats []*entity.Chat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while fetching chats for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to fetch chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			log.Printf("Error parsing chat %s for user %s: %v", doc.Ref.ID, userID, err)
			continue
		}
		chat.ID = doc.Ref.ID
		chats = append(chats, &chat)
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
	return chats, nil
}

func (r *firestoreChatRepository) UpdateStatus(ctx context.Context, id string, status entity.ChatStatus) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "status", Value: string(status)},
	})
}

func (r *firestoreChatRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "status", Value: string(entity.ChatCompleted)},
		{Path: "isRated", Value: true},
	})
}

func (r *firestoreChatRepository) UpdateLastMessage(ctx context.Context, id string, last entity.LastMessage) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "lastMessage", Value: last},
	})
}

func (r *firestoreChatRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	if _, err := r.chats().Doc(id).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to update chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.chats().Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete chat", err)
	}
	if _, err := deleteAll(ctx, r.messages(id).Documents(ctx)); err != nil {
		return errors.Internal("Failed to delete chat messages", err)
	}
	return nil
}

func (r *firestoreChatRepository) DeleteByDonor(ctx context.Context, donorID string) (int, error) {
	n, err := deleteAll(ctx, r.chats().Where("donorId", "==", donorID).Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to delete chats", err)
	}
	return n, nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, chatID string, message *entity.Message) error {
	ref := r.messages(chatID).NewDoc()
	if _, err := ref.Create(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	message.ID = ref.ID
	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string) ([]*entity.Message, error) {
	messages, err := readMessages(r.messages(chatID).OrderBy("timestamp", firestore.Asc).Documents(ctx))
	if err != nil {
		log.Printf("Firestore error while listing messages for chat %s: %v", chatID, err)
		return nil, errors.Internal("Failed to list messages", err)
	}
	return messages, nil
}

func (r *firestoreChatRepository) SubscribeMessages(ctx context.Context, chatID string) (repository.MessageSubscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &snapshotSubscription{
		updates: make(chan []*entity.Message, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	it := r.messages(chatID).OrderBy("timestamp", firestore.Asc).Snapshots(subCtx)
	go sub.run(subCtx, chatID, it)

	return sub, nil
}

// snapshotSubscription forwards query snapshots as full transcripts. A
// slow reader only ever sees the most recent transcript.
type snapshotSubscription struct {
	updates chan []*entity.Message
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

func (s *snapshotSubscription) run(ctx context.Context, chatID string, it *firestore.QuerySnapshotIterator) {
	defer close(s.done)
	defer close(s.updates)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if err != iterator.Done && ctx.Err() == nil && status.Code(err) != codes.Canceled {
				log.Printf("Message subscription for chat %s failed: %v", chatID, err)
				s.setErr(errors.Internal("Message subscription failed", err))
			}
			return
		}

		messages, err := readMessages(snap.Documents)
		if err != nil {
			log.Printf("Message subscription for chat %s failed: %v", chatID, err)
			s.setErr(errors.Internal("Message subscription failed", err))
			return
		}

		select {
		case <-s.updates:
		default:
		}
		s.updates <- messages
	}
}

func (s *snapshotSubscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *snapshotSubscription) Updates() <-chan []*entity.Message {
	return s.updates
}

func (s *snapshotSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *snapshotSubscription) Close() {
	s.cancel()
	<-s.done
}
