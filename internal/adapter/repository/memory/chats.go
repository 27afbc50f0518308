package memory

import (
	"context"
	"sort"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

type chatRepository struct{ s *Store }

func (r *chatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("chats.Create"); err != nil {
		return err
	}
	chat.ID = newID()
	r.s.chats[chat.ID] = copyChat(*chat)
	return nil
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	chat, ok := r.s.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	chat = copyChat(chat)
	return &chat, nil
}

func (r *chatRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var chats []*entity.Chat
	for _, chat := range r.s.chats {
		if chat.Participants[userID] {
			chat := copyChat(chat)
			chats = append(chats, &chat)
		}
	}
	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].ID < chats[j].ID
		}
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
	return chats, nil
}

func (r *chatRepository) UpdateStatus(ctx context.Context, id string, status entity.ChatStatus) error {
	return r.update("chats.UpdateStatus", id, func(chat *entity.Chat) {
		chat.Status = status
	})
}

func (r *chatRepository) MarkCompleted(ctx context.Context, id string) error {
	return r.update("chats.MarkCompleted", id, func(chat *entity.Chat) {
		chat.Status = entity.ChatCompleted
		chat.IsRated = true
	})
}

func (r *chatRepository) UpdateLastMessage(ctx context.Context, id string, last entity.LastMessage) error {
	return r.update("chats.UpdateLastMessage", id, func(chat *entity.Chat) {
		chat.LastMessage = &last
	})
}

func (r *chatRepository) update(op, id string, apply func(*entity.Chat)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(op); err != nil {
		return err
	}
	chat, ok := r.s.chats[id]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	apply(&chat)
	r.s.chats[id] = chat
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("chats.Delete"); err != nil {
		return err
	}
	delete(r.s.chats, id)
	delete(r.s.messages, id)
	r.s.publish(id)
	return nil
}

func (r *chatRepository) DeleteByDonor(ctx context.Context, donorID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("chats.DeleteByDonor"); err != nil {
		return 0, err
	}
	n := 0
	for id, chat := range r.s.chats {
		if chat.DonorID == donorID {
			delete(r.s.chats, id)
			n++
		}
	}
	return n, nil
}

// CreateMessage does not require the chat document to exist, matching a
// subcollection write.
func (r *chatRepository) CreateMessage(ctx context.Context, chatID string, message *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("chats.CreateMessage"); err != nil {
		return err
	}
	message.ID = newID()
	r.s.appendMessage(chatID, *message)
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.transcript(chatID), nil
}

func (r *chatRepository) SubscribeMessages(ctx context.Context, chatID string) (repository.MessageSubscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		chatID:  chatID,
		updates: make(chan []*entity.Message, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	r.s.mu.Lock()
	if r.s.subscribers[chatID] == nil {
		r.s.subscribers[chatID] = make(map[*subscription]struct{})
	}
	r.s.subscribers[chatID][sub] = struct{}{}
	sub.deliver(r.s.transcript(chatID))
	r.s.mu.Unlock()

	go func() {
		<-subCtx.Done()
		r.s.mu.Lock()
		delete(r.s.subscribers[chatID], sub)
		if len(r.s.subscribers[chatID]) == 0 {
			delete(r.s.subscribers, chatID)
		}
		close(sub.updates)
		r.s.mu.Unlock()
		close(sub.done)
	}()

	return sub, nil
}

// appendMessage keeps the transcript ordered by timestamp and must be
// called with s.mu held for writing.
func (s *Store) appendMessage(chatID string, message entity.Message) {
	messages := append(s.messages[chatID], message)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	s.messages[chatID] = messages
	s.publish(chatID)
}

func (s *Store) publish(chatID string) {
	if len(s.subscribers[chatID]) == 0 {
		return
	}
	for sub := range s.subscribers[chatID] {
		sub.deliver(s.transcript(chatID))
	}
}

func (s *Store) transcript(chatID string) []*entity.Message {
	stored := s.messages[chatID]
	messages := make([]*entity.Message, len(stored))
	for i := range stored {
		m := stored[i]
		messages[i] = &m
	}
	return messages
}

type subscription struct {
	chatID  string
	updates chan []*entity.Message
	cancel  context.CancelFunc
	done    chan struct{}
}

// deliver replaces any transcript the reader has not picked up yet. It is
// only called with the store lock held, so there is a single sender.
func (sub *subscription) deliver(messages []*entity.Message) {
	select {
	case <-sub.updates:
	default:
	}
	sub.updates <- messages
}

func (sub *subscription) Updates() <-chan []*entity.Message {
	return sub.updates
}

func (sub *subscription) Err() error {
	return nil
}

func (sub *subscription) Close() {
	sub.cancel()
	<-sub.done
}
