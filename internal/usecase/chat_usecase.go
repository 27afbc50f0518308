package usecase

import (
	"context"
	"strings"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/domain/service"
	"foodshare/internal/infrastructure/ratelimit"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
	"foodshare/pkg/logger"
)

type ChatUseCase struct {
	chatRepo     repository.ChatRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	limiter      ActionLimiter
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository, activityRepo repository.ActivityRepository, limiter ActionLimiter) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:     chatRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		limiter:      limiter,
	}
}

type ChatList struct {
	Chats    []*entity.Chat `json:"chats"`
	Selected *entity.Chat   `json:"selected,omitempty"`
}

// ListChats returns every chat the session user participates in. When
// selectedID names one of them it is also returned as Selected.
func (uc *ChatUseCase) ListChats(ctx context.Context, sess *session.Session, selectedID string) (*ChatList, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	chats, err := uc.chatRepo.ListByParticipant(ctx, uid)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []*entity.Chat{}
	}

	list := &ChatList{Chats: chats}
	for _, chat := range chats {
		if selectedID != "" && chat.ID == selectedID {
			list.Selected = chat
			break
		}
	}
	return list, nil
}

func (uc *ChatUseCase) GetChat(ctx context.Context, sess *session.Session, chatID string) (*entity.Chat, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	return uc.participantChat(ctx, uid, chatID)
}

func (uc *ChatUseCase) participantChat(ctx context.Context, uid, chatID string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(uid) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}
	return chat, nil
}

// DeleteChat removes the chat document and then its messages.
func (uc *ChatUseCase) DeleteChat(ctx context.Context, sess *session.Session, chatID string) error {
	uid, _, err := requireUser(sess)
	if err != nil {
		return err
	}
	if _, err := uc.participantChat(ctx, uid, chatID); err != nil {
		return err
	}
	if err := uc.chatRepo.Delete(ctx, chatID); err != nil {
		logger.Step("delete_chat", "delete", chatID, err)
		return err
	}
	return nil
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, sess *session.Session, chatID string) ([]*entity.Message, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if _, err := uc.participantChat(ctx, uid, chatID); err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, nil
}

// SendMessage appends a message and then updates the chat's lastMessage
// summary. The message stays when the summary update fails.
func (uc *ChatUseCase) SendMessage(ctx context.Context, sess *session.Session, chatID, text string) (*entity.Message, error) {
	uid, name, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}
	if _, err := uc.participantChat(ctx, uid, chatID); err != nil {
		return nil, err
	}
	if err := checkLimit(uc.limiter, uid, ratelimit.ActionSendMessage, "Too many messages"); err != nil {
		return nil, err
	}

	message := &entity.Message{
		Text:       text,
		SenderID:   uid,
		SenderName: name,
		Timestamp:  now(),
	}
	if err := uc.chatRepo.CreateMessage(ctx, chatID, message); err != nil {
		logger.Step("send_message", "create_message", chatID, err)
		return nil, err
	}

	last := entity.LastMessage{Text: message.Text, Timestamp: message.Timestamp}
	if err := uc.chatRepo.UpdateLastMessage(ctx, chatID, last); err != nil {
		logger.Step("send_message", "last_message", chatID, err)
		return nil, err
	}
	return message, nil
}

// SubscribeTranscript opens a live, ordered view of a chat's messages. The
// caller must Close it.
func (uc *ChatUseCase) SubscribeTranscript(ctx context.Context, sess *session.Session, chatID string) (repository.MessageSubscription, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if _, err := uc.participantChat(ctx, uid, chatID); err != nil {
		return nil, err
	}
	return uc.chatRepo.SubscribeMessages(ctx, chatID)
}

// MarkReceived moves a pending chat to received on behalf of its receiver
// and records a received activity.
func (uc *ChatUseCase) MarkReceived(ctx context.Context, sess *session.Session, chatID string) (*entity.Chat, error) {
	uid, name, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	chat, err := uc.receiverChat(ctx, uid, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Status.CanAdvanceTo(entity.ChatReceived) {
		return nil, errors.Conflict("Chat cannot be marked as received from status "+string(chat.Status), nil)
	}

	if err := uc.chatRepo.UpdateStatus(ctx, chatID, entity.ChatReceived); err != nil {
		logger.Step("mark_received", "update_status", chatID, err)
		return nil, err
	}
	chat.Status = entity.ChatReceived

	activity := &entity.Activity{
		Type:           entity.ActivityReceived,
		UserID:         uid,
		UserName:       name,
		TargetUserID:   chat.DonorID,
		TargetUserName: chat.DonorName,
		FoodItemTitle:  chat.FoodItemTitle,
		Timestamp:      now(),
	}
	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		logger.Step("mark_received", "create_activity", chatID, err)
		return nil, err
	}

	return chat, nil
}

type RatingInput struct {
	Rating  int
	Comment string
}

type RatingResult struct {
	Chat          *entity.Chat `json:"chat"`
	AverageRating float64      `json:"average_rating"`
}

// SubmitRating folds the receiver's rating into the donor's profile and
// then completes the chat. The two writes are independent: the donor keeps
// the rating when completing the chat fails, and resubmitting counts it
// again.
func (uc *ChatUseCase) SubmitRating(ctx context.Context, sess *session.Session, chatID string, input RatingInput) (*RatingResult, error) {
	uid, name, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	chat, err := uc.receiverChat(ctx, uid, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Status.CanAdvanceTo(entity.ChatCompleted) {
		return nil, errors.Conflict("Chat cannot be rated from status "+string(chat.Status), nil)
	}

	donor, err := uc.userRepo.GetByID(ctx, chat.DonorID)
	if err != nil {
		logger.Step("rate", "read_donor", chat.DonorID, err)
		return nil, err
	}

	folded := service.FoldRating(donor, service.RatingSubmission{
		Rating:    input.Rating,
		Comment:   input.Comment,
		UserID:    uid,
		UserName:  name,
		CreatedAt: now(),
	})
	if err := uc.userRepo.UpdateRatings(ctx, donor.ID, folded.Ratings, folded.Comments, folded.Average); err != nil {
		logger.Step("rate", "update_donor", donor.ID, err)
		return nil, err
	}

	if err := uc.chatRepo.MarkCompleted(ctx, chatID); err != nil {
		logger.Step("rate", "complete_chat", chatID, err)
		return nil, err
	}
	chat.Status = entity.ChatCompleted
	chat.IsRated = true

	return &RatingResult{
		Chat:          chat,
		AverageRating: folded.Average,
	}, nil
}

func (uc *ChatUseCase) receiverChat(ctx context.Context, uid, chatID string) (*entity.Chat, error) {
	chat, err := uc.participantChat(ctx, uid, chatID)
	if err != nil {
		return nil, err
	}
	if chat.ReceiverID != uid {
		return nil, errors.Forbidden("Only the recipient can do this", nil)
	}
	return chat, nil
}
