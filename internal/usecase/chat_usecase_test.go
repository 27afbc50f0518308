package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/internal/domain/entity"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

type reservedChat struct {
	donor     *session.Session
	recipient *session.Session
	item      *entity.FoodItem
	chatID    string
}

func reserveBread(t *testing.T, h *harness) reservedChat {
	t.Helper()
	donor := h.signUp(t, "Ana")
	recipient := h.signUp(t, "Ben")
	item := h.list(t, donor, "Bread", entity.CategoryPrepared)

	result, err := h.reservations.Reserve(context.Background(), recipient, item.ID)
	require.NoError(t, err)
	return reservedChat{donor: donor, recipient: recipient, item: item, chatID: result.ChatID}
}

func TestDonationLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	item, err := h.store.FoodItems().GetByID(ctx, rc.item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FoodReserved, item.Status)

	chat, err := h.chats.GetChat(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	assert.Equal(t, entity.ChatPending, chat.Status)
	messages, err := h.chats.ListMessages(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	chat, err = h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	assert.Equal(t, entity.ChatReceived, chat.Status)

	result, err := h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 4, Comment: "thanks"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.AverageRating)

	donor, err := h.store.Users().GetByID(ctx, rc.donor.UserID())
	require.NoError(t, err)
	require.NotNil(t, donor.AverageRating)
	assert.Equal(t, 4.0, *donor.AverageRating)
	assert.Equal(t, "4.0", donor.RatingLabel())
	assert.Equal(t, []int{4}, donor.Ratings)
	require.Len(t, donor.RatingComments, 1)
	assert.Equal(t, "thanks", donor.RatingComments[0].Comment)
	assert.Equal(t, rc.recipient.UserID(), donor.RatingComments[0].UserID)
	assert.Equal(t, "Ben", donor.RatingComments[0].UserName)

	stored, err := h.store.Chats().GetByID(ctx, rc.chatID)
	require.NoError(t, err)
	assert.Equal(t, entity.ChatCompleted, stored.Status)
	assert.True(t, stored.IsRated)
}

func TestMarkReceivedRecordsActivity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	_, err := h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)

	dashboard, err := h.activities.Dashboard(ctx, rc.recipient)
	require.NoError(t, err)
	require.Len(t, dashboard.Activities, 1)
	activity := dashboard.Activities[0]
	assert.Equal(t, entity.ActivityReceived, activity.Type)
	assert.Equal(t, "Ben", activity.UserName)
	assert.Equal(t, rc.donor.UserID(), activity.TargetUserID)
	assert.Equal(t, "Ana", activity.TargetUserName)
	assert.Equal(t, "Bread", activity.FoodItemTitle)
}

func TestChatStatusNeverMovesBackwards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	_, err := h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 5})
	assert.True(t, errors.Is(err, errors.CodeConflict), "pending chats cannot be rated")

	_, err = h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	_, err = h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	_, err = h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 5})
	require.NoError(t, err)
	_, err = h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 5})
	assert.True(t, errors.Is(err, errors.CodeConflict))
	_, err = h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestOnlyRecipientAdvancesChat(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)
	outsider := h.signUp(t, "Cat")

	_, err := h.chats.MarkReceived(ctx, rc.donor, rc.chatID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = h.chats.MarkReceived(ctx, outsider, rc.chatID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = h.chats.GetChat(ctx, outsider, rc.chatID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestSubmitRatingValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)
	_, err := h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)

	for _, rating := range []int{0, 6, -1} {
		_, err := h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: rating})
		assert.True(t, errors.Is(err, errors.CodeBadRequest), "rating %d", rating)
	}
}

func TestSubmitRatingMissingDonor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)
	_, err := h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	require.NoError(t, h.store.Users().Delete(ctx, rc.donor.UserID()))

	_, err = h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 3})
	assert.True(t, errors.IsNotFound(err))

	chat, err := h.store.Chats().GetByID(ctx, rc.chatID)
	require.NoError(t, err)
	assert.Equal(t, entity.ChatReceived, chat.Status)
}

func TestSubmitRatingNotAtomic(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)
	_, err := h.chats.MarkReceived(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)

	h.store.FailNext("chats.MarkCompleted", errors.Internal("store down", nil))
	_, err = h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 2})
	require.Error(t, err)

	// the donor keeps the rating, and retrying counts it again
	_, err = h.chats.SubmitRating(ctx, rc.recipient, rc.chatID, RatingInput{Rating: 4})
	require.NoError(t, err)

	donor, err := h.store.Users().GetByID(ctx, rc.donor.UserID())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, donor.Ratings)
	assert.Equal(t, 3.0, *donor.AverageRating)
}

func TestSendMessageUpdatesLastMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	msg, err := h.chats.SendMessage(ctx, rc.donor, rc.chatID, "Pick up after 5?")
	require.NoError(t, err)
	assert.Equal(t, "Ana", msg.SenderName)

	chat, err := h.store.Chats().GetByID(ctx, rc.chatID)
	require.NoError(t, err)
	require.NotNil(t, chat.LastMessage)
	assert.Equal(t, "Pick up after 5?", chat.LastMessage.Text)

	messages, err := h.chats.ListMessages(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.True(t, messages[0].IsSystem())
	assert.Equal(t, "Pick up after 5?", messages[1].Text)

	_, err = h.chats.SendMessage(ctx, rc.donor, rc.chatID, "   ")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	limited := NewChatUseCase(h.store.Chats(), h.store.Users(), h.store.Activities(), denyAll{wait: time.Second})
	_, err = limited.SendMessage(ctx, rc.donor, rc.chatID, "hello")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
}

func TestSendMessageKeepsMessageWhenSummaryFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	h.store.FailNext("chats.UpdateLastMessage", errors.Internal("store down", nil))
	_, err := h.chats.SendMessage(ctx, rc.recipient, rc.chatID, "hello")
	require.Error(t, err)
	assert.Equal(t, 2, h.store.MessageCount(rc.chatID))
}

func TestListChatsSelectsRequestedChat(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	list, err := h.chats.ListChats(ctx, rc.donor, rc.chatID)
	require.NoError(t, err)
	require.Len(t, list.Chats, 1)
	require.NotNil(t, list.Selected)
	assert.Equal(t, rc.chatID, list.Selected.ID)

	list, err = h.chats.ListChats(ctx, rc.donor, "unknown")
	require.NoError(t, err)
	assert.Nil(t, list.Selected)
}

func TestDeleteChat(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	require.NoError(t, h.chats.DeleteChat(ctx, rc.recipient, rc.chatID))
	_, err := h.store.Chats().GetByID(ctx, rc.chatID)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 0, h.store.MessageCount(rc.chatID))
}

func TestSubscribeTranscript(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	rc := reserveBread(t, h)

	sub, err := h.chats.SubscribeTranscript(ctx, rc.recipient, rc.chatID)
	require.NoError(t, err)
	defer sub.Close()

	initial := <-sub.Updates()
	require.Len(t, initial, 1)

	_, err = h.chats.SendMessage(ctx, rc.donor, rc.chatID, "see you soon")
	require.NoError(t, err)

	select {
	case transcript := <-sub.Updates():
		require.Len(t, transcript, 2)
		assert.Equal(t, "see you soon", transcript[1].Text)
	case <-time.After(time.Second):
		t.Fatal("no transcript update")
	}

	outsider := h.signUp(t, "Cat")
	_, err = h.chats.SubscribeTranscript(ctx, outsider, rc.chatID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}
