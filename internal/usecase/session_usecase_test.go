package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/internal/domain/entity"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

func TestAuthenticateHydratesProfile(t *testing.T) {
	h := newHarness(t)
	sess := h.signUp(t, "Ana")

	assert.False(t, sess.IsLoading())
	user := sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana Street 1", user.Location.Address)
}

func TestHydrateFallsBackWithoutProfile(t *testing.T) {
	h := newHarness(t)

	sess := h.sessions.Hydrate(context.Background(), &session.Identity{UID: "ghost", Email: "ghost@example.com", DisplayName: "Ghost"})
	user := sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "ghost", user.ID)
	assert.Equal(t, "Ghost", user.Name)
	assert.Equal(t, "ghost@example.com", user.Email)
	assert.Empty(t, user.Location.Address)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.sessions.Authenticate(context.Background(), "")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = h.sessions.Authenticate(context.Background(), "token-nobody")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestLogoutDeniesTokenAndClearsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sess := h.signUp(t, "Ana")
	token := sess.Identity().Token
	uid := sess.UserID()

	require.NoError(t, h.sessions.Logout(ctx, sess))
	assert.Nil(t, sess.CurrentUser())
	assert.Equal(t, 1, h.identity.revoked[uid])

	_, err := h.sessions.Authenticate(ctx, token)
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	assert.True(t, errors.Is(h.sessions.Logout(ctx, sess), errors.CodeUnauthorized))
}

func TestDeleteAccountCascade(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	donor := h.signUp(t, "Ana")
	recipient := h.signUp(t, "Ben")
	other := h.signUp(t, "Cat")

	own := h.list(t, donor, "Bread", entity.CategoryPrepared)
	reserved, err := h.reservations.Reserve(ctx, recipient, own.ID)
	require.NoError(t, err)

	// donor is only the receiver on this chat, so it survives the cascade
	foreign := h.list(t, other, "Soup", entity.CategoryCanned)
	counterpart, err := h.reservations.Reserve(ctx, donor, foreign.ID)
	require.NoError(t, err)

	donorID := donor.UserID()
	require.NoError(t, h.sessions.DeleteAccount(ctx, donor))
	assert.Nil(t, donor.CurrentUser())

	_, err = h.store.FoodItems().GetByID(ctx, own.ID)
	assert.True(t, errors.IsNotFound(err))
	_, err = h.store.Chats().GetByID(ctx, reserved.ChatID)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, h.store.MessageCount(reserved.ChatID), "messages of deleted chats remain")

	activities, err := h.store.Activities().ListByUser(ctx, donorID)
	require.NoError(t, err)
	assert.Empty(t, activities)
	reservations, err := h.store.Reservations().ListByUser(ctx, donorID)
	require.NoError(t, err)
	assert.Empty(t, reservations)

	_, err = h.store.Users().GetByID(ctx, donorID)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, []string{donorID}, h.identity.deleted)

	residual, err := h.store.Chats().GetByID(ctx, counterpart.ChatID)
	require.NoError(t, err)
	assert.Equal(t, donorID, residual.ReceiverID)
	stillThere, err := h.store.FoodItems().GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, donorID, stillThere.ReservedBy)
}

func TestDeleteAccountStopsAtFirstFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	donor := h.signUp(t, "Ana")
	item := h.list(t, donor, "Bread", entity.CategoryPrepared)

	h.store.FailNext("activities.DeleteByUser", errors.Internal("store down", nil))
	err := h.sessions.DeleteAccount(ctx, donor)
	require.Error(t, err)

	_, err = h.store.FoodItems().GetByID(ctx, item.ID)
	assert.True(t, errors.IsNotFound(err), "earlier steps stay applied")
	_, err = h.store.Users().GetByID(ctx, donor.UserID())
	assert.NoError(t, err, "later steps never ran")
	assert.NotNil(t, donor.CurrentUser())
	assert.Empty(t, h.identity.deleted)
}
