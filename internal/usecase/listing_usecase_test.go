package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/service"
	"foodshare/pkg/errors"
)

func TestCreateListingRecordsDonation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	donor := h.signUp(t, "Ana")

	item := h.list(t, donor, "Bread", entity.CategoryFresh)
	assert.Equal(t, entity.FoodAvailable, item.Status)
	assert.Equal(t, donor.UserID(), item.DonorID)
	assert.Equal(t, "Ana", item.DonorName)
	assert.Equal(t, service.PlaceholderImage(entity.CategoryFresh), item.ImageURL)

	dashboard, err := h.activities.Dashboard(ctx, donor)
	require.NoError(t, err)
	require.Len(t, dashboard.Donations, 1)
	require.Len(t, dashboard.Activities, 1)
	assert.Equal(t, entity.ActivityDonation, dashboard.Activities[0].Type)
	assert.Equal(t, `Donated "Bread"`, dashboard.Activities[0].Description)
}

func TestCreateListingRejectsUnknownCategory(t *testing.T) {
	h := newHarness(t)
	donor := h.signUp(t, "Ana")

	_, err := h.listings.CreateListing(context.Background(), donor, CreateListingInput{Title: "Bread", Category: "baked"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestCreateListingKeepsItemWhenActivityFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	donor := h.signUp(t, "Ana")
	h.store.FailNext("activities.Create", errors.Internal("store down", nil))

	_, err := h.listings.CreateListing(ctx, donor, CreateListingInput{Title: "Bread", Category: entity.CategoryOther})
	require.Error(t, err)

	items, err := h.store.FoodItems().ListByDonor(ctx, donor.UserID())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestBrowse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.signUp(t, "Ana")
	ben := h.signUp(t, "Ben")

	h.list(t, ana, "Sourdough Bread", entity.CategoryPrepared)
	h.list(t, ana, "Frozen peas", entity.CategoryFrozen)
	h.list(t, ben, "Ben's soup", entity.CategoryCanned)

	avg := 4.5
	require.NoError(t, h.store.Users().UpdateRatings(ctx, ana.UserID(), []int{4, 5}, nil, avg))

	listings, err := h.listings.Browse(ctx, ben, "")
	require.NoError(t, err)
	require.Len(t, listings, 2, "own items are excluded")
	for _, l := range listings {
		assert.Equal(t, 4.5, l.DonorRating)
	}

	listings, err = h.listings.Browse(ctx, ben, "BREAD")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Sourdough Bread", listings[0].Title)

	listings, err = h.listings.Browse(ctx, ben, "frozen")
	require.NoError(t, err)
	require.Len(t, listings, 1, "category matches too")

	listings, err = h.listings.Browse(ctx, ana, "")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 0.0, listings[0].DonorRating, "unrated donor joins as 0")
}

func TestBrowseSkipsReservedAndMissingDonor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.signUp(t, "Ana")
	ben := h.signUp(t, "Ben")

	item := h.list(t, ana, "Bread", entity.CategoryPrepared)
	h.list(t, ana, "Rice", entity.CategoryPackaged)
	_, err := h.reservations.Reserve(ctx, ben, item.ID)
	require.NoError(t, err)
	require.NoError(t, h.store.Users().Delete(ctx, ana.UserID()))

	listings, err := h.listings.Browse(ctx, ben, "")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Rice", listings[0].Title)
	assert.Equal(t, 0.0, listings[0].DonorRating)
}

func TestBrowseRequiresSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.listings.Browse(context.Background(), nil, "")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}
