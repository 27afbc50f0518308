package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodshare/internal/domain/entity"
)

func TestFoldRatingFirstRating(t *testing.T) {
	donor := &entity.User{ID: "donor-a"}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	folded := FoldRating(donor, RatingSubmission{
		Rating:    4,
		Comment:   "thanks",
		UserID:    "recipient-b",
		UserName:  "B",
		CreatedAt: at,
	})

	assert.Equal(t, []int{4}, folded.Ratings)
	assert.Equal(t, 4.0, folded.Average)
	require.Len(t, folded.Comments, 1)
	assert.Equal(t, entity.RatingComment{Rating: 4, Comment: "thanks", UserID: "recipient-b", UserName: "B", CreatedAt: at}, folded.Comments[0])
	assert.Empty(t, donor.Ratings, "input must not be mutated")
}

func TestFoldRatingRecomputesMean(t *testing.T) {
	donor := &entity.User{
		Ratings:        []int{5, 2},
		RatingComments: []entity.RatingComment{{Rating: 5}, {Rating: 2}},
	}

	folded := FoldRating(donor, RatingSubmission{Rating: 5})

	assert.Equal(t, []int{5, 2, 5}, folded.Ratings)
	assert.Len(t, folded.Comments, 3)
	assert.Equal(t, 4.0, folded.Average)
}

func TestFoldRatingIsNotIdempotent(t *testing.T) {
	donor := &entity.User{Ratings: []int{2}}
	sub := RatingSubmission{Rating: 4, UserID: "b"}

	first := FoldRating(donor, sub)
	donor.Ratings = first.Ratings
	second := FoldRating(donor, sub)

	assert.Equal(t, []int{2, 4, 4}, second.Ratings)
	assert.InDelta(t, 10.0/3.0, second.Average, 1e-9)
}

func TestAverage(t *testing.T) {
	_, ok := Average(nil)
	assert.False(t, ok)

	avg, ok := Average([]int{1, 2, 3, 4})
	assert.True(t, ok)
	assert.Equal(t, 2.5, avg)
}

func TestPlaceholderImage(t *testing.T) {
	assert.Contains(t, PlaceholderImage(entity.CategoryFresh), "1508666")
	assert.Equal(t, defaultFoodImage, PlaceholderImage(entity.CategoryOther))
	assert.Equal(t, defaultFoodImage, PlaceholderImage("unknown"))
}
