package service

import (
	"time"

	"foodshare/internal/domain/entity"
)

// RatingSubmission is one recipient's rating of a donor.
type RatingSubmission struct {
	Rating    int
	Comment   string
	UserID    string
	UserName  string
	CreatedAt time.Time
}

// FoldedRatings is the donor state to write back after a submission.
type FoldedRatings struct {
	Ratings  []int
	Comments []entity.RatingComment
	Average  float64
}

// FoldRating appends a submission to the donor's existing ratings and
// recomputes the arithmetic mean. It does not deduplicate: folding the
// same submission twice counts it twice.
func FoldRating(donor *entity.User, sub RatingSubmission) FoldedRatings {
	ratings := make([]int, 0, len(donor.Ratings)+1)
	ratings = append(ratings, donor.Ratings...)
	ratings = append(ratings, sub.Rating)

	comments := make([]entity.RatingComment, 0, len(donor.RatingComments)+1)
	comments = append(comments, donor.RatingComments...)
	comments = append(comments, entity.RatingComment{
		Rating:    sub.Rating,
		Comment:   sub.Comment,
		UserID:    sub.UserID,
		UserName:  sub.UserName,
		CreatedAt: sub.CreatedAt,
	})

	avg, _ := Average(ratings)
	return FoldedRatings{
		Ratings:  ratings,
		Comments: comments,
		Average:  avg,
	}
}

// Average returns the mean of ratings and false when there are none.
func Average(ratings []int) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), true
}
