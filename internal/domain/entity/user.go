package entity

import (
	"fmt"
	"time"
)

const NoRatingsLabel = "No ratings yet"

type Coordinates struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

type Location struct {
	Address     string       `json:"address" firestore:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty" firestore:"coordinates,omitempty"`
}

// RatingComment is the record appended to a donor's profile for every
// rating a recipient submits.
type RatingComment struct {
	Rating    int       `json:"rating" firestore:"rating"`
	Comment   string    `json:"comment" firestore:"comment"`
	UserID    string    `json:"user_id" firestore:"userId"`
	UserName  string    `json:"user_name" firestore:"userName"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type User struct {
	ID          string    `json:"id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Email       string    `json:"email" firestore:"email"`
	Location    Location  `json:"location" firestore:"location"`
	PhoneNumber string    `json:"phone_number" firestore:"phoneNumber"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`

	Ratings        []int           `json:"ratings,omitempty" firestore:"ratings,omitempty"`
	RatingComments []RatingComment `json:"rating_comments,omitempty" firestore:"ratingComments,omitempty"`
	// Absent until the first rating is submitted.
	AverageRating *float64 `json:"average_rating,omitempty" firestore:"averageRating,omitempty"`
}

// RatingLabel renders the average the way the profile page shows it.
func (u *User) RatingLabel() string {
	if u.AverageRating == nil {
		return NoRatingsLabel
	}
	return fmt.Sprintf("%.1f", *u.AverageRating)
}

// AverageOrZero is the value joined onto listings when browsing.
func (u *User) AverageOrZero() float64 {
	if u == nil || u.AverageRating == nil {
		return 0
	}
	return *u.AverageRating
}
