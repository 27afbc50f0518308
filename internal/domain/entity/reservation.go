package entity

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationCollected ReservationStatus = "collected"
	ReservationCanceled  ReservationStatus = "canceled"
)

// Reservation links a recipient (UserID) to a food item pickup.
type Reservation struct {
	ID            string            `json:"id" firestore:"-"`
	FoodItemID    string            `json:"food_item_id" firestore:"foodItemId"`
	FoodItemTitle string            `json:"food_item_title" firestore:"foodItemTitle"`
	UserID        string            `json:"user_id" firestore:"userId"`
	UserName      string            `json:"user_name" firestore:"userName"`
	DonorID       string            `json:"donor_id" firestore:"donorId"`
	DonorName     string            `json:"donor_name" firestore:"donorName"`
	Status        ReservationStatus `json:"status" firestore:"status"`
	CreatedAt     time.Time         `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time         `json:"updated_at" firestore:"updatedAt"`
}
