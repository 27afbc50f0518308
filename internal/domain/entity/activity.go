package entity

import "time"

type ActivityType string

const (
	ActivityDonation ActivityType = "donation"
	ActivityReceived ActivityType = "received"
)

// Activity is an append-only audit record scoped to UserID.
type Activity struct {
	ID             string       `json:"id" firestore:"-"`
	Type           ActivityType `json:"type" firestore:"type"`
	UserID         string       `json:"user_id" firestore:"userId"`
	UserName       string       `json:"user_name,omitempty" firestore:"userName,omitempty"`
	Description    string       `json:"description,omitempty" firestore:"description,omitempty"`
	TargetUserID   string       `json:"target_user_id,omitempty" firestore:"targetUserId,omitempty"`
	TargetUserName string       `json:"target_user_name,omitempty" firestore:"targetUserName,omitempty"`
	FoodItemTitle  string       `json:"food_item_title,omitempty" firestore:"foodItemTitle,omitempty"`
	Timestamp      time.Time    `json:"timestamp" firestore:"timestamp"`
}
