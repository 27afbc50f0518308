package entity

import "time"

type ChatStatus string

const (
	ChatPending   ChatStatus = "pending"
	ChatReceived  ChatStatus = "received"
	ChatCompleted ChatStatus = "completed"
)

// CanAdvanceTo reports whether next is the single forward step from s.
// There is no transition backwards.
func (s ChatStatus) CanAdvanceTo(next ChatStatus) bool {
	switch s {
	case ChatPending:
		return next == ChatReceived
	case ChatReceived:
		return next == ChatCompleted
	}
	return false
}

type LastMessage struct {
	Text      string    `json:"text" firestore:"text"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

type Chat struct {
	ID            string `json:"id" firestore:"-"`
	FoodItemID    string `json:"food_item_id" firestore:"foodItemId"`
	FoodItemTitle string `json:"food_item_title" firestore:"foodItemTitle"`
	DonorID       string `json:"donor_id" firestore:"donorId"`
	DonorName     string `json:"donor_name" firestore:"donorName"`
	ReceiverID    string `json:"receiver_id" firestore:"receiverId"`
	ReceiverName  string `json:"receiver_name" firestore:"receiverName"`
	// Membership index queried as participants.<uid> == true.
	Participants map[string]bool `json:"participants" firestore:"participants"`
	Status       ChatStatus      `json:"status" firestore:"status"`
	IsRated      bool            `json:"is_rated" firestore:"isRated"`
	LastMessage  *LastMessage    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	CreatedAt    time.Time       `json:"created_at" firestore:"createdAt"`
}

func ParticipantsOf(donorID, receiverID string) map[string]bool {
	return map[string]bool{
		donorID:    true,
		receiverID: true,
	}
}

func (c *Chat) HasParticipant(userID string) bool {
	return userID != "" && c.Participants[userID]
}
