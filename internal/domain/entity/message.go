package entity

import "time"

const (
	SystemSenderID   = "system"
	SystemSenderName = "System"
)

type Message struct {
	ID         string    `json:"id" firestore:"-"`
	Text       string    `json:"text" firestore:"text"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	SenderName string    `json:"sender_name" firestore:"senderName"`
	Timestamp  time.Time `json:"timestamp" firestore:"timestamp"`
}

func (m *Message) IsSystem() bool {
	return m.SenderID == SystemSenderID
}

func NewSystemMessage(text string, at time.Time) *Message {
	return &Message{
		Text:       text,
		SenderID:   SystemSenderID,
		SenderName: SystemSenderName,
		Timestamp:  at,
	}
}
