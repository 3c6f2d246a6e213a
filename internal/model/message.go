package model

import "time"

// Message is a note from one user to another about a specific item.
type Message struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SenderName   string `json:"sender_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
	ItemTitle    string `json:"item_title,omitempty"`
}
