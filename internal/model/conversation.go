package model

import "time"

// Conversation is the durable record for one conversation partner.
// PhoneNumber holds the normalized sender identity and is unique.
type Conversation struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConversationSummary is a conversation annotated with denormalized read
// fields for list views. Computed at query time, never stored.
type ConversationSummary struct {
	Conversation
	MessageCount int64   `json:"message_count"`
	LastMessage  *string `json:"last_message,omitempty"`
}
