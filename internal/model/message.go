package model

import (
	"strings"
	"time"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MediaPlaceholder is stored as message content when an inbound payload
// carries only an attachment and no text.
const MediaPlaceholder = "[media message]"

// MediaRef points at an attachment hosted by the carrier.
// URL and ContentType are set together or not at all.
type MediaRef struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// IsImage reports whether the attachment can be forwarded to a
// vision-capable model.
func (m MediaRef) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// Message is one utterance within a conversation. Messages are owned by
// exactly one conversation and totally ordered by CreatedAt within it.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	// MessageSID is the carrier's correlation id; nil for messages the
	// carrier never acknowledged.
	MessageSID *string   `json:"message_sid,omitempty"`
	Direction  Direction `json:"direction"`
	Content    string    `json:"content"`
	FromNumber string    `json:"from_number"`
	ToNumber   string    `json:"to_number"`
	Status     string    `json:"status"`
	Media      *MediaRef `json:"media,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
