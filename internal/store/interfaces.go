package store

import (
	"context"
	"errors"

	"lewis.chat/gateway/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ConversationStore defines the contract for conversation data access.
type ConversationStore interface {
	// GetOrCreate resolves the conversation for a normalized phone number,
	// creating it if absent. Safe under concurrent calls for the same
	// number: the unique constraint guarantees a single row and every
	// caller observes it.
	GetOrCreate(ctx context.Context, phoneNumber string) (*model.Conversation, error)
	// GetByPhone looks up a conversation without creating one.
	GetByPhone(ctx context.Context, phoneNumber string) (*model.Conversation, error)
	// Touch bumps the conversation's last-activity timestamp.
	Touch(ctx context.Context, id int64) error
	// List returns conversations by last activity descending, annotated
	// with message count and most recent message content.
	List(ctx context.Context, limit int32) ([]model.ConversationSummary, error)
}

// MessageStore defines the contract for message data access.
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	// ListRecent returns up to limit messages for a conversation, most
	// recent first. Callers needing chronological order reverse the slice.
	ListRecent(ctx context.Context, conversationID int64, limit int32) ([]model.Message, error)
}

// Stores bundles all store implementations behind one constructor.
type Stores struct {
	conversations ConversationStore
	messages      MessageStore
}

func NewStores(pool Querier) *Stores {
	return &Stores{
		conversations: NewConversationStore(pool),
		messages:      NewMessageStore(pool),
	}
}

func (s *Stores) Conversations() ConversationStore { return s.conversations }
func (s *Stores) Messages() MessageStore           { return s.messages }
