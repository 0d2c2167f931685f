package service

import (
	"context"
	"fmt"

	"lewis.chat/gateway/internal/model"
	"lewis.chat/gateway/internal/store"
)

// ContextAssembler loads the bounded recent-message window for a
// conversation and renders it as an ordered turn sequence for the reply
// oracle. Read-only; it never mutates the store.
type ContextAssembler interface {
	// BuildContext returns up to windowSize turns in chronological order.
	// excludeID drops one message from the window, used to keep the
	// just-persisted inbound message out of its own context.
	BuildContext(ctx context.Context, conversationID int64, windowSize int32, excludeID int64) ([]model.Turn, error)
}

type contextAssembler struct {
	messages store.MessageStore
}

func NewContextAssembler(messages store.MessageStore) ContextAssembler {
	return &contextAssembler{messages: messages}
}

func (a *contextAssembler) BuildContext(ctx context.Context, conversationID int64, windowSize int32, excludeID int64) ([]model.Turn, error) {
	// Fetch one extra so the excluded message doesn't shrink the window.
	recent, err := a.messages.ListRecent(ctx, conversationID, windowSize+1)
	if err != nil {
		return nil, fmt.Errorf("loading context window: %w", err)
	}

	// recent is most-recent-first; walk it backwards to emit chronological
	// turns, skipping the excluded message.
	turns := make([]model.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].ID == excludeID {
			continue
		}
		turns = append(turns, model.TurnFromMessage(recent[i]))
	}

	if int32(len(turns)) > windowSize {
		turns = turns[int32(len(turns))-windowSize:]
	}
	return turns, nil
}
