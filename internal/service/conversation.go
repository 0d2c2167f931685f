package service

import (
	"context"
	"errors"
	"fmt"

	"lewis.chat/gateway/internal/model"
	"lewis.chat/gateway/internal/store"
)

// ConversationService exposes conversation reads for the API surface.
type ConversationService interface {
	// List returns conversations by last activity, newest first.
	List(ctx context.Context, limit int32) ([]model.ConversationSummary, error)
	// History resolves a conversation by raw sender address and returns its
	// last limit messages in chronological order. Returns ErrNotFound for
	// unknown senders; reads never create conversations.
	History(ctx context.Context, address string, limit int32) (*model.Conversation, []model.Message, error)
}

type conversationService struct {
	conversations store.ConversationStore
	messages      store.MessageStore
}

func NewConversationService(conversations store.ConversationStore, messages store.MessageStore) ConversationService {
	return &conversationService{conversations: conversations, messages: messages}
}

func (s *conversationService) List(ctx context.Context, limit int32) ([]model.ConversationSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	summaries, err := s.conversations.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return summaries, nil
}

func (s *conversationService) History(ctx context.Context, address string, limit int32) (*model.Conversation, []model.Message, error) {
	sender := model.ParseAddress(address)
	if !sender.Valid() {
		return nil, nil, fmt.Errorf("%w: address %q", ErrValidation, address)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	conv, err := s.conversations.GetByPhone(ctx, sender.Number)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("looking up conversation: %w", err)
	}

	recent, err := s.messages.ListRecent(ctx, conv.ID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("loading history: %w", err)
	}

	// ListRecent is newest-first; flip to chronological for the caller.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return conv, recent, nil
}
