package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lewis.chat/gateway/common/id"
	"lewis.chat/gateway/internal/model"
)

type conversationStore struct {
	db Querier
}

// NewConversationStore creates a ConversationStore backed by Postgres.
func NewConversationStore(db Querier) ConversationStore {
	return &conversationStore{db: db}
}

func (s *conversationStore) GetOrCreate(ctx context.Context, phoneNumber string) (*model.Conversation, error) {
	// Upsert then reselect. ON CONFLICT DO NOTHING makes the create
	// race-safe: when two calls race, one insert wins, the other becomes a
	// no-op, and both reselect the surviving row.
	_, err := s.db.Exec(ctx,
		`INSERT INTO conversations (id, phone_number)
		 VALUES ($1, $2)
		 ON CONFLICT (phone_number) DO NOTHING`,
		id.New(), phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}

	conv, err := s.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("reselecting conversation: %w", err)
	}
	return conv, nil
}

func (s *conversationStore) GetByPhone(ctx context.Context, phoneNumber string) (*model.Conversation, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, phone_number, created_at, updated_at
		 FROM conversations
		 WHERE phone_number = $1`,
		phoneNumber)

	var conv model.Conversation
	if err := row.Scan(&conv.ID, &conv.PhoneNumber, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (s *conversationStore) Touch(ctx context.Context, conversationID int64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE conversations SET updated_at = now() WHERE id = $1`,
		conversationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *conversationStore) List(ctx context.Context, limit int32) ([]model.ConversationSummary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.phone_number, c.created_at, c.updated_at,
		        (SELECT COUNT(*) FROM messages WHERE conversation_id = c.id) AS message_count,
		        (SELECT content FROM messages WHERE conversation_id = c.id ORDER BY created_at DESC LIMIT 1) AS last_message
		 FROM conversations c
		 ORDER BY c.updated_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.ConversationSummary
	for rows.Next() {
		var s model.ConversationSummary
		if err := rows.Scan(&s.ID, &s.PhoneNumber, &s.CreatedAt, &s.UpdatedAt, &s.MessageCount, &s.LastMessage); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
