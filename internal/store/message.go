package store

import (
	"context"
	"fmt"

	"lewis.chat/gateway/common/id"
	"lewis.chat/gateway/internal/model"
)

type messageStore struct {
	db Querier
}

// NewMessageStore creates a MessageStore backed by Postgres.
func NewMessageStore(db Querier) MessageStore {
	return &messageStore{db: db}
}

func (s *messageStore) Create(ctx context.Context, msg *model.Message) error {
	if msg.ID == 0 {
		msg.ID = id.New()
	}

	var mediaURL, mediaType *string
	if msg.Media != nil {
		mediaURL = &msg.Media.URL
		mediaType = &msg.Media.ContentType
	}

	// created_at is store-assigned: ordering within a conversation follows
	// the database clock, not request arrival order.
	row := s.db.QueryRow(ctx,
		`INSERT INTO messages
		   (id, conversation_id, message_sid, direction, content, from_number, to_number, status, media_url, media_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		msg.ID, msg.ConversationID, msg.MessageSID, msg.Direction, msg.Content,
		msg.FromNumber, msg.ToNumber, msg.Status, mediaURL, mediaType)

	if err := row.Scan(&msg.CreatedAt); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (s *messageStore) ListRecent(ctx context.Context, conversationID int64, limit int32) ([]model.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, conversation_id, message_sid, direction, content,
		        from_number, to_number, status, media_url, media_type, created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var (
			msg                 model.Message
			mediaURL, mediaType *string
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.MessageSID, &msg.Direction,
			&msg.Content, &msg.FromNumber, &msg.ToNumber, &msg.Status,
			&mediaURL, &mediaType, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if mediaURL != nil && mediaType != nil {
			msg.Media = &model.MediaRef{URL: *mediaURL, ContentType: *mediaType}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
