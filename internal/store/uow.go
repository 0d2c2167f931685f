package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"lewis.chat/gateway/core/db"
)

// UnitOfWork runs a function with stores bound to a single transaction.
// Either every write inside the function commits or none do.
type UnitOfWork interface {
	InTx(ctx context.Context, fn func(conversations ConversationStore, messages MessageStore) error) error
}

type txRunner struct {
	db *db.DB
}

func NewUnitOfWork(database *db.DB) UnitOfWork {
	return &txRunner{db: database}
}

func (r *txRunner) InTx(ctx context.Context, fn func(ConversationStore, MessageStore) error) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(NewConversationStore(tx), NewMessageStore(tx))
	})
}
