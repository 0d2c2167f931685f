package carrier

import (
	"context"
	"errors"

	"lewis.chat/gateway/internal/model"
)

// Delivery failures, distinguished so the orchestrator can decide what is
// retryable. The gateway itself never retries.
var (
	// ErrInvalidAddress marks a malformed destination. Caller error, never
	// retried.
	ErrInvalidAddress = errors.New("invalid destination address")
	// ErrAuth marks rejected carrier credentials.
	ErrAuth = errors.New("carrier authentication failed")
	// ErrTransient marks a carrier outage; the outer request may be
	// retried by the carrier's webhook redelivery.
	ErrTransient = errors.New("carrier temporarily unavailable")
)

// Receipt is the carrier's acknowledgment of an accepted outbound message.
type Receipt struct {
	SID    string // carrier correlation id
	Status string // free-form carrier status ("queued", "sent", ...)
	From   string // resolved sender address in wire format
}

// StatusReport is the delivery state of a previously sent message.
type StatusReport struct {
	Status       string
	ErrorCode    *int
	ErrorMessage *string
}

// Balance is the carrier account balance.
type Balance struct {
	Amount   string
	Currency string
}

// Gateway sends outbound messages through the carrier. Implementations
// resolve the correct sender address and channel prefix from the
// destination's channel tag, so replies always travel back on the channel
// the inbound message used.
type Gateway interface {
	Deliver(ctx context.Context, to model.Address, text string, media *model.MediaRef) (Receipt, error)
	MessageStatus(ctx context.Context, sid string) (StatusReport, error)
	AccountBalance(ctx context.Context) (Balance, error)
}
