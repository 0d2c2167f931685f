package llm

import (
	"context"
	"errors"

	"lewis.chat/gateway/internal/model"
)

// Classified oracle failures. The orchestrator treats all of them as
// recoverable and substitutes the degraded reply; the distinction exists for
// logging and for callers that want to back off.
var (
	ErrRateLimited  = errors.New("oracle rate limited")
	ErrUnauthorized = errors.New("oracle unauthorized")
	ErrTransient    = errors.New("oracle temporarily unavailable")
)

// Request is one generation call: the current user message plus the bounded
// chronological context window preceding it.
type Request struct {
	Prompt  string
	Context []model.Turn
	// Media is forwarded as an image part when it references an image the
	// model can see. Non-image attachments are represented by the prompt
	// text only.
	Media *model.MediaRef
}

// Oracle generates a reply for an inbound message. Implementations are
// stateless request/response clients; conversation memory lives entirely in
// the context window.
type Oracle interface {
	Generate(ctx context.Context, req Request) (string, error)
}
