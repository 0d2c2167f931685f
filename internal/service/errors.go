package service

import "errors"

var (
	// ErrValidation marks a malformed inbound payload or destination.
	// Caller error; never retried.
	ErrValidation = errors.New("validation failed")
	// ErrRateLimited marks an admission denial. The caller should back off.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrDeliveryFailed marks a reply that could not be handed to the
	// carrier. The inbound message stays persisted; a best-effort apology
	// was already attempted.
	ErrDeliveryFailed = errors.New("reply delivery failed")
	// ErrNotFound marks a lookup for an entity that does not exist.
	ErrNotFound = errors.New("not found")
)
