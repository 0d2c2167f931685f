// Package admission bounds the rate of inbound processing per sender
// identity with a process-local sliding window. Denials are cheap and
// stateless from the caller's view: the limiter never blocks and never
// fails, it only answers yes or no.
package admission

import (
	"sync"
	"time"

	"lewis.chat/gateway/core/config"
)

// Limiter counts admitted requests per identity inside a sliding window.
// Safe for concurrent use; a single mutex guards the map since per-identity
// contention is low.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string][]time.Time
	maxRequests int
	window      time.Duration
	// maxIdentities triggers a full sweep of expired windows; keeps memory
	// bounded when many one-off senders appear.
	maxIdentities int
	now           func() time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock injects the time source. Tests use this to simulate window
// expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter from config.
func New(cfg config.AdmissionConfig, opts ...Option) *Limiter {
	l := &Limiter{
		windows:       make(map[string][]time.Time),
		maxRequests:   cfg.MaxRequests,
		window:        cfg.Window,
		maxIdentities: cfg.MaxIdentities,
		now:           time.Now,
	}
	if l.maxRequests <= 0 {
		l.maxRequests = 5
	}
	if l.window <= 0 {
		l.window = time.Minute
	}
	if l.maxIdentities <= 0 {
		l.maxIdentities = 1000
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records and admits the request unless the identity already has
// maxRequests admitted inside the current window. Denied requests are not
// recorded. The window boundary is exclusive: an entry exactly window old
// is evicted.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := keepRecent(l.windows[identity], now, l.window)

	if len(recent) >= l.maxRequests {
		l.windows[identity] = recent
		return false
	}

	l.windows[identity] = append(recent, now)

	if len(l.windows) > l.maxIdentities {
		l.sweepLocked(now)
	}

	return true
}

// Remaining reports how many more requests the identity may make in the
// current window. Read-only; does not record.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := keepRecent(l.windows[identity], l.now(), l.window)
	if len(recent) >= l.maxRequests {
		return 0
	}
	return l.maxRequests - len(recent)
}

// sweepLocked drops identities whose windows are entirely expired.
// Caller holds the mutex.
func (l *Limiter) sweepLocked(now time.Time) {
	for identity, stamps := range l.windows {
		recent := keepRecent(stamps, now, l.window)
		if len(recent) == 0 {
			delete(l.windows, identity)
		} else {
			l.windows[identity] = recent
		}
	}
}

func keepRecent(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	// Timestamps are appended in order, so find the first still-recent one
	// and keep the tail.
	for i, ts := range stamps {
		if now.Sub(ts) < window {
			return stamps[i:]
		}
	}
	return nil
}
