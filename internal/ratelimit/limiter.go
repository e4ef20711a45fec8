// Package ratelimit provides request admission control over fixed time
// windows. Limiters are non-blocking: CheckAndConsume returns a definite
// verdict immediately and a denial is terminal for that request.
package ratelimit

import (
	"context"

	"github.com/davidbz/howl/internal/observability"
)

// Limiter enforces one admission window over a counter store. Multiple
// limiters may be chained by the caller; a request must pass all of them.
type Limiter struct {
	prefix string
	window Window
	store  Store
}

// New creates a limiter. The prefix scopes counters to a route (or to the
// whole process for a global limiter) so independent windows do not share
// counts for the same identity.
func New(prefix string, window Window, store Store) *Limiter {
	return &Limiter{
		prefix: prefix,
		window: window,
		store:  store,
	}
}

// CheckAndConsume decides whether a request from identity may proceed and, if
// so, consumes one slot. The counter is incremented before the verdict is
// computed, so two concurrent requests cannot both observe "not yet at limit"
// and slip past the ceiling together.
func (l *Limiter) CheckAndConsume(ctx context.Context, identity string) bool {
	if l.window.Max <= 0 {
		return true
	}

	count, err := l.store.Incr(ctx, l.prefix+":"+identity, l.window.Interval)
	if err != nil {
		// The store is advisory infrastructure; an unreachable shared store
		// must not take the relay down with it.
		observability.FromContext(ctx).Warn("rate limit store failed, admitting request",
			observability.Error(err),
			observability.String("limiter", l.prefix),
		)
		return true
	}

	return count <= l.window.Max
}
