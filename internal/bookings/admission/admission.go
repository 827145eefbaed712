// Package admission gates booking mutations with a fixed-window rate
// limiter keyed by client identity. Fixed windows are intentionally
// approximate: a client can burst up to twice the limit across a window
// boundary, an accepted tradeoff for the simplicity of a single counter
// per key.
package admission

import (
	"time"

	"hearth/pkg/logger"
)

type Decision struct {
	Allowed bool
	// RetryAfter is how long the caller should wait before the current
	// window elapses. Zero when allowed.
	RetryAfter time.Duration
}

type Controller struct {
	store  CounterStore
	limit  int
	window time.Duration
	log    *logger.Logger
}

func NewController(store CounterStore, limit int, window time.Duration, log *logger.Logger) *Controller {
	return &Controller{
		store:  store,
		limit:  limit,
		window: window,
		log:    log,
	}
}

// Admit counts one request for clientKey and decides whether it may
// proceed. The first request over the limit within a window is denied, and
// every further one until the window rolls over.
func (c *Controller) Admit(clientKey string, now time.Time) Decision {
	count, windowStart := c.store.Increment(clientKey, now, c.window)

	if count > c.limit {
		retryAfter := windowStart.Add(c.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		c.log.Warn("Request denied by rate limiter",
			"client_key", clientKey,
			"count", count,
			"limit", c.limit,
			"retry_after", retryAfter,
		)
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}

	return Decision{Allowed: true}
}

// Stop releases the underlying counter store's resources.
func (c *Controller) Stop() {
	c.store.Stop()
}
