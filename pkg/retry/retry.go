package retry

import (
	"context"
	"time"

	"github.com/artconnect/backend/internal/models"
)

// Do runs fn up to attempts times, doubling the wait between tries starting
// from initial. Terminal errors (not found, unauthorized, invalid transition,
// validation) are returned immediately; only transient store failures are
// retried. The caller's context cancels the waiting.
func Do(ctx context.Context, attempts int, initial time.Duration, fn func() error) error {
	var lastErr error
	wait := initial
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if models.IsTerminal(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return lastErr
}
