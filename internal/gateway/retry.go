package gateway

import (
	"context"
	"time"
)

const (
	retryAttempts = 3
	retryBaseWait = 500 * time.Millisecond
)

// Retry runs fn up to three times with exponential backoff. The client never
// retries on its own; wrap the one call that wants it.
func Retry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBaseWait << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
	}
	return err
}
