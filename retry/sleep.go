package retry

import (
	"context"
	"time"
)

// Sleep waits for the duration to elapse (returning nil) or the context to
// close (returning its error). Returns at once if duration is not positive.
func Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
