package retry

import (
	"context"
	"time"
)

// LinearBackoff returns delay based on attempt number.
// The delay grows linearly with each attempt: base * attempt.
func LinearBackoff(attempt int, base time.Duration) time.Duration {
	return base * time.Duration(attempt)
}

// Sleep blocks for d or until ctx is done, returning ctx.Err in that case.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
