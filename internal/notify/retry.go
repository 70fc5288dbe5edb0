package notify

import (
	"context"
	"time"

	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// RetryPolicy retries a channel send with linear backoff: the wait before
// attempt n+1 is BaseDelay * n. The backoff is deliberately linear, not
// exponential.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do runs send up to MaxAttempts times, returning on the first success.
// After exhausting attempts the last failure is returned with its error
// prefixed by the total attempt count. Every path resolves to an Outcome.
func (p RetryPolicy) Do(ctx context.Context, logger *logging.Logger, channel string, send func(context.Context) Outcome) Outcome {
	if logger == nil {
		logger = logging.Default()
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last Outcome
	for attempt := 1; attempt <= attempts; attempt++ {
		last = send(ctx)
		if last.Success {
			return last
		}
		logger.Warn("send attempt failed",
			"channel", channel,
			"attempt", attempt,
			"max_attempts", attempts,
			"error", last.Error,
		)
		if attempt < attempts {
			delay := p.BaseDelay * time.Duration(attempt)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Errf("Failed after %d attempts: %s (canceled: %v)", attempt, last.Error, ctx.Err())
			case <-timer.C:
			}
		}
	}
	return Errf("Failed after %d attempts: %s", attempts, last.Error)
}
