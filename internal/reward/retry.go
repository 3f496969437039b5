package reward

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"github.com/at-ishikawa/verbdrill/internal/user"
)

const defaultRetryDelay = 100 * time.Millisecond

// Retrying retries a sink with exponential backoff.
type Retrying struct {
	next     Sink
	attempts uint
	delay    time.Duration
}

// NewRetrying wraps next so that a failed delivery is retried up to retries more times.
func NewRetrying(next Sink, retries uint) *Retrying {
	return &Retrying{
		next:     next,
		attempts: retries + 1,
		delay:    defaultRetryDelay,
	}
}

func (s *Retrying) ApplyReward(ctx context.Context, userID int64, amount int) error {
	return retry.Do(
		func() error {
			err := s.next.ApplyReward(ctx, userID, amount)
			if err != nil && !isRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Debug("retrying reward delivery", "attempt", n+1, "user_id", userID, "error", err)
		}),
	)
}

// isRetryableError reports whether a failed delivery may succeed later.
func isRetryableError(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, user.ErrNotFound), errors.Is(err, ErrRejected):
		return false
	}
	return true
}
