package retry

import (
	"context"
	"errors"
	"time"

	"github.com/ridge/overlay/tlog"
	"go.uber.org/zap"
)

// DelayFn produces the delays between attempts, one per call. It returns
// false when no more attempts should be made. The first call returns the
// delay before the very first attempt and must return true.
type DelayFn func() (delay time.Duration, ok bool)

// Config defines retry intervals
type Config interface {
	// Delays returns an independent sequence of delays
	Delays() DelayFn
}

// FixedConfig defines fixed retry intervals
type FixedConfig struct {
	TryAfter    time.Duration // delay before the first attempt
	RetryAfter  time.Duration // delay before each subsequent attempt
	MaxAttempts int           // 0 = unlimited
}

// Delays implements interface Config
func (c FixedConfig) Delays() DelayFn {
	attempts := 0
	return func() (time.Duration, bool) {
		attempts++
		switch {
		case attempts == 1:
			return c.TryAfter, true
		case c.MaxAttempts != 0 && attempts > c.MaxAttempts:
			return 0, false
		default:
			return c.RetryAfter, true
		}
	}
}

// ErrRetriable means the operation that caused the error should be retried
type ErrRetriable struct {
	err error
}

func (r ErrRetriable) Error() string {
	return r.err.Error()
}

// Unwrap returns the next error in the error chain
func (r ErrRetriable) Unwrap() error {
	return r.err
}

// Retriable wraps an error to tell Do that it should keep trying. Returns nil
// if err is nil.
func Retriable(err error) error {
	if err == nil {
		return nil
	}
	return ErrRetriable{err: err}
}

// Do calls f until it returns nil or an error not wrapped with Retriable, the
// delays run out or the context is closed.
//
// A retriable error is logged unless its message repeats the previous one.
func Do(ctx context.Context, c Config, f func() error) error {
	startedAt := time.Now()
	delays := c.Delays()
	var lastMessage string
	var r ErrRetriable
	for i := 0; ; i++ {
		logger := tlog.Get(ctx).With(zap.Int("attempts", i+1))

		delay, ok := delays()
		if !ok {
			if i == 0 {
				panic("ok is false on first attempt")
			}
			logger.Debug("Retry failed after maximum number of attempts", zap.Error(r.err), zap.Duration("duration", time.Since(startedAt)))
			return r.err
		}

		if err := Sleep(ctx, delay); err != nil {
			return err
		}

		if err := f(); !errors.As(err, &r) {
			if i > 0 && err == nil {
				logger.Debug("Retry succeeded", zap.Duration("duration", time.Since(startedAt)))
			}
			return err
		}

		if message := r.err.Error(); message != lastMessage {
			logger.Debug("Will retry", zap.Error(r.err), zap.Duration("delay", delay))
			lastMessage = message
		}
	}
}

// Do1 is a single return value version of Do
func Do1[T any](ctx context.Context, c Config, f func() (T, error)) (T, error) {
	var t T
	err := Do(ctx, c, func() error {
		var err error
		t, err = f()
		return err
	})
	return t, err
}
