package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ridge/overlay/test"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	t.Parallel()
	ctx := test.Context(t)

	count := 0
	err := Do(ctx, FixedConfig{}, func() error {
		count++
		if count == 10 {
			return errors.New("ten")
		}
		return Retriable(fmt.Errorf("%d", count))
	})
	require.EqualError(t, err, "ten")

	count = 0
	ret, err := Do1(ctx, FixedConfig{}, func() (int, error) {
		count++
		if count == 5 {
			return 5, nil
		}
		return count, Retriable(fmt.Errorf("%d", count))
	})
	require.NoError(t, err)
	require.Equal(t, 5, ret)
}

func TestDoMaxAttempts(t *testing.T) {
	t.Parallel()
	ctx := test.Context(t)

	count := 0
	err := Do(ctx, FixedConfig{MaxAttempts: 3}, func() error {
		count++
		return Retriable(errors.New("again"))
	})
	require.EqualError(t, err, "again")
	require.Equal(t, 3, count)
	require.Nil(t, Retriable(nil))
}

func TestDoCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(test.Context(t), 50*time.Millisecond)
	defer cancel()

	err := Do(ctx, FixedConfig{RetryAfter: time.Hour}, func() error {
		return Retriable(errors.New("again"))
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
