package overlay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ridge/overlay/test"
	"github.com/ridge/overlay/wire"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()
	ctx := test.ContextWithTimeout(t, 5*time.Second)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e := newTestEngine(t)
	c := e.NewCircle(wire.ColorWhite, 1, 0, 0, 10)

	var updates int
	var frames []wire.Frame
	err := e.Run(ctx, time.Millisecond,
		func(ctx context.Context) {
			updates++
			if updates == 1 {
				c.SetVisible(true)
			}
		},
		func(ctx context.Context, frame wire.Frame) error {
			frames = append(frames, frame)
			if len(frames) == MaxRepeat {
				cancel()
			}
			return nil
		})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, frames, MaxRepeat)
	for _, frame := range frames {
		require.Equal(t, wire.OpAdd, frame.Records[0].Operation)
	}
	require.GreaterOrEqual(t, updates, MaxRepeat)
}

func TestRunEmitError(t *testing.T) {
	t.Parallel()
	ctx := test.ContextWithTimeout(t, 5*time.Second)

	e := newTestEngine(t)
	e.NewCircle(wire.ColorWhite, 1, 0, 0, 10).SetVisible(true)

	errBroken := errors.New("broken")
	err := e.Run(ctx, time.Millisecond, nil, func(ctx context.Context, frame wire.Frame) error {
		return errBroken
	})
	require.ErrorIs(t, err, errBroken)
	require.Contains(t, err.Error(), "0x0101")
}
