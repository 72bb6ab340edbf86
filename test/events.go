package test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout is how long Receive waits for a value
const Timeout = 3 * time.Second

// Receive waits for a value on the channel and fails the test if none
// arrives within Timeout or the channel is closed
func Receive[T any](t testing.TB, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(Timeout):
		require.FailNow(t, "timeout waiting for a value")
		panic("unreachable")
	}
}

// AssertEvents receives the expected values in order and then checks that
// nothing else is buffered in the channel
func AssertEvents[T any](t testing.TB, ch <-chan T, expected ...T) {
	t.Helper()
	for i, e := range expected {
		require.Equalf(t, e, Receive(t, ch), "index: %d", i)
	}
	select {
	case v, ok := <-ch:
		if ok {
			require.Failf(t, "unexpected value", "%v", v)
		}
	default:
	}
}
