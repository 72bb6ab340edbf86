package test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ridge/parallel"
	"github.com/stretchr/testify/require"
)

// GroupTimeout bounds the servers run by a test
const GroupTimeout = 10 * time.Second

// Group returns a parallel.Group for the servers a test runs against.
//
// The group is stopped when the test ends. If it fails first, or outlives
// GroupTimeout, the test fails.
func Group(t *testing.T) *parallel.Group {
	group := parallel.NewGroup(ContextWithTimeout(t, GroupTimeout))
	t.Cleanup(func() {
		group.Exit(nil)
		err := group.Wait()
		if errors.Is(err, context.Canceled) {
			return
		}
		require.NoError(t, err, "servers of %s", t.Name())
	})
	return group
}
