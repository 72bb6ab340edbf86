package tlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	logger := New(Config{Name: "overlay", Format: FormatJSON})
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger = New(Config{Format: FormatText, Color: ColorNo, Verbose: true})
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	require.Panics(t, func() { New(Config{Format: "xml"}) })
	require.Panics(t, func() { New(Config{Format: FormatText, Color: "sometimes"}) })
}

func TestContext(t *testing.T) {
	t.Parallel()

	logger := NewForTesting(t)
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, Get(ctx))

	ctx = With(ctx, zap.String("device", "/dev/ttyACM0"))
	require.NotSame(t, logger, Get(ctx))
	Get(ctx).Debug("Logged to the test log")
}

func TestContextWithoutLogger(t *testing.T) {
	t.Parallel()

	logger := Get(context.Background())
	require.NotNil(t, logger)
	require.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNamed(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core).Named("overlayd"))
	ctx = Named(ctx, "monitor")
	Get(ctx).Info("Serving monitor")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "overlayd.monitor", entries[0].LoggerName)
	require.Equal(t, "Serving monitor", entries[0].Message)
}
