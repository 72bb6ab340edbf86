package run

import (
	"context"
	"os"
	"os/signal"

	"github.com/ridge/overlay/tlog"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// stopSignals stop the program, including the hangup of its terminal
var stopSignals = []os.Signal{unix.SIGTERM, unix.SIGINT, unix.SIGHUP}

func handleSignals(ctx context.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, stopSignals...)
	defer signal.Stop(signals)
	return waitForStop(ctx, signals)
}

// waitForStop returns nil on the first signal, or the context error
func waitForStop(ctx context.Context, signals <-chan os.Signal) error {
	select {
	case sig := <-signals:
		tlog.Get(ctx).Info("Stopping", zap.Stringer("signal", sig))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
