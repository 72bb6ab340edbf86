package overlay

import (
	"context"
	"fmt"
	"time"

	"github.com/ridge/overlay/wire"
	"go.uber.org/zap"
)

// UpdateFn applies application changes to the shapes before a tick
type UpdateFn func(ctx context.Context)

// EmitFn hands an assembled frame to the transport
type EmitFn func(ctx context.Context, frame wire.Frame) error

// Run drives the engine until the context is closed or emit fails.
//
// Every interval, Run calls update (if not nil), assembles a frame and passes
// it to emit unless it is empty. Everything happens on the calling goroutine,
// so update may change shapes freely.
func (e *Engine) Run(ctx context.Context, interval time.Duration, update UpdateFn, emit EmitFn) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("Overlay engine started", zap.Duration("interval", interval), zap.Int("shapes", len(e.shapes)))
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Overlay engine stopped", zap.Uint64("ticks", e.stats.Ticks), zap.Uint64("frames", e.stats.Frames))
			return ctx.Err()
		case <-ticker.C:
		}

		if update != nil {
			update(ctx)
		}
		frame := e.Assemble()
		if frame.Empty() {
			continue
		}
		if err := emit(ctx, frame); err != nil {
			return fmt.Errorf("failed to emit frame 0x%04x: %w", frame.Command, err)
		}
	}
}
