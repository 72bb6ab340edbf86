// Package link carries overlay frames to the referee system over a serial
// device
package link

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/ridge/overlay/envelope"
	"github.com/ridge/overlay/retry"
	"github.com/ridge/overlay/tlog"
	"github.com/ridge/overlay/wire"
	"go.uber.org/zap"
)

// Link writes frames to a device, one envelope per frame.
//
// Send must be called from one goroutine. Counters may be read concurrently.
type Link struct {
	w   io.Writer
	seq uint8

	frames atomic.Uint64
	bytes  atomic.Uint64
}

// New creates a link writing to w
func New(w io.Writer) *Link {
	return &Link{w: w}
}

// Send encodes the frame, wraps it into an interaction envelope and writes
// it out
func (l *Link) Send(frame wire.Frame) error {
	body, err := frame.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	packet := envelope.Seal(l.seq, envelope.CommandInteraction, body)
	if _, err := l.w.Write(packet); err != nil {
		return fmt.Errorf("failed to write %d bytes: %w", len(packet), err)
	}
	l.seq++
	l.frames.Add(1)
	l.bytes.Add(uint64(len(packet)))
	return nil
}

// Frames returns the number of frames sent
func (l *Link) Frames() uint64 {
	return l.frames.Load()
}

// Bytes returns the number of bytes written
func (l *Link) Bytes() uint64 {
	return l.bytes.Load()
}

// ReopenInterval is the delay between attempts to open a missing device
const ReopenInterval = time.Second

// Open opens the device for writing. If the device is not there yet, Open
// keeps trying until the context is closed.
func Open(ctx context.Context, path string) (*os.File, error) {
	logger := tlog.Get(ctx).With(zap.String("device", path))
	f, err := retry.Do1(ctx, retry.FixedConfig{RetryAfter: ReopenInterval}, func() (*os.File, error) {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return nil, retry.Retriable(err)
		}
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	logger.Info("Device opened")
	return f, nil
}
