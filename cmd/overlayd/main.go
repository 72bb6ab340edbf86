package main

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/ridge/overlay"
	"github.com/ridge/overlay/link"
	"github.com/ridge/overlay/monitor"
	"github.com/ridge/overlay/run"
	"github.com/ridge/overlay/tlog"
	"github.com/ridge/overlay/wire"
	"github.com/ridge/parallel"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	device := pflag.String("device", "/dev/ttyACM0", "Serial device of the referee system")
	tick := pflag.Duration("tick", 100*time.Millisecond, "Interval between frames")
	sender := pflag.Uint16("sender", 3, "Robot ID of this robot")
	receiver := pflag.Uint16("receiver", 0x0103, "Client ID of the operator screen")
	monitorAddr := pflag.String("monitor", "", "Serve the frame monitor on this address (tcp:host:port or unix:path)")
	pflag.Parse()

	run.Server(func(ctx context.Context) error {
		logger := tlog.Get(ctx)

		f, listener, err := open(ctx, *device, *monitorAddr)
		if err != nil {
			return err
		}
		defer f.Close()
		l := link.New(f)

		engine := overlay.New(overlay.Config{
			Sender:   wire.ID(*sender),
			Receiver: wire.ID(*receiver),
			Logger:   logger.Named("engine"),
		})
		h := newHUD(engine)
		mon := monitor.New()

		return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
			if listener != nil {
				spawn("monitor", parallel.Fail, monitor.NewServer(listener, mon).Run)
			}
			spawn("engine", parallel.Fail, func(ctx context.Context) error {
				started := time.Now()
				return engine.Run(ctx, *tick,
					func(ctx context.Context) {
						h.update(time.Since(started))
					},
					func(ctx context.Context, frame wire.Frame) error {
						if err := l.Send(frame); err != nil {
							return err
						}
						mon.Publish(frame)
						mon.SetStats(engine.Stats(), l.Frames(), l.Bytes())
						return nil
					})
			})
			logger.Info("Overlay running", zap.String("device", *device), zap.Duration("tick", *tick))
			return nil
		})
	})
}

// open opens the monitor listener, if address is set, and the device.
// Nothing is left open on error.
func open(ctx context.Context, device, address string) (*os.File, net.Listener, error) {
	var listener net.Listener
	if address != "" {
		var err error
		if listener, err = monitor.Listen(address); err != nil {
			return nil, nil, err
		}
	}

	f, err := link.Open(ctx, device)
	if err != nil {
		if listener != nil {
			listener.Close()
		}
		return nil, nil, err
	}
	return f, listener, nil
}
