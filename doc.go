// Package overlay keeps the shapes of a robot HUD in sync with the display
// client of the referee system.
//
// The client is reachable only through a slow, lossy and unacknowledged
// link. Each tick one frame can carry 1, 2, 5 or 7 shape records, or a single
// text record, and the client can address at most 200 shapes at once. The
// application may own hundreds of shapes whose geometry and visibility change
// all the time. The engine decides, tick by tick, which shapes are worth the
// slots and what to send for each of them.
//
// # Shapes
//
// Shapes are created by an Engine (NewLine, NewArc, NewText, ...) and start
// invisible. The application changes them through setters; a setter that
// changes a value of a visible shape schedules it for transmission. Shapes
// with a higher priority are sent earlier.
//
// # Delivery
//
// Nothing is acknowledged, so every change is repeated up to MaxRepeat times.
// Each shape keeps two counters: the existence confidence (how many times it
// has been added under its identity) and the sync confidence (how many times
// its current fields have been sent). A shape is added while the client may
// not know it yet and modified otherwise; it leaves the run queue once both
// counters reach MaxRepeat.
//
// # Identities
//
// The client knows shapes by identities 1 to 200, handed out on the first
// transmission of a shape. A hidden shape that the client knows keeps its
// identity, but becomes recyclable: when the identities run out, the
// recyclable shape with the lowest existence confidence gives its identity
// away. It gets a new one when it is shown again. If no identity is
// available, the shape simply waits.
//
// # Scheduling
//
// The run queue is fair: a shape waiting in the queue is eventually served
// even if other shapes keep changing. Among shapes queued at the same time,
// higher priority and lower confidence come first.
//
// # Example
//
//	engine := overlay.New(overlay.Config{Sender: 3, Receiver: 0x0103, Logger: tlog.Get(ctx)})
//	crosshair := engine.NewCircle(wire.ColorWhite, 2, 960, 540, 10)
//	crosshair.SetVisible(true)
//
//	speed := engine.NewFloat(wire.ColorGreen, 20, 2, 1000, 600, 0)
//	speed.SetVisible(true)
//
//	err := engine.Run(ctx, 100*time.Millisecond,
//	    func(ctx context.Context) {
//	        speed.SetValue(readSpeed())
//	    },
//	    func(ctx context.Context, frame wire.Frame) error {
//	        return link.Send(frame)
//	    })
package overlay
