package overlay

import (
	"github.com/ridge/overlay/wire"
	"golang.org/x/exp/slices"
)

// Assemble picks the shapes worth the slots of this tick and builds the
// frame carrying them.
//
// Returns an empty frame if no shape is waiting. A text shape at the head of
// the queue is sent alone in a text frame; text shapes further down wait for
// their turn at the head. Otherwise up to wire.MaxRecords shapes are packed
// into the smallest draw frame that holds them, padded with no-op records.
// No identity appears twice in one frame.
func (e *Engine) Assemble() wire.Frame {
	e.stats.Ticks++
	if e.queue.len() == 0 {
		return wire.Frame{}
	}

	frame := wire.Frame{
		Sender:   e.config.Sender,
		Receiver: e.config.Receiver,
		Records:  make([]wire.Description, 0, wire.MaxRecords),
	}
	identities := make([]Identity, 0, wire.MaxRecords)

	for c := e.queue.traverse(); len(frame.Records) < wire.MaxRecords && c.Next(); {
		s := c.Shape()
		if s.IsText() && len(frame.Records) > 0 {
			continue
		}

		op, identity := s.predict()
		if op == wire.OpNone {
			continue // no identity available
		}

		if s.IsText() {
			op = c.Take()
			text := s.describeText(op)
			frame.Command = wire.CommandText
			frame.Records = nil
			frame.Text = &text

			e.stats.Frames++
			e.stats.TextFrames++
			e.count(op)
			return frame
		}

		if slices.Contains(identities, identity) {
			continue
		}

		op = c.Take()
		frame.Records = append(frame.Records, s.describe(op))
		identities = append(identities, s.identity)
		e.count(op)
	}

	size, command := wire.CommandForSlots(len(frame.Records))
	for len(frame.Records) < size {
		frame.Records = append(frame.Records, wire.NoOperation())
		e.stats.Padding++
	}
	frame.Command = command
	e.stats.Frames++
	return frame
}
