package overlay

import (
	"github.com/ridge/overlay/wire"
)

// MaxRepeat is how many times an ADD or MODIFY is repeated to survive losses
// on the unacknowledged link, and the cap of both confidence counters
const MaxRepeat = 4

// Handle is the stable index of a shape within its Engine
type Handle uint32

// Shape is the local state of one shape on the client screen.
//
// Shapes are created by the New* methods of Engine and start invisible. The
// setters are idempotent: they do nothing if the value does not change.
// Otherwise a visible shape is scheduled for transmission.
//
// A Shape must only be used from the goroutine driving its Engine.
type Shape struct {
	engine   *Engine
	handle   Handle
	geometry geometry

	visible  bool
	priority uint8

	identity   Identity
	existence  uint8 // belief that the client has the shape under identity
	sync       uint8 // belief that the client copy matches the local fields
	lastModify bool  // the last operation sent was MODIFY

	color wire.Color
	width uint16
	x     uint16
	y     uint16
}

// Handle returns the handle of the shape
func (s *Shape) Handle() Handle {
	return s.handle
}

// Kind returns the shape type
func (s *Shape) Kind() wire.Kind {
	return s.geometry.kind()
}

// IsText is true for text shapes, which travel alone in their own frames
func (s *Shape) IsText() bool {
	return s.Kind() == wire.KindText
}

// Identity returns the identity the shape is known by on the client, or zero
func (s *Shape) Identity() Identity {
	return s.identity
}

// ExistenceConfidence returns how many times the shape has been added
// under its current identity, up to MaxRepeat
func (s *Shape) ExistenceConfidence() uint8 {
	return s.existence
}

// SyncConfidence returns how many times the current fields have been sent,
// up to MaxRepeat
func (s *Shape) SyncConfidence() uint8 {
	return s.sync
}

// Queued is true if the shape waits for transmission
func (s *Shape) Queued() bool {
	return s.engine.queue.queued(s.handle)
}

// Recyclable is true if another shape may take the identity of this one
func (s *Shape) Recyclable() bool {
	return s.engine.pool.recycling(s)
}

// Visible returns the desired visibility
func (s *Shape) Visible() bool {
	return s.visible
}

// SetVisible shows or hides the shape
func (s *Shape) SetVisible(visible bool) {
	if s.visible == visible {
		return
	}
	s.visible = visible

	if visible {
		// The identity must not be taken away from a shape about to be drawn
		s.engine.pool.disableRecycling(s)
	} else {
		if s.existence == 0 {
			// Nothing to hide on the client
			s.engine.queue.dequeue(s.handle)
			return
		}
		s.engine.pool.enableRecycling(s)
	}

	s.sync = 0
	s.enterRunQueue()
}

// Priority returns the priority
func (s *Shape) Priority() uint8 {
	return s.priority
}

// SetPriority sets the priority. Shapes with higher priority are sent first.
func (s *Shape) SetPriority(priority uint8) {
	if s.priority == priority {
		return
	}
	s.priority = priority
	if s.Queued() {
		s.engine.queue.rekey(s.handle, s.weight())
	}
}

// Color returns the color
func (s *Shape) Color() wire.Color {
	return s.color
}

// SetColor sets the color
func (s *Shape) SetColor(color wire.Color) {
	set(s, &s.color, color)
}

// Width returns the stroke width
func (s *Shape) Width() uint16 {
	return s.width
}

// SetWidth sets the stroke width
func (s *Shape) SetWidth(width uint16) {
	set(s, &s.width, width)
}

// X returns the horizontal position of the anchor point
func (s *Shape) X() uint16 {
	return s.x
}

// SetX sets the horizontal position of the anchor point
func (s *Shape) SetX(x uint16) {
	set(s, &s.x, x)
}

// Y returns the vertical position of the anchor point
func (s *Shape) Y() uint16 {
	return s.y
}

// SetY sets the vertical position of the anchor point
func (s *Shape) SetY(y uint16) {
	set(s, &s.y, y)
}

// Redraw sends the shape again as if it has been modified
func (s *Shape) Redraw() {
	s.modified()
}

// set stores a displayed field and schedules the shape if it changed
func set[T comparable](s *Shape, field *T, value T) {
	if *field == value {
		return
	}
	*field = value
	s.modified()
}

func (s *Shape) modified() {
	// Changes of an invisible shape go out when it is shown
	if !s.visible {
		return
	}
	s.sync = 0
	s.enterRunQueue()
}

func (s *Shape) enterRunQueue() {
	s.engine.queue.enqueue(s.handle, s.weight())
}

func (s *Shape) weight() uint64 {
	confidence := s.existence
	if s.sync < confidence {
		confidence = s.sync
	}
	return weight(s.priority, confidence)
}

// swapped is called when another shape has taken the identity
func (s *Shape) swapped() {
	s.engine.queue.dequeue(s.handle)
}

func (s *Shape) setExistence(existence uint8) {
	s.existence = existence
	if s.engine.pool.recycling(s) {
		s.engine.pool.rerank(s)
	}
}

// addDue decides between ADD and MODIFY. A shape the client does not know
// yet is always in sync: it simply needs adding.
func (s *Shape) addDue(existence, sync uint8) bool {
	if existence == 0 {
		sync = MaxRepeat
	}
	return s.visible && (existence <= sync || s.lastModify && existence < MaxRepeat)
}

// PredictUpdate returns the operation the next transmission would carry,
// without changing any state
func (s *Shape) PredictUpdate() wire.Operation {
	op, _ := s.predict()
	return op
}

// predict returns the next operation and the identity it would be sent under
func (s *Shape) predict() (wire.Operation, Identity) {
	identity, existence := s.identity, s.existence
	if identity == 0 {
		var ok bool
		if ok, identity, existence = s.engine.pool.predictAssign(s); !ok {
			return wire.OpNone, 0
		}
	}
	if s.addDue(existence, s.sync) {
		return wire.OpAdd, identity
	}
	return wire.OpModify, identity
}

// update advances the state machine by one transmission. The shape must
// have been removed from the run queue; it re-queues itself if it owes more
// repetitions.
func (s *Shape) update() wire.Operation {
	if s.identity == 0 && !s.engine.pool.tryAssign(s) {
		// Retried once the application shows the shape again
		s.sync = MaxRepeat
		s.visible = false
		return wire.OpNone
	}

	if s.existence == 0 {
		s.sync = MaxRepeat
	}

	if s.addDue(s.existence, s.sync) {
		s.lastModify = false
		if s.existence < MaxRepeat {
			s.setExistence(s.existence + 1)
		}
		if s.existence < MaxRepeat || s.sync < MaxRepeat {
			s.enterRunQueue()
		}
		return wire.OpAdd
	}

	// Either the shape is invisible, or the client has it and only the
	// fields are behind: the sync confidence is the smaller one.
	s.lastModify = true
	if s.sync < MaxRepeat {
		s.sync++
	}
	if s.sync < MaxRepeat {
		s.enterRunQueue()
	}
	return wire.OpModify
}
