// Package monitor lets developers watch the overlay at work: every frame
// sent to the display client is streamed to WebSocket subscribers as JSON,
// and the engine counters are served over HTTP.
package monitor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ridge/must/v2"
	"github.com/ridge/overlay"
	"github.com/ridge/overlay/wire"
	"golang.org/x/exp/maps"
)

// backlog is how many frames a subscriber may lag behind before frames are
// dropped for it
const backlog = 64

// Monitor fans frames out to subscribers and keeps the latest stats.
//
// Publish and SetStats never block, so they can be called from the tick
// goroutine. A subscriber that does not keep up loses frames.
type Monitor struct {
	mu          sync.Mutex
	seq         uint64
	dropped     uint64
	stats       Stats
	subscribers map[uuid.UUID]chan []byte
}

// Stats is what GET /stats returns
type Stats struct {
	Engine      overlay.Stats `json:"engine"`
	LinkFrames  uint64        `json:"linkFrames"`
	LinkBytes   uint64        `json:"linkBytes"`
	Subscribers int           `json:"subscribers"`
	Dropped     uint64        `json:"dropped"` // frames lost by slow subscribers
}

// New creates a Monitor
func New() *Monitor {
	return &Monitor{subscribers: map[uuid.UUID]chan []byte{}}
}

// Publish sends the frame to all subscribers
func (m *Monitor) Publish(frame wire.Frame) {
	m.mu.Lock()
	m.seq++
	msg := must.OK1(json.Marshal(renderFrame(m.seq, frame)))
	subscribers := maps.Values(m.subscribers)
	m.mu.Unlock()

	var dropped uint64
	for _, ch := range subscribers {
		select {
		case ch <- msg:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		m.mu.Lock()
		m.dropped += dropped
		m.mu.Unlock()
	}
}

// SetStats replaces the engine and link counters
func (m *Monitor) SetStats(engine overlay.Stats, linkFrames, linkBytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Engine = engine
	m.stats.LinkFrames = linkFrames
	m.stats.LinkBytes = linkBytes
}

// Stats returns the latest counters
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.stats
	stats.Subscribers = len(m.subscribers)
	stats.Dropped = m.dropped
	return stats
}

func (m *Monitor) subscribe() (uuid.UUID, <-chan []byte) {
	id := uuid.New()
	ch := make(chan []byte, backlog)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[id] = ch
	return id, ch
}

// unsubscribe forgets the subscriber. The channel is left open: Publish may
// still hold it.
func (m *Monitor) unsubscribe(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, id)
}

type recordView struct {
	Identity  uint8     `json:"identity"`
	Operation string    `json:"op"`
	Kind      string    `json:"kind,omitempty"`
	Color     uint8     `json:"color"`
	Width     uint16    `json:"width"`
	X         uint16    `json:"x"`
	Y         uint16    `json:"y"`
	Details   [5]uint16 `json:"details"`
	Value     int32     `json:"value,omitempty"`
	Text      string    `json:"text,omitempty"`
}

type frameView struct {
	Seq      uint64       `json:"seq"`
	Command  string       `json:"command"`
	Sender   wire.ID      `json:"sender"`
	Receiver wire.ID      `json:"receiver"`
	Records  []recordView `json:"records"`
}

func renderRecord(d wire.Description) recordView {
	r := recordView{
		Identity:  d.Name[0],
		Operation: d.Operation.String(),
		Color:     uint8(d.Color),
		Width:     d.Width,
		X:         d.X,
		Y:         d.Y,
		Details:   [5]uint16{d.DetailA, d.DetailB, d.DetailC, d.DetailD, d.DetailE},
	}
	if d.Operation != wire.OpNone {
		r.Kind = d.Kind.String()
	}
	switch d.Kind {
	case wire.KindFloat, wire.KindInteger:
		r.Value = d.Value()
	}
	return r
}

func renderFrame(seq uint64, frame wire.Frame) frameView {
	v := frameView{
		Seq:      seq,
		Command:  fmt.Sprintf("0x%04x", frame.Command),
		Sender:   frame.Sender,
		Receiver: frame.Receiver,
		Records:  make([]recordView, 0, len(frame.Records)+1),
	}
	for _, d := range frame.Records {
		v.Records = append(v.Records, renderRecord(d))
	}
	if frame.Text != nil {
		r := renderRecord(frame.Text.Description)
		r.Text = frame.Text.String()
		v.Records = append(v.Records, r)
	}
	return v
}
