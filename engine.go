package overlay

import (
	"github.com/hashicorp/go-memdb"
	"github.com/ridge/overlay/wire"
	"go.uber.org/zap"
)

// Config is the configuration of an Engine
type Config struct {
	Sender   wire.ID // local robot
	Receiver wire.ID // its display client

	Logger *zap.Logger // optional
}

// Engine owns a set of shapes together with the identity pool, the recycle
// queue and the run queue they share.
//
// An Engine and its shapes are not safe for concurrent use. All shape changes
// and calls to Assemble must happen on one goroutine, normally the one
// executing Run.
type Engine struct {
	config Config
	logger *zap.Logger

	db     *memdb.MemDB
	shapes []*Shape
	pool   pool
	queue  runQueue
	stats  Stats
}

// New creates an Engine with no shapes
func New(config Config) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		config: config,
		logger: logger,
		db:     newDB(),
	}
	e.pool.engine = e
	e.queue.engine = e
	return e
}

func (e *Engine) newShape(g geometry, color wire.Color, width, x, y uint16) *Shape {
	s := &Shape{
		engine:   e,
		handle:   Handle(len(e.shapes)),
		geometry: g,
		sync:     MaxRepeat,
		color:    color,
		width:    width,
		x:        x,
		y:        y,
	}
	e.shapes = append(e.shapes, s)
	return s
}

// Shape returns the shape with the given handle, or nil
func (e *Engine) Shape(h Handle) *Shape {
	if int(h) >= len(e.shapes) {
		return nil
	}
	return e.shapes[h]
}

// Stats is a snapshot of engine counters
type Stats struct {
	Ticks      uint64 `json:"ticks"`      // calls to Assemble
	Frames     uint64 `json:"frames"`     // non-empty frames assembled
	TextFrames uint64 `json:"textFrames"` // frames carrying a text record
	Added      uint64 `json:"added"`      // ADD records
	Modified   uint64 `json:"modified"`   // MODIFY records
	Padding    uint64 `json:"padding"`    // no-op records filling up frames
	Swaps      uint64 `json:"swaps"`      // identities taken from hidden shapes
	Exhausted  uint64 `json:"exhausted"`  // failed identity assignments

	Shapes     int `json:"shapes"`
	Issued     int `json:"issued"` // fresh identities handed out
	Recyclable int `json:"recyclable"`
	Queued     int `json:"queued"`
}

// Stats returns the current counters
func (e *Engine) Stats() Stats {
	stats := e.stats
	stats.Shapes = len(e.shapes)
	stats.Issued = int(e.pool.issued)
	stats.Recyclable = e.pool.recyclable()
	stats.Queued = e.queue.len()
	return stats
}

func (e *Engine) count(op wire.Operation) {
	switch op {
	case wire.OpAdd:
		e.stats.Added++
	case wire.OpModify:
		e.stats.Modified++
	}
}
