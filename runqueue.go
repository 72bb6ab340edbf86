package overlay

import (
	"github.com/hashicorp/go-memdb"
	"github.com/ridge/must/v2"
	"github.com/ridge/overlay/wire"
)

// runQueue holds the dirty shapes in the order they deserve a slot.
//
// It works like a fair scheduler: every entry is keyed with the virtual clock
// plus its weight, and the clock advances to the key of every entry taken.
// A waiting entry never moves back while newcomers are keyed later and later,
// so every entry is eventually served no matter how busy the others are.
type runQueue struct {
	engine *Engine
	vclock uint64
	seq    uint64
	n      int
}

// weight maps a priority and the least of the shape confidences to a key
// increment. Higher priority weighs less; every confirmed repetition makes
// the weight 16 times heavier, so almost confirmed shapes fall far behind.
func weight(priority uint8, confidence uint8) uint64 {
	return uint64(256-int(priority)) << (4 * uint(confidence))
}

func (q *runQueue) db() *memdb.MemDB {
	return q.engine.db
}

// enqueue adds the shape or repositions it if already queued.
//
// A waiting entry only moves forward: if the new key is not smaller, it
// keeps its place.
func (q *runQueue) enqueue(h Handle, weight uint64) {
	q.insert(h, weight, false)
}

// rekey adds the shape or moves it to the key of weight, even if that is
// further back than where it waits now.
func (q *runQueue) rekey(h Handle, weight uint64) {
	q.insert(h, weight, true)
}

func (q *runQueue) insert(h Handle, weight uint64, force bool) {
	key := q.vclock + weight
	write(q.db(), func(txn *memdb.Txn) {
		if existing := lookup(txn, tableRun, h); existing == nil {
			q.n++
		} else if !force && existing.(*runEntry).Key <= key {
			return
		}
		q.seq++
		must.OK(txn.Insert(tableRun, &runEntry{Handle: h, Key: key, Seq: q.seq}))
	})
}

// dequeue removes the shape. Returns false if it was not queued.
func (q *runQueue) dequeue(h Handle) bool {
	var removed bool
	write(q.db(), func(txn *memdb.Txn) {
		removed = must.OK1(txn.DeleteAll(tableRun, indexID, h)) > 0
	})
	if removed {
		q.n--
	}
	return removed
}

func (q *runQueue) queued(h Handle) bool {
	return q.entry(h) != nil
}

func (q *runQueue) entry(h Handle) *runEntry {
	entry := lookup(q.db().Txn(false), tableRun, h)
	if entry == nil {
		return nil
	}
	return entry.(*runEntry)
}

func (q *runQueue) len() int {
	return q.n
}

// traverse starts a walk over the queue in key order.
//
// The walk runs over a snapshot taken now, so entries re-queued during the
// walk are not visited again. Entries removed during the walk are skipped.
// Call traverse again to restart from the head.
func (q *runQueue) traverse() *cursor {
	return &cursor{
		queue: q,
		iter:  must.OK1(q.db().Txn(false).Get(tableRun, indexOrder)),
	}
}

// cursor is a position in a run queue walk
type cursor struct {
	queue   *runQueue
	iter    memdb.ResultIterator
	current *runEntry
}

// Next moves to the next queued shape. Returns false at the end of the queue.
//
// Leaving the current shape without calling Take defers it: it stays queued
// at its place.
func (c *cursor) Next() bool {
	for {
		obj := c.iter.Next()
		if obj == nil {
			c.current = nil
			return false
		}
		entry := obj.(*runEntry)
		if live := c.queue.entry(entry.Handle); live == nil || live.Seq != entry.Seq {
			continue // removed or re-keyed since the walk started
		}
		c.current = entry
		return true
	}
}

// Shape returns the current shape
func (c *cursor) Shape() *Shape {
	return c.queue.engine.shapes[c.current.Handle]
}

// Take removes the current shape from the queue and runs its update. The
// shape re-queues itself if it owes more repetitions.
func (c *cursor) Take() wire.Operation {
	q := c.queue
	q.dequeue(c.current.Handle)
	if c.current.Key > q.vclock {
		q.vclock = c.current.Key
	}
	return c.Shape().update()
}
