package overlay

import (
	"github.com/hashicorp/go-memdb"
	"github.com/ridge/must/v2"
	"go.uber.org/zap"
)

// Identity is the handle by which the display client knows a shape. Zero
// means unassigned.
type Identity uint8

// MaxIdentity is the number of shapes the client can address at once
const MaxIdentity Identity = 200

// pool hands out identities: recycled ones first, then fresh ones up to
// MaxIdentity.
//
// The recycle queue holds invisible shapes that still own an identity, the
// least confirmed first: the client is least likely to rely on them.
type pool struct {
	engine    *Engine
	issued    Identity // high-water mark
	exhausted bool     // the last assignment failed
}

func (p *pool) db() *memdb.MemDB {
	return p.engine.db
}

// tryAssign gives s an identity. Returns false if s already has one or none
// is available.
func (p *pool) tryAssign(s *Shape) bool {
	if s.identity != 0 {
		return false
	}

	var victim *Shape
	write(p.db(), func(txn *memdb.Txn) {
		if entry := first(txn, tableRecycle); entry != nil {
			victim = p.engine.shapes[entry.(*recycleEntry).Handle]
			must.OK(txn.Delete(tableRecycle, entry))
		}
	})

	switch {
	case victim != nil:
		s.identity, s.existence = victim.identity, victim.existence
		victim.identity, victim.existence = 0, 0
		victim.swapped()

		p.engine.stats.Swaps++
		p.engine.logger.Debug("Identity recycled",
			zap.Uint8("identity", uint8(s.identity)),
			zap.Uint32("from", uint32(victim.handle)),
			zap.Uint32("to", uint32(s.handle)),
			zap.Uint8("existence", s.existence))
	case p.issued < MaxIdentity:
		p.issued++
		s.identity = p.issued
	default:
		p.engine.stats.Exhausted++
		if !p.exhausted {
			p.exhausted = true
			p.engine.logger.Warn("Identity pool exhausted", zap.Uint32("shape", uint32(s.handle)))
		}
		return false
	}

	if p.exhausted {
		p.exhausted = false
		p.engine.logger.Info("Identity pool available again")
	}
	return true
}

// predictAssign tells whether tryAssign would succeed, the identity s would
// get, and the existence confidence inherited with it
func (p *pool) predictAssign(s *Shape) (bool, Identity, uint8) {
	if s.identity != 0 {
		return false, 0, 0
	}

	txn := p.db().Txn(false)
	if entry := first(txn, tableRecycle); entry != nil {
		victim := p.engine.shapes[entry.(*recycleEntry).Handle]
		return true, victim.identity, victim.existence
	}
	if p.issued < MaxIdentity {
		return true, p.issued + 1, 0
	}
	return false, 0, 0
}

// recycling is true if s can be robbed of its identity
func (p *pool) recycling(s *Shape) bool {
	return lookup(p.db().Txn(false), tableRecycle, s.handle) != nil
}

func (p *pool) enableRecycling(s *Shape) {
	if s.identity == 0 {
		panic("shape without identity can't be recycled")
	}
	write(p.db(), func(txn *memdb.Txn) {
		must.OK(txn.Insert(tableRecycle, &recycleEntry{Handle: s.handle, Confidence: s.existence}))
	})
}

func (p *pool) disableRecycling(s *Shape) {
	write(p.db(), func(txn *memdb.Txn) {
		must.OK1(txn.DeleteAll(tableRecycle, indexID, s.handle))
	})
}

// rerank moves s to its place after a change of its existence confidence
func (p *pool) rerank(s *Shape) {
	write(p.db(), func(txn *memdb.Txn) {
		if lookup(txn, tableRecycle, s.handle) != nil {
			must.OK(txn.Insert(tableRecycle, &recycleEntry{Handle: s.handle, Confidence: s.existence}))
		}
	})
}

// recyclable returns the number of shapes in the recycle queue
func (p *pool) recyclable() int {
	it := must.OK1(p.db().Txn(false).Get(tableRecycle, indexID))
	n := 0
	for it.Next() != nil {
		n++
	}
	return n
}
