package overlay

import (
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-memdb"
	"github.com/ridge/must/v2"
)

// Both queues live in one in-memory database as tables of small immutable
// entries addressed by shape handle. Each table has an "order" index whose
// byte keys sort the entries the way the queue must yield them.

const (
	tableRun     = "run"
	tableRecycle = "recycle"

	indexID    = "id"
	indexOrder = "order"
)

// runEntry is a run queue member. Seq breaks ties between equal keys in
// insertion order and identifies the entry version.
type runEntry struct {
	Handle Handle
	Key    uint64
	Seq    uint64
}

// recycleEntry is a recycle queue member
type recycleEntry struct {
	Handle     Handle
	Confidence uint8
}

// orderIndexer serializes an entry into a sortable byte key.
//
// Only full scans are supported: memdb does not call FromArgs when no
// arguments are given.
type orderIndexer struct {
	key func(obj any) []byte
}

func (oi orderIndexer) FromObject(obj any) (bool, []byte, error) {
	return true, oi.key(obj), nil
}

func (oi orderIndexer) FromArgs(args ...any) ([]byte, error) {
	return nil, fmt.Errorf("order index does not support lookups (%d arguments given)", len(args))
}

func runOrder(obj any) []byte {
	e := obj.(*runEntry)
	b := make([]byte, 0, 16)
	b = binary.BigEndian.AppendUint64(b, e.Key)
	return binary.BigEndian.AppendUint64(b, e.Seq)
}

func recycleOrder(obj any) []byte {
	e := obj.(*recycleEntry)
	b := make([]byte, 0, 5)
	b = append(b, e.Confidence)
	return binary.BigEndian.AppendUint32(b, uint32(e.Handle))
}

func tableSchema(name string, order func(obj any) []byte) *memdb.TableSchema {
	return &memdb.TableSchema{
		Name: name,
		Indexes: map[string]*memdb.IndexSchema{
			indexID: {
				Name:    indexID,
				Unique:  true,
				Indexer: &memdb.UintFieldIndex{Field: "Handle"},
			},
			indexOrder: {
				Name:    indexOrder,
				Unique:  true,
				Indexer: orderIndexer{key: order},
			},
		},
	}
}

func newDB() *memdb.MemDB {
	return must.OK1(memdb.NewMemDB(&memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableRun:     tableSchema(tableRun, runOrder),
			tableRecycle: tableSchema(tableRecycle, recycleOrder),
		},
	}))
}

// write runs fn in a write transaction and commits it
func write(db *memdb.MemDB, fn func(txn *memdb.Txn)) {
	txn := db.Txn(true)
	defer txn.Abort() // no-op after Commit
	fn(txn)
	txn.Commit()
}

// lookup returns the entry stored under the handle or nil
func lookup(txn *memdb.Txn, table string, h Handle) any {
	return must.OK1(txn.First(table, indexID, h))
}

// first returns the entry with the smallest order key or nil
func first(txn *memdb.Txn, table string) any {
	return must.OK1(txn.First(table, indexOrder))
}
