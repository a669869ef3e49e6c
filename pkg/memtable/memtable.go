package memtable

import (
	"memlsm/pkg/types"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// Table is an ordered key -> Entry index with a running byte counter.
// It is not safe for concurrent use.
type Table struct {
	tree *redblacktree.Tree
	// sum of len(key) + entry.Len() over every association
	size int
}

func New() *Table {
	return &Table{
		tree: redblacktree.NewWith(utils.StringComparator),
	}
}

// Get returns the entry stored under key. A tombstone is returned as found.
func (t *Table) Get(key types.Key) (Entry, bool) {
	v, ok := t.tree.Get(key)
	if !ok {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Upsert stores e under key, replacing any previous entry, and returns the
// replaced one. The key length is only accounted on first insertion.
func (t *Table) Upsert(key types.Key, e Entry) (Entry, bool) {
	old, replaced := t.Get(key)
	t.tree.Put(key, e)

	if replaced {
		t.size -= old.Len()
	} else {
		t.size += len(key)
	}
	t.size += e.Len()

	return old, replaced
}

// Len returns the number of keys, tombstones included.
func (t *Table) Len() int {
	return t.tree.Size()
}

// Size returns the accounted byte size of the table.
func (t *Table) Size() int {
	return t.size
}

// Seek returns a cursor positioned at the first key >= key.
func (t *Table) Seek(key types.Key) *Cursor {
	node, ok := t.tree.Ceiling(key)
	if !ok {
		return &Cursor{}
	}
	return &Cursor{it: t.tree.IteratorAt(node), valid: true}
}
