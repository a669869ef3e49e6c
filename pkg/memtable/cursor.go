package memtable

import (
	"memlsm/pkg/types"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Cursor walks a Table forward from a seek position. It borrows the table:
// writes to the table while a cursor is live leave the cursor undefined.
type Cursor struct {
	it    redblacktree.Iterator
	valid bool
}

// Peek returns the current association without consuming it.
func (c *Cursor) Peek() (types.Key, Entry, bool) {
	if !c.valid {
		return "", Entry{}, false
	}
	return c.it.Key().(types.Key), c.it.Value().(Entry), true
}

// Next consumes and returns the current association.
func (c *Cursor) Next() (types.Key, Entry, bool) {
	key, e, ok := c.Peek()
	if ok {
		c.valid = c.it.Next()
	}
	return key, e, ok
}
