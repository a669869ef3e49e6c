package memtable

import "memlsm/pkg/types"

// Item is one association of a table in key order.
type Item struct {
	Key   types.Key
	Entry Entry
}

// SortedSet is the read-only view of a frozen table handed to a flush
// collaborator.
type SortedSet interface {
	Sorted() []Item
	Len() int
	Size() int
}

var _ SortedSet = (*Table)(nil)

// Sorted materialises every association, tombstones included, in key order.
func (t *Table) Sorted() []Item {
	result := make([]Item, 0, t.tree.Size())
	it := t.tree.Iterator()
	for it.Next() {
		result = append(result, Item{
			Key:   it.Key().(types.Key),
			Entry: it.Value().(Entry),
		})
	}

	return result
}
