package memtable

import "memlsm/pkg/types"

// TombstoneLen is the accounted size of a Deleted entry.
const TombstoneLen = 1

type entryKind uint8

const (
	kindPresent entryKind = iota
	kindDeleted
)

// Entry is either a live payload or a tombstone. The zero value is an empty
// Present entry.
type Entry struct {
	kind  entryKind
	value types.Value
}

// Present wraps value as a live entry. The slice is retained, not copied.
func Present(value types.Value) Entry {
	return Entry{kind: kindPresent, value: value}
}

// Deleted returns a tombstone.
func Deleted() Entry {
	return Entry{kind: kindDeleted}
}

func (e Entry) IsDeleted() bool {
	return e.kind == kindDeleted
}

// Value returns the payload, or nil for a tombstone.
func (e Entry) Value() types.Value {
	if e.kind == kindDeleted {
		return nil
	}
	return e.value
}

// Len returns the entry's on-disk footprint.
func (e Entry) Len() int {
	if e.kind == kindDeleted {
		return TombstoneLen
	}
	return len(e.value)
}
