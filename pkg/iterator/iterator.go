package iterator

import (
	"bytes"
	"iter"
	"strings"

	"memlsm/pkg/memtable"
	"memlsm/pkg/types"
)

// Source is one ordered input of a MergeIterator. memtable.Cursor implements it.
type Source interface {
	// Peek returns the current association without consuming it.
	Peek() (types.Key, memtable.Entry, bool)
	// Next consumes and returns the current association.
	Next() (types.Key, memtable.Entry, bool)
}

var _ Source = (*memtable.Cursor)(nil)

// TieBreak picks the winner among sources positioned at the same key.
// candidates holds source indexes in ascending order and is never empty.
type TieBreak func(candidates []int) int

// NewestWins expects sources ordered newest first and picks the newest one.
func NewestWins(candidates []int) int {
	return candidates[0]
}

type Option func(*MergeIterator)

func WithTieBreak(tb TieBreak) Option {
	return func(m *MergeIterator) {
		m.tieBreak = tb
	}
}

// KV is a live association yielded by a MergeIterator.
type KV struct {
	Key   types.Key
	Value types.Value
}

// MergeIterator merges ordered sources into one ascending sequence of live
// keys sharing a prefix. Each distinct key is decided once: the tie-break
// winner's entry is used and the others are discarded, tombstones included.
// It is single-pass.
type MergeIterator struct {
	sources  []Source
	prefix   types.Key
	tieBreak TieBreak

	tied  []int
	key   types.Key
	value types.Value
	done  bool
}

// NewMerge builds a MergeIterator. Every source must already be positioned at
// its first key >= prefix.
func NewMerge(prefix types.Key, sources []Source, opts ...Option) *MergeIterator {
	m := &MergeIterator{
		sources:  sources,
		prefix:   prefix,
		tieBreak: NewestWins,
		tied:     make([]int, 0, len(sources)),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Next advances to the next live key and reports whether there is one.
func (m *MergeIterator) Next() bool {
	if m.done {
		return false
	}

	for {
		key, e, ok := m.pick()
		if !ok || !strings.HasPrefix(key, m.prefix) {
			// sources are unbounded above, nothing past here can match
			m.Close()
			return false
		}
		if e.IsDeleted() {
			continue
		}

		m.key = key
		m.value = bytes.Clone(e.Value())
		return true
	}
}

// Key returns the current key. Valid only after Next returned true.
func (m *MergeIterator) Key() types.Key {
	return m.key
}

// Value returns a copy of the current payload.
func (m *MergeIterator) Value() types.Value {
	return m.value
}

// All adapts the iterator to a range-over-func sequence.
func (m *MergeIterator) All() iter.Seq2[types.Key, types.Value] {
	return func(yield func(types.Key, types.Value) bool) {
		for m.Next() {
			if !yield(m.key, m.value) {
				return
			}
		}
	}
}

// Collect drains the remaining sequence.
func (m *MergeIterator) Collect() []KV {
	var result []KV
	for key, value := range m.All() {
		result = append(result, KV{Key: key, Value: value})
	}

	return result
}

// Close ends the sequence and releases the sources.
func (m *MergeIterator) Close() {
	m.done = true
	m.sources = nil
	m.key, m.value = "", nil
}

// pick consumes the smallest key across all sources and returns the entry of
// the tie-break winner.
func (m *MergeIterator) pick() (types.Key, memtable.Entry, bool) {
	var smallest types.Key
	m.tied = m.tied[:0]

	for i, src := range m.sources {
		key, _, ok := src.Peek()
		if !ok {
			continue
		}

		switch {
		case len(m.tied) == 0 || key < smallest:
			smallest = key
			m.tied = append(m.tied[:0], i)
		case key == smallest:
			m.tied = append(m.tied, i)
		}
	}

	if len(m.tied) == 0 {
		return "", memtable.Entry{}, false
	}

	winner := m.tieBreak(m.tied)

	var entry memtable.Entry
	for _, i := range m.tied {
		_, e, _ := m.sources[i].Next()
		if i == winner {
			entry = e
		}
	}

	return smallest, entry, true
}
