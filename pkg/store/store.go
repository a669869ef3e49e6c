package store

import (
	"bytes"
	"fmt"
	"log/slog"

	"memlsm/pkg/dberrors"
	"memlsm/pkg/iterator"
	"memlsm/pkg/memtable"
	"memlsm/pkg/types"

	"github.com/google/uuid"
)

// Store is the in-memory write and read path: an active memtable, at most
// one frozen memtable awaiting a flush, and prefix scans merging both.
//
// A Store is not safe for concurrent use. Callers must not write while an
// iterator returned by Seek is still being consumed.
type Store struct {
	location  string
	threshold int
	log       *slog.Logger

	active    *memtable.Table
	frozen    *memtable.Table
	frozenGen uuid.UUID

	events chan FreezeEvent
	closed bool
}

// Open creates an empty store. location is where a persistence collaborator
// would keep its files; the store only remembers it.
func Open(location string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.threshold <= 0 {
		return nil, fmt.Errorf("%w: freeze threshold must be positive, got %d", dberrors.ErrOpen, o.threshold)
	}
	if o.eventsBuffer < 0 {
		return nil, fmt.Errorf("%w: events buffer must not be negative, got %d", dberrors.ErrOpen, o.eventsBuffer)
	}

	s := &Store{
		location:  location,
		threshold: o.threshold,
		log:       o.logger.With("component", "store"),
		active:    memtable.New(),
		events:    make(chan FreezeEvent, o.eventsBuffer),
	}
	s.log.Debug("store opened", "location", location, "freeze_threshold", o.threshold)

	return s, nil
}

func (s *Store) Location() string {
	return s.location
}

func (s *Store) Put(key types.Key, value types.Value) error {
	return s.upsert(key, memtable.Present(bytes.Clone(value)))
}

func (s *Store) PutString(key, value string) error {
	return s.upsert(key, memtable.Present([]byte(value)))
}

// Delete writes a tombstone so that older values in the frozen memtable stay
// hidden.
func (s *Store) Delete(key types.Key) error {
	return s.upsert(key, memtable.Deleted())
}

func (s *Store) upsert(key types.Key, e memtable.Entry) error {
	s.active.Upsert(key, e)
	if s.active.Size() >= s.threshold {
		s.freeze()
	}

	return nil
}

// Get returns the most recent value of key. A tombstone in the active
// memtable is final and the frozen memtable is not consulted.
func (s *Store) Get(key types.Key) (types.Value, bool, error) {
	e, ok := s.active.Get(key)
	if !ok && s.frozen != nil {
		e, ok = s.frozen.Get(key)
	}

	if !ok || e.IsDeleted() {
		return nil, false, nil
	}

	return bytes.Clone(e.Value()), true, nil
}

func (s *Store) GetString(key string) (string, bool, error) {
	v, found, err := s.Get(key)
	if err != nil || !found {
		return "", found, err
	}

	return string(v), true, nil
}

// Seek returns the live keys starting with prefix in ascending order.
// The iterator borrows both memtables; any write, including one that
// triggers a freeze, invalidates it.
func (s *Store) Seek(prefix types.Key) (*iterator.MergeIterator, error) {
	sources := []iterator.Source{s.active.Seek(prefix)}
	if s.frozen != nil {
		sources = append(sources, s.frozen.Seek(prefix))
	}

	return iterator.NewMerge(prefix, sources, iterator.WithTieBreak(iterator.NewestWins)), nil
}

// Close closes the freeze handoff channel. The data stays readable.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}
