package store

import (
	"fmt"

	"memlsm/pkg/dberrors"
	"memlsm/pkg/memtable"

	"github.com/google/uuid"
)

// FreezeEvent announces a frozen memtable to whoever is going to persist it.
type FreezeEvent struct {
	Generation uuid.UUID
	Keys       int
	Bytes      int
	Table      memtable.SortedSet
}

// FreezeEvents returns the handoff channel. It is closed by Close and stays
// closed, so a consumer started after Close returns at once.
func (s *Store) FreezeEvents() <-chan FreezeEvent {
	return s.events
}

// Release drops the frozen memtable once a flush collaborator has persisted
// it. The generation must match the one announced in the FreezeEvent.
func (s *Store) Release(gen uuid.UUID) error {
	if s.frozen == nil || gen != s.frozenGen {
		return fmt.Errorf("release %s: %w", gen, dberrors.ErrUnknownGeneration)
	}

	s.frozen = nil
	s.frozenGen = uuid.Nil
	s.log.Info("frozen memtable released", "generation", gen)

	return nil
}

// freeze retires the active memtable. Only one frozen memtable may exist:
// reaching here with one already present means nothing released it.
func (s *Store) freeze() {
	if s.frozen != nil {
		panic(fmt.Sprintf(
			"memlsm: freeze with frozen memtable %s still pending release",
			s.frozenGen,
		))
	}

	s.frozen = s.active
	s.frozenGen = uuid.New()
	s.active = memtable.New()

	ev := FreezeEvent{
		Generation: s.frozenGen,
		Keys:       s.frozen.Len(),
		Bytes:      s.frozen.Size(),
		Table:      s.frozen,
	}

	s.log.Info("memtable frozen",
		"generation", ev.Generation,
		"keys", ev.Keys,
		"bytes", ev.Bytes,
	)

	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.log.Warn("freeze event dropped, handoff buffer is full", "generation", ev.Generation)
	}
}
