package store

import "github.com/google/uuid"

type Stats struct {
	ActiveKeys  int       `json:"active_keys"`
	ActiveBytes int       `json:"active_bytes"`
	HasFrozen   bool      `json:"has_frozen"`
	FrozenKeys  int       `json:"frozen_keys"`
	FrozenBytes int       `json:"frozen_bytes"`
	Generation  uuid.UUID `json:"generation"`
	Threshold   int       `json:"threshold"`
}

func (s *Store) Stats() Stats {
	st := Stats{
		ActiveKeys:  s.active.Len(),
		ActiveBytes: s.active.Size(),
		Threshold:   s.threshold,
	}
	if s.frozen != nil {
		st.HasFrozen = true
		st.FrozenKeys = s.frozen.Len()
		st.FrozenBytes = s.frozen.Size()
		st.Generation = s.frozenGen
	}

	return st
}
