package dberrors

import "errors"

var (
	// ErrOpen is reserved for location validation failures.
	ErrOpen = errors.New("memlsm: open failed")
	// ErrWrite is reserved for failures reported by a persistence collaborator.
	ErrWrite = errors.New("memlsm: write failed")
	// ErrRead is reserved for failures reported by a persistence collaborator.
	ErrRead = errors.New("memlsm: read failed")

	// ErrUnknownGeneration is returned when releasing a frozen memtable that
	// is not the pending one.
	ErrUnknownGeneration = errors.New("memlsm: unknown frozen generation")
)
