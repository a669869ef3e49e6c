package listener

import (
	"context"
	"log/slog"
)

// Handler processes one value received by a Listener. A returned error is
// logged and the listener keeps going.
type Handler[T any] func(ctx context.Context, input T) error

// Listener drains a channel on behalf of an observer, e.g. the freeze
// handoff of a store.
type Listener[T any] struct {
	name    string
	in      <-chan T
	handler Handler[T]
	log     *slog.Logger
}

func New[T any](name string, in <-chan T, handler Handler[T], logger *slog.Logger) *Listener[T] {
	if logger == nil {
		logger = slog.Default()
	}

	return &Listener[T]{
		name:    name,
		in:      in,
		handler: handler,
		log:     logger.With("listener", name),
	}
}

// Run blocks until ctx is done or the input channel is closed.
func (l *Listener[T]) Run(ctx context.Context) error {
	l.log.Debug("listener started")
	defer l.log.Debug("listener stopped")

	for {
		select {
		case inp, ok := <-l.in:
			if !ok {
				return nil
			}
			if err := l.handler(ctx, inp); err != nil {
				l.log.Error("failed to handle input", "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
