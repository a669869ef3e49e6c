package store

import "log/slog"

const (
	// DefaultFreezeThreshold is the accounted size at which the active
	// memtable is frozen.
	DefaultFreezeThreshold = 1024 * 1024
	// DefaultEventsBuffer is the capacity of the freeze handoff channel.
	DefaultEventsBuffer = 1
)

type options struct {
	threshold    int
	eventsBuffer int
	logger       *slog.Logger
}

type Option func(*options)

func defaultOptions() options {
	return options{
		threshold:    DefaultFreezeThreshold,
		eventsBuffer: DefaultEventsBuffer,
		logger:       slog.Default(),
	}
}

// WithFreezeThreshold overrides the accounted size that triggers a freeze.
func WithFreezeThreshold(bytes int) Option {
	return func(o *options) {
		o.threshold = bytes
	}
}

// WithEventsBuffer sets the capacity of the freeze handoff channel.
func WithEventsBuffer(n int) Option {
	return func(o *options) {
		o.eventsBuffer = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
