// Package service is the command layer over the event log.
//
// Services orchestrate: load the current projection, check business rules,
// append exactly one event, and persist the recomputed snapshot. A command
// that fails a business rule appends nothing. Infrastructure errors from
// the log or snapshot stores propagate wrapped but untranslated.
package service

import (
	"time"

	"github.com/convene-app/convene/internal/platform/id"
)

type options struct {
	clock       func() time.Time
	idGenerator func() (string, error)
}

func defaultOptions() options {
	return options{clock: time.Now, idGenerator: id.NewID}
}

// Option configures a service.
type Option func(*options)

// WithClock overrides the command timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithIDGenerator overrides the aggregate id source.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(o *options) { o.idGenerator = generator }
}

func buildOptions(opts []Option) options {
	built := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&built)
		}
	}
	return built
}
