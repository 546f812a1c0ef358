// Package eventlog defines the append-only event log contract.
//
// The log is the only source of truth: read models are always derived by
// replaying event streams, never written around the log. Appends are
// atomic with their index updates, so a read immediately following a
// successful append observes the event in both the aggregate and type
// views.
package eventlog

import (
	"context"
	"time"

	"github.com/convene-app/convene/internal/match/event"
)

// Log is the append-only event store.
//
// All read methods return events in append order; the durable store keeps
// that order stable under timestamp ties by ordering on (timestamp, seq).
// Queries for unknown aggregate ids return an empty slice, not an error.
type Log interface {
	// Append stores an event, assigning ID when empty, Timestamp when zero,
	// and Seq always, and returns the stored record. Duplicate
	// application-supplied IDs are not rejected: each append is a new log
	// entry. Append fails only on infrastructure unavailability, never on
	// payload shape.
	Append(ctx context.Context, evt event.Event) (event.Event, error)
	// EventsByAggregate returns all events for one aggregate.
	EventsByAggregate(ctx context.Context, aggregateID string) ([]event.Event, error)
	// EventsByType returns all events of one type.
	EventsByType(ctx context.Context, t event.Type) ([]event.Event, error)
	// AllEvents returns the full log.
	AllEvents(ctx context.Context) ([]event.Event, error)
	// EventsSince returns events with Timestamp at or after ts.
	EventsSince(ctx context.Context, ts time.Time) ([]event.Event, error)
}
