package eventlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/platform/id"
)

// Memory is an in-process event log.
//
// It is an explicit store object with injected lifecycle: construct one at
// startup and pass it by handle, no package-level state. Safe for
// concurrent use.
type Memory struct {
	mu          sync.RWMutex
	events      []event.Event
	byAggregate map[string][]int
	byType      map[event.Type][]int
	clock       func() time.Time
	idGenerator func() (string, error)
}

// MemoryOption configures a Memory log.
type MemoryOption func(*Memory)

// WithClock overrides the append timestamp source.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) { m.clock = clock }
}

// WithIDGenerator overrides the event id source.
func WithIDGenerator(generator func() (string, error)) MemoryOption {
	return func(m *Memory) { m.idGenerator = generator }
}

// NewMemory creates an empty in-memory event log.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		byAggregate: make(map[string][]int),
		byType:      make(map[event.Type][]int),
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Append stores an event and updates both secondary indexes atomically.
func (m *Memory) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if m == nil {
		return event.Event{}, fmt.Errorf("event log is not configured")
	}
	if !evt.Type.IsValid() {
		return event.Event{}, fmt.Errorf("event type is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if evt.ID == "" {
		generated, err := m.idGenerator()
		if err != nil {
			return event.Event{}, fmt.Errorf("generate event id: %w", err)
		}
		evt.ID = generated
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = m.clock().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	evt.Seq = uint64(len(m.events) + 1)

	index := len(m.events)
	m.events = append(m.events, evt)
	if evt.AggregateID != "" {
		m.byAggregate[evt.AggregateID] = append(m.byAggregate[evt.AggregateID], index)
	}
	m.byType[evt.Type] = append(m.byType[evt.Type], index)

	return evt, nil
}

// EventsByAggregate returns events for one aggregate in append order.
func (m *Memory) EventsByAggregate(ctx context.Context, aggregateID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(m.byAggregate[aggregateID]), nil
}

// EventsByType returns events of one type in append order.
func (m *Memory) EventsByType(ctx context.Context, t event.Type) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(m.byType[t]), nil
}

// AllEvents returns the full log in append order.
func (m *Memory) AllEvents(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]event.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

// EventsSince returns events with Timestamp at or after ts, in append order.
func (m *Memory) EventsSince(ctx context.Context, ts time.Time) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []event.Event
	for _, evt := range m.events {
		if !evt.Timestamp.Before(ts) {
			out = append(out, evt)
		}
	}
	if out == nil {
		out = []event.Event{}
	}
	return out, nil
}

// Len returns the number of stored events.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

func (m *Memory) collect(indexes []int) []event.Event {
	out := make([]event.Event, 0, len(indexes))
	for _, index := range indexes {
		out = append(out, m.events[index])
	}
	return out
}

var _ Log = (*Memory)(nil)
