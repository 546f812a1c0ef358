// Package sqlite provides a durable SQLite-backed event log.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
	"github.com/convene-app/convene/internal/match/eventlog/sqlite/migrations"
	"github.com/convene-app/convene/internal/platform/id"
	"github.com/convene-app/convene/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists the append-only event log in SQLite.
//
// Each successful Append is committed before the call returns, and reads
// order on (timestamp, seq) so timestamp ties stay stable by append order.
type Store struct {
	sqlDB       *sql.DB
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the append timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator overrides the event id source.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(s *Store) { s.idGenerator = generator }
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite event log store and applies embedded migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	store := &Store{sqlDB: sqlDB, clock: time.Now, idGenerator: id.NewID}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Append durably stores an event and returns it with ID, Timestamp, and Seq set.
func (s *Store) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	if !evt.Type.IsValid() {
		return event.Event{}, fmt.Errorf("event type is required")
	}

	if evt.ID == "" {
		generated, err := s.idGenerator()
		if err != nil {
			return event.Event{}, fmt.Errorf("generate event id: %w", err)
		}
		evt.ID = generated
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.clock().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (event_id, aggregate_id, event_type, timestamp, payload_json)
		 VALUES (?, ?, ?, ?, ?)`,
		evt.ID,
		evt.AggregateID,
		string(evt.Type),
		toMillis(evt.Timestamp),
		evt.PayloadJSON,
	)
	if err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return event.Event{}, fmt.Errorf("read event seq: %w", err)
	}
	evt.Seq = uint64(seq)
	return evt, nil
}

// EventsByAggregate returns events for one aggregate ordered by (timestamp, seq).
func (s *Store) EventsByAggregate(ctx context.Context, aggregateID string) ([]event.Event, error) {
	if aggregateID == "" {
		return []event.Event{}, nil
	}
	return s.query(ctx,
		`SELECT seq, event_id, aggregate_id, event_type, timestamp, payload_json
		   FROM events
		  WHERE aggregate_id = ?
		  ORDER BY timestamp, seq`,
		aggregateID,
	)
}

// EventsByType returns events of one type ordered by (timestamp, seq).
func (s *Store) EventsByType(ctx context.Context, t event.Type) ([]event.Event, error) {
	return s.query(ctx,
		`SELECT seq, event_id, aggregate_id, event_type, timestamp, payload_json
		   FROM events
		  WHERE event_type = ?
		  ORDER BY timestamp, seq`,
		string(t),
	)
}

// AllEvents returns the full log ordered by (timestamp, seq).
func (s *Store) AllEvents(ctx context.Context) ([]event.Event, error) {
	return s.query(ctx,
		`SELECT seq, event_id, aggregate_id, event_type, timestamp, payload_json
		   FROM events
		  ORDER BY timestamp, seq`,
	)
}

// EventsSince returns events with timestamp at or after ts.
func (s *Store) EventsSince(ctx context.Context, ts time.Time) ([]event.Event, error) {
	return s.query(ctx,
		`SELECT seq, event_id, aggregate_id, event_type, timestamp, payload_json
		   FROM events
		  WHERE timestamp >= ?
		  ORDER BY timestamp, seq`,
		toMillis(ts),
	)
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []event.Event{}
	for rows.Next() {
		var (
			evt       event.Event
			seq       int64
			eventType string
			timestamp int64
		)
		if err := rows.Scan(&seq, &evt.ID, &evt.AggregateID, &eventType, &timestamp, &evt.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Type = event.Type(eventType)
		evt.Timestamp = fromMillis(timestamp)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

var _ eventlog.Log = (*Store)(nil)
