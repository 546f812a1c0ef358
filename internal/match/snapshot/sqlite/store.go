// Package sqlite provides durable SQLite-backed snapshot stores.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/snapshot"
	"github.com/convene-app/convene/internal/match/snapshot/sqlite/migrations"
	"github.com/convene-app/convene/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// DB is a shared SQLite handle for the match and actor snapshot stores.
type DB struct {
	sqlDB *sql.DB
}

// Open opens a SQLite snapshot database and applies embedded migrations.
func Open(path string) (*DB, error) {
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
	return &DB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (db *DB) Close() error {
	if db == nil || db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// Matches returns the match snapshot store backed by this database.
func (db *DB) Matches() *MatchStore {
	return &MatchStore{sqlDB: db.sqlDB}
}

// Actors returns the actor snapshot store backed by this database.
func (db *DB) Actors() *ActorStore {
	return &ActorStore{sqlDB: db.sqlDB}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	ts := fromMillis(value.Int64)
	return &ts
}

// MatchStore persists match snapshots in the matches table.
type MatchStore struct {
	sqlDB *sql.DB
}

// Save upserts the snapshot for match.ID.
func (s *MatchStore) Save(ctx context.Context, match domain.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if match.ID == "" {
		return fmt.Errorf("match id is required")
	}

	participants, err := json.Marshal(match.ParticipantIDs)
	if err != nil {
		return fmt.Errorf("encode participant ids: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO matches (
			id, state, organizer_id, participant_ids, scheduled_at,
			duration_minutes, location, notes, version, created_at,
			updated_at, completed_at, cancelled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			organizer_id = excluded.organizer_id,
			participant_ids = excluded.participant_ids,
			scheduled_at = excluded.scheduled_at,
			duration_minutes = excluded.duration_minutes,
			location = excluded.location,
			notes = excluded.notes,
			version = excluded.version,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			completed_at = excluded.completed_at,
			cancelled_at = excluded.cancelled_at`,
		match.ID,
		string(match.State),
		match.OrganizerID,
		string(participants),
		toMillis(match.ScheduledAt),
		match.DurationMinutes,
		match.Location,
		match.Notes,
		match.Version,
		toMillis(match.CreatedAt),
		toMillis(match.UpdatedAt),
		toNullMillis(match.CompletedAt),
		toNullMillis(match.CancelledAt),
	)
	if err != nil {
		return fmt.Errorf("save match snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot for id, or snapshot.ErrNotFound.
func (s *MatchStore) Get(ctx context.Context, id string) (domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return domain.Match{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Match{}, fmt.Errorf("storage is not configured")
	}

	var (
		match        domain.Match
		state        string
		participants string
		scheduledAt  int64
		createdAt    int64
		updatedAt    int64
		completedAt  sql.NullInt64
		cancelledAt  sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, state, organizer_id, participant_ids, scheduled_at,
		        duration_minutes, location, notes, version, created_at,
		        updated_at, completed_at, cancelled_at
		   FROM matches WHERE id = ?`,
		id,
	).Scan(
		&match.ID,
		&state,
		&match.OrganizerID,
		&participants,
		&scheduledAt,
		&match.DurationMinutes,
		&match.Location,
		&match.Notes,
		&match.Version,
		&createdAt,
		&updatedAt,
		&completedAt,
		&cancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Match{}, snapshot.ErrNotFound
	}
	if err != nil {
		return domain.Match{}, fmt.Errorf("load match snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(participants), &match.ParticipantIDs); err != nil {
		return domain.Match{}, fmt.Errorf("decode participant ids: %w", err)
	}
	match.State = domain.MatchState(state)
	match.ScheduledAt = fromMillis(scheduledAt)
	match.CreatedAt = fromMillis(createdAt)
	match.UpdatedAt = fromMillis(updatedAt)
	match.CompletedAt = fromNullMillis(completedAt)
	match.CancelledAt = fromNullMillis(cancelledAt)
	return match, nil
}

// Delete removes the snapshot for id.
func (s *MatchStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete match snapshot: %w", err)
	}
	return nil
}

// ActorStore persists actor snapshots in the actors table.
type ActorStore struct {
	sqlDB *sql.DB
}

// Save upserts the snapshot for actor.ID.
func (s *ActorStore) Save(ctx context.Context, actor domain.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if actor.ID == "" {
		return fmt.Errorf("actor id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO actors (
			id, name, email, phone, bio, location, trust_score,
			trust_level, matches_confirmed, matches_completed,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			bio = excluded.bio,
			location = excluded.location,
			trust_score = excluded.trust_score,
			trust_level = excluded.trust_level,
			matches_confirmed = excluded.matches_confirmed,
			matches_completed = excluded.matches_completed,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		actor.ID,
		actor.Name,
		actor.Email,
		actor.Phone,
		actor.Bio,
		actor.Location,
		actor.TrustScore,
		string(actor.TrustLevel),
		actor.MatchesConfirmed,
		actor.MatchesCompleted,
		toMillis(actor.CreatedAt),
		toMillis(actor.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save actor snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot for id, or snapshot.ErrNotFound.
func (s *ActorStore) Get(ctx context.Context, id string) (domain.Actor, error) {
	if err := ctx.Err(); err != nil {
		return domain.Actor{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Actor{}, fmt.Errorf("storage is not configured")
	}

	var (
		actor      domain.Actor
		trustLevel string
		createdAt  int64
		updatedAt  int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, email, phone, bio, location, trust_score,
		        trust_level, matches_confirmed, matches_completed,
		        created_at, updated_at
		   FROM actors WHERE id = ?`,
		id,
	).Scan(
		&actor.ID,
		&actor.Name,
		&actor.Email,
		&actor.Phone,
		&actor.Bio,
		&actor.Location,
		&actor.TrustScore,
		&trustLevel,
		&actor.MatchesConfirmed,
		&actor.MatchesCompleted,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Actor{}, snapshot.ErrNotFound
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("load actor snapshot: %w", err)
	}

	actor.TrustLevel = domain.TrustLevel(trustLevel)
	actor.CreatedAt = fromMillis(createdAt)
	actor.UpdatedAt = fromMillis(updatedAt)
	return actor, nil
}

// Delete removes the snapshot for id.
func (s *ActorStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete actor snapshot: %w", err)
	}
	return nil
}

var (
	_ snapshot.MatchStore = (*MatchStore)(nil)
	_ snapshot.ActorStore = (*ActorStore)(nil)
)
