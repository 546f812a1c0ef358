package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/snapshot"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("open snapshot db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close snapshot db: %v", err)
		}
	})
	return db
}

func sampleMatch(id string) domain.Match {
	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	return domain.Match{
		ID:              id,
		State:           domain.MatchStateProposed,
		OrganizerID:     "actor-1",
		ParticipantIDs:  []string{"actor-1", "actor-2"},
		ScheduledAt:     created.Add(48 * time.Hour),
		DurationMinutes: 90,
		Location:        "court 4",
		Notes:           "bring spare shuttles",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open with blank path succeeded")
	}
}

func TestMatchStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	want := sampleMatch("match-1")
	if err := db.Matches().Save(ctx, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := db.Matches().Get(ctx, "match-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.State != want.State || got.OrganizerID != want.OrganizerID {
		t.Errorf("snapshot = (%q, %q), want (%q, %q)", got.State, got.OrganizerID, want.State, want.OrganizerID)
	}
	if len(got.ParticipantIDs) != 2 || got.ParticipantIDs[1] != "actor-2" {
		t.Errorf("ParticipantIDs = %v, want %v", got.ParticipantIDs, want.ParticipantIDs)
	}
	if !got.ScheduledAt.Equal(want.ScheduledAt) {
		t.Errorf("ScheduledAt = %v, want %v", got.ScheduledAt, want.ScheduledAt)
	}
	if got.CompletedAt != nil || got.CancelledAt != nil {
		t.Errorf("terminal timestamps = (%v, %v), want both nil", got.CompletedAt, got.CancelledAt)
	}
}

func TestMatchStoreUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	match := sampleMatch("match-1")
	if err := db.Matches().Save(ctx, match); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	completedAt := match.CreatedAt.Add(72 * time.Hour)
	match.State = domain.MatchStateCompleted
	match.Version = 2
	match.CompletedAt = &completedAt
	if err := db.Matches().Save(ctx, match); err != nil {
		t.Fatalf("upsert Save() error: %v", err)
	}

	got, err := db.Matches().Get(ctx, "match-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.State != domain.MatchStateCompleted || got.Version != 2 {
		t.Errorf("snapshot = (%q, %d), want (completed, 2)", got.State, got.Version)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completedAt)
	}
}

func TestMatchStoreNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Matches().Get(context.Background(), "missing")
	if !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("Get() error = %v, want snapshot.ErrNotFound", err)
	}
}

func TestMatchStoreDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Matches().Save(ctx, sampleMatch("match-1")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := db.Matches().Delete(ctx, "match-1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := db.Matches().Get(ctx, "match-1"); !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("Get() after delete = %v, want snapshot.ErrNotFound", err)
	}
}

func TestActorStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	want := domain.Actor{
		ID:               "actor-1",
		Name:             "Dana",
		Email:            "dana@example.com",
		Phone:            "+1 555 0100",
		TrustScore:       0.75,
		TrustLevel:       domain.TrustLevelHigh,
		MatchesConfirmed: 4,
		MatchesCompleted: 3,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	if err := db.Actors().Save(ctx, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := db.Actors().Get(ctx, "actor-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.TrustScore != 0.75 || got.TrustLevel != domain.TrustLevelHigh {
		t.Errorf("trust = (%v, %q), want (0.75, high)", got.TrustScore, got.TrustLevel)
	}
	if got.MatchesConfirmed != 4 || got.MatchesCompleted != 3 {
		t.Errorf("counters = (%d, %d), want (4, 3)", got.MatchesConfirmed, got.MatchesCompleted)
	}
}

func TestSnapshotsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open snapshot db: %v", err)
	}
	if err := db.Matches().Save(ctx, sampleMatch("match-1")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close snapshot db: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen snapshot db: %v", err)
	}
	defer reopened.Close()

	match, err := reopened.Matches().Get(ctx, "match-1")
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if match.OrganizerID != "actor-1" {
		t.Errorf("OrganizerID = %q, want actor-1", match.OrganizerID)
	}
}
