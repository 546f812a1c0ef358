// Package snapshot stores the latest folded read models so queries do not
// have to replay full streams. Snapshots are a cache over the event log:
// the log stays authoritative and a snapshot can always be recomputed from
// it (see Rebuild).
package snapshot

import (
	"context"
	"errors"

	"github.com/convene-app/convene/internal/match/domain"
)

// ErrNotFound reports that no snapshot exists for the requested id.
var ErrNotFound = errors.New("snapshot not found")

// MatchStore persists match read models keyed by aggregate id.
type MatchStore interface {
	// Save upserts the snapshot for match.ID.
	Save(ctx context.Context, match domain.Match) error
	// Get returns the snapshot for id, or ErrNotFound.
	Get(ctx context.Context, id string) (domain.Match, error)
	// Delete removes the snapshot for id. Deleting a missing snapshot is
	// not an error.
	Delete(ctx context.Context, id string) error
}

// ActorStore persists actor read models keyed by aggregate id.
type ActorStore interface {
	Save(ctx context.Context, actor domain.Actor) error
	Get(ctx context.Context, id string) (domain.Actor, error)
	Delete(ctx context.Context, id string) error
}
