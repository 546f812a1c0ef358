package snapshot

import (
	"context"
	"fmt"

	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
	"github.com/convene-app/convene/internal/match/projection"
)

// Rebuild recomputes every match and actor snapshot from the full event
// log and upserts the results. Stale snapshots for aggregates that still
// have a creation event are overwritten; aggregates missing from the log
// are left alone.
func Rebuild(ctx context.Context, log eventlog.Log, matches MatchStore, actors ActorStore) error {
	events, err := log.AllEvents(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	matchStreams := make(map[string][]event.Event)
	actorStreams := make(map[string][]event.Event)
	for _, evt := range events {
		switch evt.Type.Domain() {
		case "match":
			matchStreams[evt.AggregateID] = append(matchStreams[evt.AggregateID], evt)
		case "actor":
			actorStreams[evt.AggregateID] = append(actorStreams[evt.AggregateID], evt)
		}
	}

	for aggregateID, stream := range matchStreams {
		match := projection.FoldMatch(stream)
		if match == nil {
			continue
		}
		if err := matches.Save(ctx, *match); err != nil {
			return fmt.Errorf("save match snapshot %s: %w", aggregateID, err)
		}
	}
	for aggregateID, stream := range actorStreams {
		actor := projection.FoldActor(stream)
		if actor == nil {
			continue
		}
		if err := actors.Save(ctx, *actor); err != nil {
			return fmt.Errorf("save actor snapshot %s: %w", aggregateID, err)
		}
	}
	return nil
}
