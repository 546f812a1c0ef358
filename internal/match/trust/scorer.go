// Package trust computes actor reliability scores from the event log.
//
// Scores are recomputed on demand by scanning every confirmation and
// completion event in the log, so a score is always consistent with the
// full history at call time. The scan is linear in total event count.
package trust

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
)

// Rating is the outcome of one trust computation.
type Rating struct {
	ActorID        string
	Score          float64
	Level          domain.TrustLevel
	ConfirmedCount int
	CompletedCount int
}

// Scorer derives trust ratings from match confirmation and completion
// events attributed to an actor.
type Scorer struct {
	log eventlog.Log
}

// NewScorer returns a scorer backed by the given log.
func NewScorer(log eventlog.Log) *Scorer {
	return &Scorer{log: log}
}

// Score computes the actor's rating as completed over confirmed across the
// whole log. An actor with no confirmations scores zero regardless of
// completions.
func (s *Scorer) Score(ctx context.Context, actorID string) (Rating, error) {
	confirmed, err := s.countAttributed(ctx, event.TypeMatchConfirmed, actorID)
	if err != nil {
		return Rating{}, err
	}
	completed, err := s.countAttributed(ctx, event.TypeMatchCompleted, actorID)
	if err != nil {
		return Rating{}, err
	}

	score := 0.0
	if confirmed > 0 {
		score = float64(completed) / float64(confirmed)
	}

	return Rating{
		ActorID:        actorID,
		Score:          score,
		Level:          domain.TrustLevelForScore(score),
		ConfirmedCount: confirmed,
		CompletedCount: completed,
	}, nil
}

func (s *Scorer) countAttributed(ctx context.Context, eventType event.Type, actorID string) (int, error) {
	events, err := s.log.EventsByType(ctx, eventType)
	if err != nil {
		return 0, fmt.Errorf("load %s events: %w", eventType, err)
	}

	count := 0
	for _, evt := range events {
		if attributedActor(evt) == actorID {
			count++
		}
	}
	return count, nil
}

// attributedActor extracts the acting actor from a confirmation or
// completion payload. Unreadable payloads attribute to nobody.
func attributedActor(evt event.Event) string {
	switch evt.Type {
	case event.TypeMatchConfirmed:
		var payload event.MatchConfirmedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return ""
		}
		return payload.ConfirmedBy
	case event.TypeMatchCompleted:
		var payload event.MatchCompletedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return ""
		}
		return payload.CompletedBy
	default:
		return ""
	}
}
