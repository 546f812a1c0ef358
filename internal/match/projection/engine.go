package projection

import (
	"context"
	"fmt"
	"sort"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
)

// Engine reads aggregate streams out of an event log and folds them into
// read models on demand. It keeps no state of its own.
type Engine struct {
	log eventlog.Log
}

// NewEngine returns an engine backed by the given log.
func NewEngine(log eventlog.Log) *Engine {
	return &Engine{log: log}
}

// Match folds the stream for the given aggregate into a match read model.
// It returns nil without error when the stream holds no match.created event.
func (e *Engine) Match(ctx context.Context, id string) (*domain.Match, error) {
	events, err := e.log.EventsByAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load match stream: %w", err)
	}
	return FoldMatch(events), nil
}

// Actor folds the stream for the given aggregate into an actor read model.
func (e *Engine) Actor(ctx context.Context, id string) (*domain.Actor, error) {
	events, err := e.log.EventsByAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load actor stream: %w", err)
	}
	return FoldActor(events), nil
}

// Identity folds the stream for the given aggregate into a temporal
// identity read model.
func (e *Engine) Identity(ctx context.Context, id string) (*domain.TemporalIdentity, error) {
	events, err := e.log.EventsByAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load identity stream: %w", err)
	}
	return FoldIdentity(events), nil
}

// Rule folds the stream for the given aggregate into a governance rule
// read model.
func (e *Engine) Rule(ctx context.Context, id string) (*domain.GovernanceRule, error) {
	events, err := e.log.EventsByAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load rule stream: %w", err)
	}
	return FoldRule(events), nil
}

// Negotiation folds the stream for the given aggregate into a negotiation
// read model.
func (e *Engine) Negotiation(ctx context.Context, id string) (*domain.Negotiation, error) {
	events, err := e.log.EventsByAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load negotiation stream: %w", err)
	}
	return FoldNegotiation(events), nil
}

// AllMatches folds every match stream in the log, grouping match-vocabulary
// events by aggregate in a single pass. Results are ordered by creation
// time, oldest first, with aggregate ID as a tiebreak.
func (e *Engine) AllMatches(ctx context.Context) ([]*domain.Match, error) {
	streams, err := e.matchStreams(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]*domain.Match, 0, len(streams))
	for _, stream := range streams {
		if match := FoldMatch(stream); match != nil {
			matches = append(matches, match)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

// MatchesByOrganizer folds every match stream and keeps the matches the
// given actor organizes. Ordering follows AllMatches.
func (e *Engine) MatchesByOrganizer(ctx context.Context, organizerID string) ([]*domain.Match, error) {
	matches, err := e.AllMatches(ctx)
	if err != nil {
		return nil, err
	}
	owned := matches[:0]
	for _, match := range matches {
		if match.OrganizerID == organizerID {
			owned = append(owned, match)
		}
	}
	return owned, nil
}

func (e *Engine) matchStreams(ctx context.Context) (map[string][]event.Event, error) {
	streams := make(map[string][]event.Event)
	for _, eventType := range event.MatchTypes() {
		events, err := e.log.EventsByType(ctx, eventType)
		if err != nil {
			return nil, fmt.Errorf("load %s events: %w", eventType, err)
		}
		for _, evt := range events {
			streams[evt.AggregateID] = append(streams[evt.AggregateID], evt)
		}
	}
	return streams, nil
}
