package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
	"github.com/convene-app/convene/internal/match/projection"
	"github.com/convene-app/convene/internal/match/snapshot"
	"github.com/convene-app/convene/internal/match/trust"
	"github.com/convene-app/convene/internal/platform/errors"
)

// MatchService executes match lifecycle commands.
//
// There is no expected-version guard on transitions: two concurrent
// commands against the same match can both pass their precondition checks
// and append contradictory events. Resolution is by fold order; see the
// package tests for the observable behavior.
type MatchService struct {
	log         eventlog.Log
	engine      *projection.Engine
	matches     snapshot.MatchStore
	actors      snapshot.ActorStore
	scorer      *trust.Scorer
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewMatchService returns a match command service over the given log and
// snapshot stores.
func NewMatchService(log eventlog.Log, matches snapshot.MatchStore, actors snapshot.ActorStore, opts ...Option) *MatchService {
	built := buildOptions(opts)
	return &MatchService{
		log:         log,
		engine:      projection.NewEngine(log),
		matches:     matches,
		actors:      actors,
		scorer:      trust.NewScorer(log),
		clock:       built.clock,
		idGenerator: built.idGenerator,
	}
}

// CreateMatchInput carries the fields for proposing a match.
type CreateMatchInput struct {
	OrganizerID     string
	ParticipantIDs  []string
	ScheduledAt     time.Time
	DurationMinutes int
	Location        string
	Notes           string
}

// Create proposes a new match and returns its id. A match needs an
// organizer and at least one participant; violations are rejected before
// any event is appended.
func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (string, error) {
	if input.OrganizerID == "" {
		return "", errors.New(errors.CodeInvalidInput, "organizer id is required")
	}
	if len(input.ParticipantIDs) == 0 {
		return "", errors.New(errors.CodeInvalidInput, "at least one participant is required")
	}
	if input.ScheduledAt.IsZero() {
		return "", errors.New(errors.CodeInvalidInput, "scheduled time is required")
	}

	matchID, err := s.idGenerator()
	if err != nil {
		return "", fmt.Errorf("generate match id: %w", err)
	}

	if err := s.append(ctx, matchID, event.TypeMatchCreated, event.MatchCreatedPayload{
		OrganizerID:     input.OrganizerID,
		ParticipantIDs:  input.ParticipantIDs,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Location:        input.Location,
		Notes:           input.Notes,
	}); err != nil {
		return "", err
	}
	if err := s.refreshSnapshot(ctx, matchID); err != nil {
		return "", err
	}
	return matchID, nil
}

// Confirm moves a proposed match to confirmed on behalf of actorID.
func (s *MatchService) Confirm(ctx context.Context, matchID, actorID string) error {
	return s.transition(ctx, matchID, actorID, domain.MatchStateConfirmed,
		event.TypeMatchConfirmed, event.MatchConfirmedPayload{ConfirmedBy: actorID})
}

// Complete moves a confirmed match to completed on behalf of actorID and
// records a trust update for the completing actor.
func (s *MatchService) Complete(ctx context.Context, matchID, actorID string) error {
	if err := s.transition(ctx, matchID, actorID, domain.MatchStateCompleted,
		event.TypeMatchCompleted, event.MatchCompletedPayload{CompletedBy: actorID}); err != nil {
		return err
	}
	return s.recordTrustUpdate(ctx, actorID)
}

// Cancel moves a live match to cancelled on behalf of actorID.
func (s *MatchService) Cancel(ctx context.Context, matchID, actorID, reason string) error {
	return s.transition(ctx, matchID, actorID, domain.MatchStateCancelled,
		event.TypeMatchCancelled, event.MatchCancelledPayload{CancelledBy: actorID, Reason: reason})
}

// Get returns the current match projection, or NotFound.
func (s *MatchService) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	match, err := s.engine.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, errors.Newf(errors.CodeNotFound, "match %s not found", matchID)
	}
	return match, nil
}

// List returns every match in the log, oldest first.
func (s *MatchService) List(ctx context.Context) ([]*domain.Match, error) {
	return s.engine.AllMatches(ctx)
}

// ListByOrganizer returns the matches organized by the given actor.
func (s *MatchService) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Match, error) {
	return s.engine.MatchesByOrganizer(ctx, organizerID)
}

// transition runs the shared command sequence: load, authorize, check the
// state table, append one event, refresh the snapshot.
func (s *MatchService) transition(ctx context.Context, matchID, actorID string, target domain.MatchState, eventType event.Type, payload any) error {
	match, err := s.engine.Match(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return errors.Newf(errors.CodeNotFound, "match %s not found", matchID)
	}
	if !match.IsParticipant(actorID) {
		return errors.Newf(errors.CodeNotAuthorized, "actor %s may not act on match %s", actorID, matchID)
	}
	if !domain.CanTransition(match.State, target) {
		return errors.Newf(errors.CodeInvalidState, "match %s cannot move from %s to %s", matchID, match.State, target)
	}

	if err := s.append(ctx, matchID, eventType, payload); err != nil {
		return err
	}
	return s.refreshSnapshot(ctx, matchID)
}

// recordTrustUpdate recomputes the actor's trust rating from the full log,
// including the completion just appended, and records it as an event on
// the actor's stream.
func (s *MatchService) recordTrustUpdate(ctx context.Context, actorID string) error {
	rating, err := s.scorer.Score(ctx, actorID)
	if err != nil {
		return err
	}
	if err := s.append(ctx, actorID, event.TypeActorTrustUpdated, event.ActorTrustUpdatedPayload{
		Score:          rating.Score,
		Level:          string(rating.Level),
		ConfirmedCount: rating.ConfirmedCount,
		CompletedCount: rating.CompletedCount,
	}); err != nil {
		return err
	}

	actor, err := s.engine.Actor(ctx, actorID)
	if err != nil {
		return err
	}
	// Completing actors without a profile stream get no snapshot.
	if actor == nil {
		return nil
	}
	if err := s.actors.Save(ctx, *actor); err != nil {
		return fmt.Errorf("save actor snapshot: %w", err)
	}
	return nil
}

func (s *MatchService) append(ctx context.Context, aggregateID string, eventType event.Type, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	if _, err := s.log.Append(ctx, event.Event{
		AggregateID: aggregateID,
		Type:        eventType,
		Timestamp:   s.clock().UTC(),
		PayloadJSON: data,
	}); err != nil {
		return fmt.Errorf("append %s: %w", eventType, err)
	}
	return nil
}

func (s *MatchService) refreshSnapshot(ctx context.Context, matchID string) error {
	match, err := s.engine.Match(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return nil
	}
	if err := s.matches.Save(ctx, *match); err != nil {
		return fmt.Errorf("save match snapshot: %w", err)
	}
	return nil
}
