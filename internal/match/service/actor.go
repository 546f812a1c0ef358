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

// ActorService executes actor profile commands.
type ActorService struct {
	log         eventlog.Log
	engine      *projection.Engine
	actors      snapshot.ActorStore
	scorer      *trust.Scorer
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewActorService returns an actor command service over the given log and
// snapshot store.
func NewActorService(log eventlog.Log, actors snapshot.ActorStore, opts ...Option) *ActorService {
	built := buildOptions(opts)
	return &ActorService{
		log:         log,
		engine:      projection.NewEngine(log),
		actors:      actors,
		scorer:      trust.NewScorer(log),
		clock:       built.clock,
		idGenerator: built.idGenerator,
	}
}

// CreateActorInput carries the fields for registering an actor.
type CreateActorInput struct {
	Name     string
	Email    string
	Phone    string
	Bio      string
	Location string
}

// Create registers a new actor and returns its id.
func (s *ActorService) Create(ctx context.Context, input CreateActorInput) (string, error) {
	if input.Name == "" {
		return "", errors.New(errors.CodeInvalidInput, "actor name is required")
	}

	actorID, err := s.idGenerator()
	if err != nil {
		return "", fmt.Errorf("generate actor id: %w", err)
	}

	if err := s.append(ctx, actorID, event.TypeActorCreated, event.ActorCreatedPayload{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Bio:      input.Bio,
		Location: input.Location,
	}); err != nil {
		return "", err
	}
	if err := s.refreshSnapshot(ctx, actorID); err != nil {
		return "", err
	}
	return actorID, nil
}

// Update applies a partial profile update. Fields absent from the patch
// keep their current values; fields set to an empty string are cleared.
func (s *ActorService) Update(ctx context.Context, actorID string, patch domain.ActorPatch) error {
	if patch.IsEmpty() {
		return errors.New(errors.CodeInvalidInput, "update patch carries no fields")
	}

	actor, err := s.engine.Actor(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return errors.Newf(errors.CodeNotFound, "actor %s not found", actorID)
	}

	if err := s.append(ctx, actorID, event.TypeActorUpdated, event.ActorUpdatedPayload{
		Name:     patch.Name,
		Email:    patch.Email,
		Phone:    patch.Phone,
		Bio:      patch.Bio,
		Location: patch.Location,
	}); err != nil {
		return err
	}
	return s.refreshSnapshot(ctx, actorID)
}

// Get returns the actor projection with a trust rating computed from the
// full event history at call time, or NotFound.
func (s *ActorService) Get(ctx context.Context, actorID string) (*domain.Actor, error) {
	actor, err := s.engine.Actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, errors.Newf(errors.CodeNotFound, "actor %s not found", actorID)
	}

	rating, err := s.scorer.Score(ctx, actorID)
	if err != nil {
		return nil, err
	}
	actor.TrustScore = rating.Score
	actor.TrustLevel = rating.Level
	actor.MatchesConfirmed = rating.ConfirmedCount
	actor.MatchesCompleted = rating.CompletedCount
	return actor, nil
}

func (s *ActorService) append(ctx context.Context, aggregateID string, eventType event.Type, payload any) error {
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

func (s *ActorService) refreshSnapshot(ctx context.Context, actorID string) error {
	actor, err := s.engine.Actor(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return nil
	}
	if err := s.actors.Save(ctx, *actor); err != nil {
		return fmt.Errorf("save actor snapshot: %w", err)
	}
	return nil
}
