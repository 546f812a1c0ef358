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
	"github.com/convene-app/convene/internal/match/temporal"
	"github.com/convene-app/convene/internal/platform/errors"
)

// IdentityService executes temporal identity commands.
type IdentityService struct {
	log         eventlog.Log
	engine      *projection.Engine
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewIdentityService returns an identity command service over the given log.
func NewIdentityService(log eventlog.Log, opts ...Option) *IdentityService {
	built := buildOptions(opts)
	return &IdentityService{
		log:         log,
		engine:      projection.NewEngine(log),
		clock:       built.clock,
		idGenerator: built.idGenerator,
	}
}

// CreateIdentityInput carries the fields for the first identity version.
type CreateIdentityInput struct {
	DisplayName string
	Attributes  map[string]string
	// ValidFrom defaults to the command time when zero.
	ValidFrom time.Time
	ValidTo   *time.Time
}

// Create registers a new temporal identity and returns its id.
func (s *IdentityService) Create(ctx context.Context, input CreateIdentityInput) (string, error) {
	if input.DisplayName == "" {
		return "", errors.New(errors.CodeInvalidInput, "display name is required")
	}

	identityID, err := s.idGenerator()
	if err != nil {
		return "", fmt.Errorf("generate identity id: %w", err)
	}

	validFrom := input.ValidFrom
	if validFrom.IsZero() {
		validFrom = s.clock().UTC()
	}

	if err := s.append(ctx, identityID, event.TypeIdentityCreated, event.IdentityCreatedPayload{
		DisplayName: input.DisplayName,
		Attributes:  input.Attributes,
		ValidFrom:   validFrom,
		ValidTo:     input.ValidTo,
	}); err != nil {
		return "", err
	}
	return identityID, nil
}

// IdentityVersionInput carries the fields for an appended identity version.
type IdentityVersionInput struct {
	DisplayName string
	Attributes  map[string]string
	ValidFrom   time.Time
	ValidTo     *time.Time
}

// AddVersion appends a new version to the identity's history. Earlier
// versions stay resolvable for as-of queries.
func (s *IdentityService) AddVersion(ctx context.Context, identityID string, input IdentityVersionInput) error {
	if input.DisplayName == "" {
		return errors.New(errors.CodeInvalidInput, "display name is required")
	}
	if input.ValidFrom.IsZero() {
		return errors.New(errors.CodeInvalidInput, "valid-from time is required")
	}

	identity, err := s.engine.Identity(ctx, identityID)
	if err != nil {
		return err
	}
	if identity == nil {
		return errors.Newf(errors.CodeNotFound, "identity %s not found", identityID)
	}

	return s.append(ctx, identityID, event.TypeIdentityVersioned, event.IdentityVersionedPayload{
		DisplayName: input.DisplayName,
		Attributes:  input.Attributes,
		ValidFrom:   input.ValidFrom,
		ValidTo:     input.ValidTo,
	})
}

// Suspend marks the identity suspended.
func (s *IdentityService) Suspend(ctx context.Context, identityID string) error {
	return s.setState(ctx, identityID, domain.IdentityStateSuspended)
}

// Activate marks the identity active.
func (s *IdentityService) Activate(ctx context.Context, identityID string) error {
	return s.setState(ctx, identityID, domain.IdentityStateActive)
}

// Expire marks the identity expired.
func (s *IdentityService) Expire(ctx context.Context, identityID string) error {
	return s.setState(ctx, identityID, domain.IdentityStateExpired)
}

// Get returns the current identity projection, or NotFound.
func (s *IdentityService) Get(ctx context.Context, identityID string) (*domain.TemporalIdentity, error) {
	identity, err := s.engine.Identity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errors.Newf(errors.CodeNotFound, "identity %s not found", identityID)
	}
	return identity, nil
}

// ResolveAt returns the identity version valid at the given instant, or
// nil when no version's window contains it. A missing identity is
// NotFound; an unmatched instant is not an error.
func (s *IdentityService) ResolveAt(ctx context.Context, identityID string, at time.Time) (*domain.IdentityVersion, error) {
	identity, err := s.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	version, ok := temporal.ResolveIdentityVersion(identity.Versions, at)
	if !ok {
		return nil, nil
	}
	return &version, nil
}

// setState appends a lifecycle event. State is coarse and independent of
// version-window resolution.
func (s *IdentityService) setState(ctx context.Context, identityID string, state domain.IdentityState) error {
	identity, err := s.engine.Identity(ctx, identityID)
	if err != nil {
		return err
	}
	if identity == nil {
		return errors.Newf(errors.CodeNotFound, "identity %s not found", identityID)
	}
	if identity.State == state {
		return errors.Newf(errors.CodeInvalidState, "identity %s is already %s", identityID, state)
	}
	return s.append(ctx, identityID, event.TypeIdentityStateChanged, event.IdentityStateChangedPayload{
		State: string(state),
	})
}

func (s *IdentityService) append(ctx context.Context, aggregateID string, eventType event.Type, payload any) error {
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
