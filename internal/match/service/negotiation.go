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
	"github.com/convene-app/convene/internal/platform/errors"
)

// NegotiationService executes scheduling negotiation commands.
type NegotiationService struct {
	log         eventlog.Log
	engine      *projection.Engine
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewNegotiationService returns a negotiation command service over the given log.
func NewNegotiationService(log eventlog.Log, opts ...Option) *NegotiationService {
	built := buildOptions(opts)
	return &NegotiationService{
		log:         log,
		engine:      projection.NewEngine(log),
		clock:       built.clock,
		idGenerator: built.idGenerator,
	}
}

// ProposeNegotiationInput carries the fields for opening a negotiation.
type ProposeNegotiationInput struct {
	// MatchID optionally ties the negotiation to an existing match.
	MatchID        string
	InitiatorID    string
	CounterpartyID string
	ProposedTime   time.Time
	Message        string
}

// Propose opens a negotiation over a proposed time and returns its id.
func (s *NegotiationService) Propose(ctx context.Context, input ProposeNegotiationInput) (string, error) {
	if input.InitiatorID == "" || input.CounterpartyID == "" {
		return "", errors.New(errors.CodeInvalidInput, "initiator and counterparty are required")
	}
	if input.InitiatorID == input.CounterpartyID {
		return "", errors.New(errors.CodeInvalidInput, "initiator and counterparty must differ")
	}
	if input.ProposedTime.IsZero() {
		return "", errors.New(errors.CodeInvalidInput, "proposed time is required")
	}
	if input.MatchID != "" {
		match, err := s.engine.Match(ctx, input.MatchID)
		if err != nil {
			return "", err
		}
		if match == nil {
			return "", errors.Newf(errors.CodeNotFound, "match %s not found", input.MatchID)
		}
	}

	negotiationID, err := s.idGenerator()
	if err != nil {
		return "", fmt.Errorf("generate negotiation id: %w", err)
	}

	if err := s.append(ctx, negotiationID, event.TypeNegotiationProposed, event.NegotiationProposedPayload{
		MatchID:        input.MatchID,
		InitiatorID:    input.InitiatorID,
		CounterpartyID: input.CounterpartyID,
		ProposedTime:   input.ProposedTime,
		Message:        input.Message,
	}); err != nil {
		return "", err
	}
	return negotiationID, nil
}

// Accept records the counterparty's acceptance of an open negotiation.
func (s *NegotiationService) Accept(ctx context.Context, negotiationID, actorID string) error {
	negotiation, err := s.load(ctx, negotiationID, actorID)
	if err != nil {
		return err
	}
	if !negotiation.IsOpen() {
		return errors.Newf(errors.CodeInvalidState, "negotiation %s is already %s", negotiationID, negotiation.State)
	}
	return s.append(ctx, negotiationID, event.TypeNegotiationAccepted, event.NegotiationAcceptedPayload{
		RespondedBy: actorID,
	})
}

// Decline records the counterparty's refusal of an open negotiation.
func (s *NegotiationService) Decline(ctx context.Context, negotiationID, actorID, reason string) error {
	negotiation, err := s.load(ctx, negotiationID, actorID)
	if err != nil {
		return err
	}
	if !negotiation.IsOpen() {
		return errors.Newf(errors.CodeInvalidState, "negotiation %s is already %s", negotiationID, negotiation.State)
	}
	return s.append(ctx, negotiationID, event.TypeNegotiationDeclined, event.NegotiationDeclinedPayload{
		RespondedBy: actorID,
		Reason:      reason,
	})
}

// Get returns the current negotiation projection, or NotFound.
func (s *NegotiationService) Get(ctx context.Context, negotiationID string) (*domain.Negotiation, error) {
	negotiation, err := s.engine.Negotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation == nil {
		return nil, errors.Newf(errors.CodeNotFound, "negotiation %s not found", negotiationID)
	}
	return negotiation, nil
}

// load fetches the negotiation and checks that actorID is the counterparty.
// Only the counterparty responds; the initiator already committed to the
// proposed time.
func (s *NegotiationService) load(ctx context.Context, negotiationID, actorID string) (*domain.Negotiation, error) {
	negotiation, err := s.engine.Negotiation(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation == nil {
		return nil, errors.Newf(errors.CodeNotFound, "negotiation %s not found", negotiationID)
	}
	if negotiation.CounterpartyID != actorID {
		return nil, errors.Newf(errors.CodeNotAuthorized, "actor %s may not respond to negotiation %s", actorID, negotiationID)
	}
	return negotiation, nil
}

func (s *NegotiationService) append(ctx context.Context, aggregateID string, eventType event.Type, payload any) error {
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
