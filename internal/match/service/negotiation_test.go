package service

import (
	"context"
	"testing"
	"time"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/eventlog"
	"github.com/convene-app/convene/internal/platform/errors"
)

func proposedTime() time.Time {
	return time.Date(2026, time.April, 5, 18, 0, 0, 0, time.UTC)
}

func newNegotiationService(t *testing.T) (*NegotiationService, *eventlog.Memory) {
	t.Helper()

	log := eventlog.NewMemory()
	service := NewNegotiationService(log,
		WithClock(testClock()),
		WithIDGenerator(testIDGenerator("negotiation")),
	)
	return service, log
}

func TestNegotiationProposeAcceptRoundTrip(t *testing.T) {
	service, _ := newNegotiationService(t)
	ctx := context.Background()

	negotiationID, err := service.Propose(ctx, ProposeNegotiationInput{
		InitiatorID:    "actor-1",
		CounterpartyID: "actor-2",
		ProposedTime:   proposedTime(),
		Message:        "earlier slot free?",
	})
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}

	if err := service.Accept(ctx, negotiationID, "actor-2"); err != nil {
		t.Fatalf("Accept() error: %v", err)
	}

	negotiation, err := service.Get(ctx, negotiationID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if negotiation.State != domain.NegotiationStateAccepted {
		t.Errorf("State = %q, want accepted", negotiation.State)
	}
	if negotiation.RespondedAt == nil {
		t.Error("RespondedAt not set after acceptance")
	}
}

func TestNegotiationProposeValidation(t *testing.T) {
	service, log := newNegotiationService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ProposeNegotiationInput
	}{
		{name: "missing counterparty", input: ProposeNegotiationInput{InitiatorID: "actor-1", ProposedTime: proposedTime()}},
		{name: "self negotiation", input: ProposeNegotiationInput{InitiatorID: "actor-1", CounterpartyID: "actor-1", ProposedTime: proposedTime()}},
		{name: "missing time", input: ProposeNegotiationInput{InitiatorID: "actor-1", CounterpartyID: "actor-2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Propose(ctx, tc.input); !errors.IsInvalidInput(err) {
				t.Fatalf("Propose() error = %v, want InvalidInput", err)
			}
		})
	}
	if log.Len() != 0 {
		t.Errorf("log holds %d events after rejected proposals, want 0", log.Len())
	}
}

func TestNegotiationProposeUnknownMatch(t *testing.T) {
	service, _ := newNegotiationService(t)

	_, err := service.Propose(context.Background(), ProposeNegotiationInput{
		MatchID:        "missing",
		InitiatorID:    "actor-1",
		CounterpartyID: "actor-2",
		ProposedTime:   proposedTime(),
	})
	if !errors.IsNotFound(err) {
		t.Fatalf("Propose() error = %v, want NotFound", err)
	}
}

func TestNegotiationOnlyCounterpartyResponds(t *testing.T) {
	service, log := newNegotiationService(t)
	ctx := context.Background()

	negotiationID, err := service.Propose(ctx, ProposeNegotiationInput{
		InitiatorID:    "actor-1",
		CounterpartyID: "actor-2",
		ProposedTime:   proposedTime(),
	})
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}
	eventCount := log.Len()

	if err := service.Accept(ctx, negotiationID, "actor-1"); !errors.IsNotAuthorized(err) {
		t.Fatalf("Accept() by initiator error = %v, want NotAuthorized", err)
	}
	if log.Len() != eventCount {
		t.Errorf("log grew on rejected response")
	}
}

func TestNegotiationDeclineThenRespondAgain(t *testing.T) {
	service, _ := newNegotiationService(t)
	ctx := context.Background()

	negotiationID, err := service.Propose(ctx, ProposeNegotiationInput{
		InitiatorID:    "actor-1",
		CounterpartyID: "actor-2",
		ProposedTime:   proposedTime(),
	})
	if err != nil {
		t.Fatalf("Propose() error: %v", err)
	}

	if err := service.Decline(ctx, negotiationID, "actor-2", "conflict"); err != nil {
		t.Fatalf("Decline() error: %v", err)
	}

	negotiation, err := service.Get(ctx, negotiationID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if negotiation.State != domain.NegotiationStateDeclined {
		t.Errorf("State = %q, want declined", negotiation.State)
	}

	// A settled negotiation takes no further responses.
	if err := service.Accept(ctx, negotiationID, "actor-2"); !errors.IsInvalidState(err) {
		t.Errorf("Accept() after decline error = %v, want InvalidState", err)
	}
}

func TestNegotiationGetMissing(t *testing.T) {
	service, _ := newNegotiationService(t)

	if _, err := service.Get(context.Background(), "missing"); !errors.IsNotFound(err) {
		t.Fatalf("Get() error = %v, want NotFound", err)
	}
}
