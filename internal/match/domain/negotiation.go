package domain

import "time"

// NegotiationState describes the lifecycle of a scheduling negotiation.
type NegotiationState string

const (
	NegotiationStateProposed NegotiationState = "proposed"
	NegotiationStateAccepted NegotiationState = "accepted"
	NegotiationStateDeclined NegotiationState = "declined"
)

// Negotiation is the read model for a scheduling proposal between agents.
type Negotiation struct {
	ID             string
	MatchID        string
	InitiatorID    string
	CounterpartyID string
	State          NegotiationState
	ProposedTime   time.Time
	Message        string
	CreatedAt      time.Time
	RespondedAt    *time.Time
}

// IsOpen reports whether the negotiation still awaits a response.
func (n *Negotiation) IsOpen() bool {
	return n != nil && n.State == NegotiationStateProposed
}
