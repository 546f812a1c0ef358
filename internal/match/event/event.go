package event

import (
	"strings"
	"time"
)

// Type identifies the type of a stored event.
type Type string

// Match lifecycle events.
const (
	// TypeMatchCreated records the proposal of a match.
	TypeMatchCreated Type = "match.created"
	// TypeMatchConfirmed records a match confirmation.
	TypeMatchConfirmed Type = "match.confirmed"
	// TypeMatchCompleted records a match completion.
	TypeMatchCompleted Type = "match.completed"
	// TypeMatchCancelled records a match cancellation.
	TypeMatchCancelled Type = "match.cancelled"
)

// Actor events.
const (
	// TypeActorCreated records the creation of an actor profile.
	TypeActorCreated Type = "actor.created"
	// TypeActorUpdated records a partial actor profile update.
	TypeActorUpdated Type = "actor.updated"
	// TypeActorTrustUpdated records a recomputed trust score for an actor.
	TypeActorTrustUpdated Type = "actor.trust_updated"
)

// Temporal identity events.
const (
	// TypeIdentityCreated records the creation of a temporal identity.
	TypeIdentityCreated Type = "identity.created"
	// TypeIdentityVersioned records a new time-ranged identity version.
	TypeIdentityVersioned Type = "identity.versioned"
	// TypeIdentityStateChanged records an identity lifecycle state change.
	TypeIdentityStateChanged Type = "identity.state_changed"
)

// Governance rule events.
const (
	// TypeRuleCreated records the creation of a governance rule.
	TypeRuleCreated Type = "rule.created"
	// TypeRuleVersioned records a new time-ranged rule version.
	TypeRuleVersioned Type = "rule.versioned"
)

// Negotiation events.
const (
	// TypeNegotiationProposed records a scheduling proposal between agents.
	TypeNegotiationProposed Type = "negotiation.proposed"
	// TypeNegotiationAccepted records the counterparty accepting a proposal.
	TypeNegotiationAccepted Type = "negotiation.accepted"
	// TypeNegotiationDeclined records a proposal being declined.
	TypeNegotiationDeclined Type = "negotiation.declined"
)

// Event represents an immutable record in the append-only event log.
type Event struct {
	// ID is the globally unique event identifier. Assigned on append when empty.
	ID string
	// AggregateID is the identity of the entity this event mutates. Events
	// with an empty AggregateID are stored but not retrievable by aggregate.
	AggregateID string
	// Type identifies the kind of event.
	Type Type
	// Seq is the global append order. Assigned by the log on append.
	Seq uint64
	// Timestamp is the ordering key. Defaults to append wall clock when zero.
	Timestamp time.Time
	// PayloadJSON holds the event-specific payload as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "match", "actor").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// MatchTypes returns the event types that mark an aggregate as a match.
// Cross-stream folds group events of these types by AggregateID.
func MatchTypes() []Type {
	return []Type{TypeMatchCreated, TypeMatchConfirmed, TypeMatchCompleted, TypeMatchCancelled}
}

// IsMatchType reports whether t belongs to the match vocabulary.
func IsMatchType(t Type) bool {
	for _, candidate := range MatchTypes() {
		if t == candidate {
			return true
		}
	}
	return false
}
