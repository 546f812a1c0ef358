package event

import "time"

// MatchCreatedPayload captures the payload for match.created events.
type MatchCreatedPayload struct {
	OrganizerID     string    `json:"organizer_id"`
	ParticipantIDs  []string  `json:"participant_ids"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// MatchConfirmedPayload captures the payload for match.confirmed events.
type MatchConfirmedPayload struct {
	ConfirmedBy string `json:"confirmed_by"`
}

// MatchCompletedPayload captures the payload for match.completed events.
type MatchCompletedPayload struct {
	CompletedBy string `json:"completed_by"`
}

// MatchCancelledPayload captures the payload for match.cancelled events.
type MatchCancelledPayload struct {
	CancelledBy string `json:"cancelled_by"`
	Reason      string `json:"reason,omitempty"`
}

// ActorCreatedPayload captures the payload for actor.created events.
type ActorCreatedPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
}

// ActorUpdatedPayload captures the payload for actor.updated events.
//
// This is a patch, not a replacement: nil means "leave the field alone",
// while a pointer to an empty string is an explicit clear. Callers must
// send minimal diffs; replaying a stale full-object read through an update
// would overwrite newer values.
type ActorUpdatedPayload struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
}

// ActorTrustUpdatedPayload captures the payload for actor.trust_updated events.
type ActorTrustUpdatedPayload struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	ConfirmedCount int     `json:"confirmed_count"`
	CompletedCount int     `json:"completed_count"`
}

// IdentityCreatedPayload captures the payload for identity.created events.
// The initial version window opens at ValidFrom.
type IdentityCreatedPayload struct {
	DisplayName string            `json:"display_name"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	ValidFrom   time.Time         `json:"valid_from"`
	ValidTo     *time.Time        `json:"valid_to,omitempty"`
}

// IdentityVersionedPayload captures the payload for identity.versioned events.
type IdentityVersionedPayload struct {
	DisplayName string            `json:"display_name,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	ValidFrom   time.Time         `json:"valid_from"`
	ValidTo     *time.Time        `json:"valid_to,omitempty"`
}

// IdentityStateChangedPayload captures the payload for identity.state_changed events.
type IdentityStateChangedPayload struct {
	State string `json:"state"`
}

// RuleCreatedPayload captures the payload for rule.created events.
type RuleCreatedPayload struct {
	Name        string     `json:"name"`
	RuleType    string     `json:"rule_type"`
	Content     string     `json:"content"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// RuleVersionedPayload captures the payload for rule.versioned events.
type RuleVersionedPayload struct {
	Content   string     `json:"content"`
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
}

// NegotiationProposedPayload captures the payload for negotiation.proposed events.
type NegotiationProposedPayload struct {
	MatchID        string    `json:"match_id,omitempty"`
	InitiatorID    string    `json:"initiator_id"`
	CounterpartyID string    `json:"counterparty_id"`
	ProposedTime   time.Time `json:"proposed_time"`
	Message        string    `json:"message,omitempty"`
}

// NegotiationAcceptedPayload captures the payload for negotiation.accepted events.
type NegotiationAcceptedPayload struct {
	RespondedBy string `json:"responded_by"`
}

// NegotiationDeclinedPayload captures the payload for negotiation.declined events.
type NegotiationDeclinedPayload struct {
	RespondedBy string `json:"responded_by"`
	Reason      string `json:"reason,omitempty"`
}
