// Package domain holds the pure models and state machines for the
// scheduling engine. Nothing here performs I/O; projections and services
// compose these pieces around the event log.
package domain

import "time"

// MatchState describes the match lifecycle label.
type MatchState string

const (
	MatchStateUnspecified MatchState = ""
	MatchStateProposed    MatchState = "proposed"
	MatchStateConfirmed   MatchState = "confirmed"
	MatchStateCompleted   MatchState = "completed"
	MatchStateCancelled   MatchState = "cancelled"
)

// Match is the read model for a scheduled gathering. It is derived by
// folding the match event stream and is never written to directly.
type Match struct {
	ID              string
	State           MatchState
	OrganizerID     string
	ParticipantIDs  []string
	ScheduledAt     time.Time
	DurationMinutes int
	Location        string
	Notes           string
	// Version increments once per accepted transition.
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// matchTransitions is the complete lifecycle table. Terminal states have
// no outgoing edges.
var matchTransitions = map[MatchState][]MatchState{
	MatchStateProposed:  {MatchStateConfirmed, MatchStateCancelled},
	MatchStateConfirmed: {MatchStateCompleted, MatchStateCancelled},
	MatchStateCompleted: {},
	MatchStateCancelled: {},
}

// CanTransition reports whether the lifecycle table allows from -> to.
// It is total: any pair outside the table is false.
func CanTransition(from, to MatchState) bool {
	for _, allowed := range matchTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a state has no outgoing transitions.
func IsTerminal(state MatchState) bool {
	return len(matchTransitions[state]) == 0 && state != MatchStateUnspecified
}

// IsParticipant reports whether actorID is the organizer or a listed
// participant of the match.
func (m *Match) IsParticipant(actorID string) bool {
	if m == nil || actorID == "" {
		return false
	}
	if m.OrganizerID == actorID {
		return true
	}
	for _, participantID := range m.ParticipantIDs {
		if participantID == actorID {
			return true
		}
	}
	return false
}
