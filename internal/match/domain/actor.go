package domain

import "time"

// Actor is the read model for a scheduling participant.
type Actor struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Bio      string
	Location string
	// TrustScore is the completed/confirmed ratio in [0, 1].
	TrustScore float64
	// TrustLevel is the ordinal bucket for TrustScore.
	TrustLevel TrustLevel
	// MatchesConfirmed and MatchesCompleted are attribution counters from
	// the latest recorded trust update.
	MatchesConfirmed int
	MatchesCompleted int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ActorPatch is a partial actor update. A nil field leaves the current
// value alone; a non-nil pointer overrides it, including pointers to empty
// strings, which clear the field.
type ActorPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Bio      *string
	Location *string
}

// IsEmpty reports whether the patch carries no fields.
func (p ActorPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Bio == nil && p.Location == nil
}

// Apply merges the patch into the actor by per-field override.
func (p ActorPatch) Apply(actor Actor) Actor {
	if p.Name != nil {
		actor.Name = *p.Name
	}
	if p.Email != nil {
		actor.Email = *p.Email
	}
	if p.Phone != nil {
		actor.Phone = *p.Phone
	}
	if p.Bio != nil {
		actor.Bio = *p.Bio
	}
	if p.Location != nil {
		actor.Location = *p.Location
	}
	return actor
}
