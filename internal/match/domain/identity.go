package domain

import (
	"strings"
	"time"
)

// IdentityState describes the coarse lifecycle of a temporal identity.
// It is set by dedicated lifecycle events, independent of version windows.
type IdentityState string

const (
	IdentityStateActive    IdentityState = "active"
	IdentityStateSuspended IdentityState = "suspended"
	IdentityStateExpired   IdentityState = "expired"
)

// ParseIdentityState canonicalizes a state label.
func ParseIdentityState(value string) (IdentityState, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active":
		return IdentityStateActive, true
	case "suspended":
		return IdentityStateSuspended, true
	case "expired":
		return IdentityStateExpired, true
	default:
		return "", false
	}
}

// IdentityVersion is one time-ranged version of an identity.
type IdentityVersion struct {
	DisplayName string
	Attributes  map[string]string
	ValidFrom   time.Time
	// ValidTo is nil for open-ended windows.
	ValidTo *time.Time
}

// TemporalIdentity is the read model for a versioned identity.
type TemporalIdentity struct {
	ID string
	// Versions are kept in stream (append) order, not sorted by ValidFrom.
	Versions []IdentityVersion
	// CurrentVersionIndex points at the most recently appended version.
	CurrentVersionIndex int
	State               IdentityState
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CurrentVersion returns the version CurrentVersionIndex points at, or nil
// when the identity has no versions.
func (i *TemporalIdentity) CurrentVersion() *IdentityVersion {
	if i == nil || i.CurrentVersionIndex < 0 || i.CurrentVersionIndex >= len(i.Versions) {
		return nil
	}
	return &i.Versions[i.CurrentVersionIndex]
}
