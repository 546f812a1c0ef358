// Package temporal answers "what is valid as of time T" over streams of
// time-ranged versions.
//
// Resolution is deliberately last-write-wins: the stream is scanned in
// append order and the last version whose window contains the instant is
// returned. Later-appended versions beat earlier ones on overlap; a
// later-starting window does not. This is not an interval-tree lookup.
package temporal

import (
	"time"

	"github.com/convene-app/convene/internal/match/domain"
)

// Window is a version validity range. A nil To means open-ended.
type Window struct {
	From time.Time
	To   *time.Time
}

// Contains reports whether the window covers the instant. Both bounds are
// inclusive: From <= at and (To absent or To >= at).
func (w Window) Contains(at time.Time) bool {
	if w.From.After(at) {
		return false
	}
	if w.To != nil && w.To.Before(at) {
		return false
	}
	return true
}

// Resolve scans versions in stream order and returns the last one whose
// window contains at. The boolean is false when no version matches; that
// is an empty result, not an error.
func Resolve[V any](stream []V, window func(V) Window, at time.Time) (V, bool) {
	var (
		result V
		found  bool
	)
	for _, version := range stream {
		if window(version).Contains(at) {
			result = version
			found = true
		}
	}
	return result, found
}

// IdentityWindow adapts an identity version for Resolve.
func IdentityWindow(version domain.IdentityVersion) Window {
	return Window{From: version.ValidFrom, To: version.ValidTo}
}

// RuleWindow adapts a rule version for Resolve.
func RuleWindow(version domain.RuleVersion) Window {
	return Window{From: version.ValidFrom, To: version.ValidTo}
}

// ResolveIdentityVersion returns the identity version valid at the instant.
func ResolveIdentityVersion(versions []domain.IdentityVersion, at time.Time) (domain.IdentityVersion, bool) {
	return Resolve(versions, IdentityWindow, at)
}

// ResolveRuleVersion returns the rule version valid at the instant.
func ResolveRuleVersion(versions []domain.RuleVersion, at time.Time) (domain.RuleVersion, bool) {
	return Resolve(versions, RuleWindow, at)
}
