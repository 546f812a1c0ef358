package domain

import (
	"strings"
	"time"
)

// RuleType classifies a governance rule.
type RuleType string

const (
	RuleTypeAccess     RuleType = "access"
	RuleTypeConduct    RuleType = "conduct"
	RuleTypeScheduling RuleType = "scheduling"
	RuleTypeTrust      RuleType = "trust"
)

// ParseRuleType canonicalizes a rule type label.
func ParseRuleType(value string) (RuleType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "access":
		return RuleTypeAccess, true
	case "conduct":
		return RuleTypeConduct, true
	case "scheduling":
		return RuleTypeScheduling, true
	case "trust":
		return RuleTypeTrust, true
	default:
		return "", false
	}
}

// RuleVersion is one time-ranged version of a governance rule's content.
type RuleVersion struct {
	Content   string
	ValidFrom time.Time
	ValidTo   *time.Time
}

// GovernanceRule is the read model for a governance rule.
//
// Activity is not a stored flag: IsActive and IsExpired are evaluated
// against a supplied instant so every query sees the rule's status at the
// moment of computation.
type GovernanceRule struct {
	ID          string
	Name        string
	Type        RuleType
	Content     string
	ActivatedAt time.Time
	ExpiresAt   *time.Time
	// Versions are kept in stream (append) order.
	Versions  []RuleVersion
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the rule's expiry has passed at the given instant.
func (r *GovernanceRule) IsExpired(at time.Time) bool {
	if r == nil || r.ExpiresAt == nil {
		return false
	}
	return r.ExpiresAt.Before(at)
}

// IsActive reports whether the rule is activated and unexpired at the given instant.
func (r *GovernanceRule) IsActive(at time.Time) bool {
	if r == nil {
		return false
	}
	if r.ActivatedAt.After(at) {
		return false
	}
	return !r.IsExpired(at)
}
