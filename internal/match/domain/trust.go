package domain

// TrustLevel is the ordinal reliability bucket for an actor.
type TrustLevel string

const (
	TrustLevelVeryLow  TrustLevel = "very_low"
	TrustLevelLow      TrustLevel = "low"
	TrustLevelMedium   TrustLevel = "medium"
	TrustLevelHigh     TrustLevel = "high"
	TrustLevelVeryHigh TrustLevel = "very_high"
)

// TrustLevelForScore buckets a score into one of five ordered levels.
// Thresholds are inclusive lower bounds evaluated top down.
func TrustLevelForScore(score float64) TrustLevel {
	switch {
	case score >= 0.9:
		return TrustLevelVeryHigh
	case score >= 0.7:
		return TrustLevelHigh
	case score >= 0.5:
		return TrustLevelMedium
	case score >= 0.3:
		return TrustLevelLow
	default:
		return TrustLevelVeryLow
	}
}
