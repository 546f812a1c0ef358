package trust

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
)

func appendAttributed(t *testing.T, log *eventlog.Memory, matchID string, eventType event.Type, actorID string) {
	t.Helper()

	var payload any
	switch eventType {
	case event.TypeMatchConfirmed:
		payload = event.MatchConfirmedPayload{ConfirmedBy: actorID}
	case event.TypeMatchCompleted:
		payload = event.MatchCompletedPayload{CompletedBy: actorID}
	default:
		t.Fatalf("unsupported event type %s", eventType)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if _, err := log.Append(context.Background(), event.Event{
		AggregateID: matchID,
		Type:        eventType,
		PayloadJSON: data,
	}); err != nil {
		t.Fatalf("append %s: %v", eventType, err)
	}
}

func TestScoreNoConfirmationsIsZero(t *testing.T) {
	log := eventlog.NewMemory()
	// Completions without a single confirmation must not divide by zero.
	appendAttributed(t, log, "match-1", event.TypeMatchCompleted, "actor-1")

	rating, err := NewScorer(log).Score(context.Background(), "actor-1")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if rating.Score != 0 {
		t.Errorf("Score = %v, want 0 with zero confirmations", rating.Score)
	}
	if rating.Level != domain.TrustLevelVeryLow {
		t.Errorf("Level = %q, want %q", rating.Level, domain.TrustLevelVeryLow)
	}
	if rating.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", rating.CompletedCount)
	}
}

func TestScoreRatioAndLevel(t *testing.T) {
	tests := []struct {
		name      string
		confirmed int
		completed int
		wantScore float64
		wantLevel domain.TrustLevel
	}{
		{name: "all completed", confirmed: 4, completed: 4, wantScore: 1.0, wantLevel: domain.TrustLevelVeryHigh},
		{name: "three quarters", confirmed: 4, completed: 3, wantScore: 0.75, wantLevel: domain.TrustLevelHigh},
		{name: "half", confirmed: 4, completed: 2, wantScore: 0.5, wantLevel: domain.TrustLevelMedium},
		{name: "one quarter", confirmed: 4, completed: 1, wantScore: 0.25, wantLevel: domain.TrustLevelVeryLow},
		{name: "confirmed only", confirmed: 3, completed: 0, wantScore: 0, wantLevel: domain.TrustLevelVeryLow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := eventlog.NewMemory()
			for i := 0; i < tc.confirmed; i++ {
				appendAttributed(t, log, "match-1", event.TypeMatchConfirmed, "actor-1")
			}
			for i := 0; i < tc.completed; i++ {
				appendAttributed(t, log, "match-1", event.TypeMatchCompleted, "actor-1")
			}

			rating, err := NewScorer(log).Score(context.Background(), "actor-1")
			if err != nil {
				t.Fatalf("Score() error: %v", err)
			}
			if rating.Score != tc.wantScore {
				t.Errorf("Score = %v, want %v", rating.Score, tc.wantScore)
			}
			if rating.Level != tc.wantLevel {
				t.Errorf("Level = %q, want %q", rating.Level, tc.wantLevel)
			}
		})
	}
}

func TestScoreFiltersByAttribution(t *testing.T) {
	log := eventlog.NewMemory()
	appendAttributed(t, log, "match-1", event.TypeMatchConfirmed, "actor-1")
	appendAttributed(t, log, "match-1", event.TypeMatchCompleted, "actor-1")
	appendAttributed(t, log, "match-2", event.TypeMatchConfirmed, "actor-2")
	appendAttributed(t, log, "match-3", event.TypeMatchConfirmed, "actor-2")

	rating, err := NewScorer(log).Score(context.Background(), "actor-1")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if rating.ConfirmedCount != 1 || rating.CompletedCount != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", rating.ConfirmedCount, rating.CompletedCount)
	}
	if rating.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", rating.Score)
	}

	other, err := NewScorer(log).Score(context.Background(), "actor-2")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if other.Score != 0 || other.ConfirmedCount != 2 {
		t.Errorf("actor-2 rating = %+v, want score 0 over 2 confirmations", other)
	}
}

func TestScoreUnknownActor(t *testing.T) {
	log := eventlog.NewMemory()
	appendAttributed(t, log, "match-1", event.TypeMatchConfirmed, "actor-1")

	rating, err := NewScorer(log).Score(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if rating.Score != 0 || rating.ConfirmedCount != 0 || rating.CompletedCount != 0 {
		t.Errorf("rating = %+v, want empty rating for unknown actor", rating)
	}
}
