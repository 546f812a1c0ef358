package domain

import "testing"

func TestCanTransitionTable(t *testing.T) {
	allowed := []struct{ from, to MatchState }{
		{MatchStateProposed, MatchStateConfirmed},
		{MatchStateProposed, MatchStateCancelled},
		{MatchStateConfirmed, MatchStateCompleted},
		{MatchStateConfirmed, MatchStateCancelled},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Fatalf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}
}

func TestCanTransitionIsTotal(t *testing.T) {
	states := []MatchState{
		MatchStateUnspecified,
		MatchStateProposed,
		MatchStateConfirmed,
		MatchStateCompleted,
		MatchStateCancelled,
		MatchState("bogus"),
	}
	allowed := map[[2]MatchState]bool{
		{MatchStateProposed, MatchStateConfirmed}:  true,
		{MatchStateProposed, MatchStateCancelled}:  true,
		{MatchStateConfirmed, MatchStateCompleted}: true,
		{MatchStateConfirmed, MatchStateCancelled}: true,
	}
	for _, from := range states {
		for _, to := range states {
			want := allowed[[2]MatchState{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []MatchState{MatchStateCompleted, MatchStateCancelled} {
		if !IsTerminal(terminal) {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		for _, to := range []MatchState{MatchStateProposed, MatchStateConfirmed, MatchStateCompleted, MatchStateCancelled} {
			if CanTransition(terminal, to) {
				t.Fatalf("terminal state %s must not transition to %s", terminal, to)
			}
		}
	}
	if IsTerminal(MatchStateProposed) {
		t.Fatal("proposed is not terminal")
	}
}

func TestIsParticipant(t *testing.T) {
	match := &Match{OrganizerID: "o1", ParticipantIDs: []string{"p1", "p2"}}

	if !match.IsParticipant("o1") {
		t.Fatal("organizer may act")
	}
	if !match.IsParticipant("p2") {
		t.Fatal("listed participant may act")
	}
	if match.IsParticipant("stranger") {
		t.Fatal("unlisted actor may not act")
	}
	if match.IsParticipant("") {
		t.Fatal("empty actor id may not act")
	}
	var nilMatch *Match
	if nilMatch.IsParticipant("o1") {
		t.Fatal("nil match has no participants")
	}
}
