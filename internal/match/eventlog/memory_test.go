package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/convene-app/convene/internal/match/event"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s%d", prefix, n), nil
	}
}

func TestAppendAssignsIDTimestampAndSeq(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	log := NewMemory(WithClock(fixedClock(now)), WithIDGenerator(sequentialIDs("evt")))

	stored, err := log.Append(context.Background(), event.Event{
		AggregateID: "m1",
		Type:        event.TypeMatchCreated,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored.ID != "evt1" {
		t.Fatalf("expected generated id, got %q", stored.ID)
	}
	if !stored.Timestamp.Equal(now) {
		t.Fatalf("expected clock timestamp, got %v", stored.Timestamp)
	}
	if stored.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", stored.Seq)
	}
}

func TestAppendKeepsCallerIDAndTimestamp(t *testing.T) {
	log := NewMemory()
	supplied := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	stored, err := log.Append(context.Background(), event.Event{
		ID:          "caller-id",
		AggregateID: "m1",
		Type:        event.TypeMatchCreated,
		Timestamp:   supplied,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored.ID != "caller-id" {
		t.Fatalf("expected caller id preserved, got %q", stored.ID)
	}
	if !stored.Timestamp.Equal(supplied) {
		t.Fatalf("expected caller timestamp preserved, got %v", stored.Timestamp)
	}
}

func TestAppendDuplicateIDsCreateDistinctRecords(t *testing.T) {
	log := NewMemory()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := log.Append(ctx, event.Event{ID: "same", AggregateID: "m1", Type: event.TypeMatchCreated}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := log.AllEvents(ctx)
	if err != nil {
		t.Fatalf("all events: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected two physical records, got %d", len(all))
	}
	if all[0].Seq == all[1].Seq {
		t.Fatal("expected distinct sequence numbers")
	}
}

func TestAppendRejectsMissingType(t *testing.T) {
	log := NewMemory()
	if _, err := log.Append(context.Background(), event.Event{AggregateID: "m1"}); err == nil {
		t.Fatal("expected error for missing event type")
	}
}

func TestIndexesVisibleImmediatelyAfterAppend(t *testing.T) {
	log := NewMemory()
	ctx := context.Background()

	stored, err := log.Append(ctx, event.Event{AggregateID: "m1", Type: event.TypeMatchCreated})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	byAggregate, err := log.EventsByAggregate(ctx, "m1")
	if err != nil {
		t.Fatalf("by aggregate: %v", err)
	}
	if len(byAggregate) != 1 || byAggregate[0].ID != stored.ID {
		t.Fatalf("expected event in aggregate index, got %v", byAggregate)
	}

	byType, err := log.EventsByType(ctx, event.TypeMatchCreated)
	if err != nil {
		t.Fatalf("by type: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != stored.ID {
		t.Fatalf("expected event in type index, got %v", byType)
	}
}

func TestEventsByAggregateUnknownIDReturnsEmpty(t *testing.T) {
	log := NewMemory()
	events, err := log.EventsByAggregate(context.Background(), "nope")
	if err != nil {
		t.Fatalf("expected no error for unknown aggregate, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty slice, got %d events", len(events))
	}
}

func TestEmptyAggregateIDNotIndexed(t *testing.T) {
	log := NewMemory()
	ctx := context.Background()

	if _, err := log.Append(ctx, event.Event{Type: event.TypeActorTrustUpdated}); err != nil {
		t.Fatalf("append: %v", err)
	}

	byAggregate, err := log.EventsByAggregate(ctx, "")
	if err != nil {
		t.Fatalf("by aggregate: %v", err)
	}
	if len(byAggregate) != 0 {
		t.Fatal("events without an aggregate id must not be retrievable by aggregate")
	}

	all, err := log.AllEvents(ctx)
	if err != nil {
		t.Fatalf("all events: %v", err)
	}
	if len(all) != 1 {
		t.Fatal("event must still be in the full log")
	}
}

func TestEventsSinceBoundaryIsInclusive(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	log := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := log.Append(ctx, event.Event{
			AggregateID: "m1",
			Type:        event.TypeMatchCreated,
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	since, err := log.EventsSince(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("events since: %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("expected 2 events at or after cutoff, got %d", len(since))
	}
	if !since[0].Timestamp.Equal(base.Add(time.Hour)) {
		t.Fatal("expected cutoff timestamp itself to be included")
	}
}

func TestAppendOrderPreservedPerAggregate(t *testing.T) {
	log := NewMemory(WithIDGenerator(sequentialIDs("evt")))
	ctx := context.Background()

	payload, _ := json.Marshal(event.MatchConfirmedPayload{ConfirmedBy: "p1"})
	types := []event.Type{event.TypeMatchCreated, event.TypeMatchConfirmed, event.TypeMatchCompleted}
	for _, eventType := range types {
		if _, err := log.Append(ctx, event.Event{AggregateID: "m1", Type: eventType, PayloadJSON: payload}); err != nil {
			t.Fatalf("append %s: %v", eventType, err)
		}
		if _, err := log.Append(ctx, event.Event{AggregateID: "other", Type: event.TypeMatchCreated}); err != nil {
			t.Fatalf("append interleaved: %v", err)
		}
	}

	stream, err := log.EventsByAggregate(ctx, "m1")
	if err != nil {
		t.Fatalf("by aggregate: %v", err)
	}
	if len(stream) != 3 {
		t.Fatalf("expected 3 events, got %d", len(stream))
	}
	for i, eventType := range types {
		if stream[i].Type != eventType {
			t.Fatalf("position %d: expected %s, got %s", i, eventType, stream[i].Type)
		}
	}
}

func TestConcurrentAppendsAssignUniqueSeq(t *testing.T) {
	log := NewMemory()
	ctx := context.Background()
	const workers = 8
	const perWorker = 25

	done := make(chan error, workers)
	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < perWorker; i++ {
				if _, err := log.Append(ctx, event.Event{AggregateID: "m1", Type: event.TypeMatchConfirmed}); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for w := 0; w < workers; w++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	all, err := log.AllEvents(ctx)
	if err != nil {
		t.Fatalf("all events: %v", err)
	}
	if len(all) != workers*perWorker {
		t.Fatalf("expected %d events, got %d", workers*perWorker, len(all))
	}
	seen := make(map[uint64]struct{}, len(all))
	for _, evt := range all {
		if _, dup := seen[evt.Seq]; dup {
			t.Fatalf("duplicate seq %d", evt.Seq)
		}
		seen[evt.Seq] = struct{}{}
	}
}
