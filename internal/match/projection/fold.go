// Package projection derives read models from event streams.
//
// Folds are pure: they read nothing but the events they are given and
// never touch a clock, so replaying the same stream twice yields identical
// models. Unknown event types are skipped, which keeps replay forward- and
// backward-tolerant.
package projection

import (
	"encoding/json"
	"sort"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/event"
)

// sortStream orders events by ascending timestamp, breaking ties by append
// order (Seq). The sort is stable so equal (timestamp, seq) pairs keep
// their input order.
func sortStream(events []event.Event) []event.Event {
	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].Seq < sorted[j].Seq
	})
	return sorted
}

// FoldMatch replays a match stream into its read model. A stream without a
// match.created event yields nil.
func FoldMatch(events []event.Event) *domain.Match {
	var match *domain.Match
	for _, evt := range sortStream(events) {
		switch evt.Type {
		case event.TypeMatchCreated:
			if match != nil {
				continue
			}
			var payload event.MatchCreatedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			match = &domain.Match{
				ID:              evt.AggregateID,
				State:           domain.MatchStateProposed,
				OrganizerID:     payload.OrganizerID,
				ParticipantIDs:  payload.ParticipantIDs,
				ScheduledAt:     payload.ScheduledAt,
				DurationMinutes: payload.DurationMinutes,
				Location:        payload.Location,
				Notes:           payload.Notes,
				Version:         0,
				CreatedAt:       evt.Timestamp,
				UpdatedAt:       evt.Timestamp,
			}
		case event.TypeMatchConfirmed:
			if match == nil {
				continue
			}
			match.State = domain.MatchStateConfirmed
			match.Version++
			match.UpdatedAt = evt.Timestamp
		case event.TypeMatchCompleted:
			if match == nil {
				continue
			}
			completedAt := evt.Timestamp
			match.State = domain.MatchStateCompleted
			match.Version++
			match.UpdatedAt = evt.Timestamp
			match.CompletedAt = &completedAt
		case event.TypeMatchCancelled:
			if match == nil {
				continue
			}
			cancelledAt := evt.Timestamp
			match.State = domain.MatchStateCancelled
			match.Version++
			match.UpdatedAt = evt.Timestamp
			match.CancelledAt = &cancelledAt
		}
	}
	return match
}

// FoldActor replays an actor stream into its read model. A stream without
// an actor.created event yields nil.
func FoldActor(events []event.Event) *domain.Actor {
	var actor *domain.Actor
	for _, evt := range sortStream(events) {
		switch evt.Type {
		case event.TypeActorCreated:
			if actor != nil {
				continue
			}
			var payload event.ActorCreatedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			actor = &domain.Actor{
				ID:         evt.AggregateID,
				Name:       payload.Name,
				Email:      payload.Email,
				Phone:      payload.Phone,
				Bio:        payload.Bio,
				Location:   payload.Location,
				TrustLevel: domain.TrustLevelVeryLow,
				CreatedAt:  evt.Timestamp,
				UpdatedAt:  evt.Timestamp,
			}
		case event.TypeActorUpdated:
			if actor == nil {
				continue
			}
			var payload event.ActorUpdatedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			patch := domain.ActorPatch{
				Name:     payload.Name,
				Email:    payload.Email,
				Phone:    payload.Phone,
				Bio:      payload.Bio,
				Location: payload.Location,
			}
			merged := patch.Apply(*actor)
			actor = &merged
			actor.UpdatedAt = evt.Timestamp
		case event.TypeActorTrustUpdated:
			if actor == nil {
				continue
			}
			var payload event.ActorTrustUpdatedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			actor.TrustScore = payload.Score
			actor.TrustLevel = domain.TrustLevel(payload.Level)
			actor.MatchesConfirmed = payload.ConfirmedCount
			actor.MatchesCompleted = payload.CompletedCount
			actor.UpdatedAt = evt.Timestamp
		}
	}
	return actor
}

// FoldIdentity replays a temporal identity stream into its read model.
func FoldIdentity(events []event.Event) *domain.TemporalIdentity {
	var identity *domain.TemporalIdentity
	for _, evt := range sortStream(events) {
		switch evt.Type {
		case event.TypeIdentityCreated:
			if identity != nil {
				continue
			}
			var payload event.IdentityCreatedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			identity = &domain.TemporalIdentity{
				ID: evt.AggregateID,
				Versions: []domain.IdentityVersion{{
					DisplayName: payload.DisplayName,
					Attributes:  payload.Attributes,
					ValidFrom:   payload.ValidFrom,
					ValidTo:     payload.ValidTo,
				}},
				CurrentVersionIndex: 0,
				State:               domain.IdentityStateActive,
				CreatedAt:           evt.Timestamp,
				UpdatedAt:           evt.Timestamp,
			}
		case event.TypeIdentityVersioned:
			if identity == nil {
				continue
			}
			var payload event.IdentityVersionedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			identity.Versions = append(identity.Versions, domain.IdentityVersion{
				DisplayName: payload.DisplayName,
				Attributes:  payload.Attributes,
				ValidFrom:   payload.ValidFrom,
				ValidTo:     payload.ValidTo,
			})
			identity.CurrentVersionIndex = len(identity.Versions) - 1
			identity.UpdatedAt = evt.Timestamp
		case event.TypeIdentityStateChanged:
			if identity == nil {
				continue
			}
			var payload event.IdentityStateChangedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			if state, ok := domain.ParseIdentityState(payload.State); ok {
				identity.State = state
				identity.UpdatedAt = evt.Timestamp
			}
		}
	}
	return identity
}

// FoldRule replays a governance rule stream into its read model.
func FoldRule(events []event.Event) *domain.GovernanceRule {
	var rule *domain.GovernanceRule
	for _, evt := range sortStream(events) {
		switch evt.Type {
		case event.TypeRuleCreated:
			if rule != nil {
				continue
			}
			var payload event.RuleCreatedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			ruleType, _ := domain.ParseRuleType(payload.RuleType)
			rule = &domain.GovernanceRule{
				ID:          evt.AggregateID,
				Name:        payload.Name,
				Type:        ruleType,
				Content:     payload.Content,
				ActivatedAt: payload.ActivatedAt,
				ExpiresAt:   payload.ExpiresAt,
				Versions: []domain.RuleVersion{{
					Content:   payload.Content,
					ValidFrom: payload.ActivatedAt,
					ValidTo:   payload.ExpiresAt,
				}},
				CreatedAt: evt.Timestamp,
				UpdatedAt: evt.Timestamp,
			}
		case event.TypeRuleVersioned:
			if rule == nil {
				continue
			}
			var payload event.RuleVersionedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			rule.Versions = append(rule.Versions, domain.RuleVersion{
				Content:   payload.Content,
				ValidFrom: payload.ValidFrom,
				ValidTo:   payload.ValidTo,
			})
			rule.Content = payload.Content
			rule.UpdatedAt = evt.Timestamp
		}
	}
	return rule
}

// FoldNegotiation replays a negotiation stream into its read model.
func FoldNegotiation(events []event.Event) *domain.Negotiation {
	var negotiation *domain.Negotiation
	for _, evt := range sortStream(events) {
		switch evt.Type {
		case event.TypeNegotiationProposed:
			if negotiation != nil {
				continue
			}
			var payload event.NegotiationProposedPayload
			_ = json.Unmarshal(evt.PayloadJSON, &payload)
			negotiation = &domain.Negotiation{
				ID:             evt.AggregateID,
				MatchID:        payload.MatchID,
				InitiatorID:    payload.InitiatorID,
				CounterpartyID: payload.CounterpartyID,
				State:          domain.NegotiationStateProposed,
				ProposedTime:   payload.ProposedTime,
				Message:        payload.Message,
				CreatedAt:      evt.Timestamp,
			}
		case event.TypeNegotiationAccepted:
			if negotiation == nil {
				continue
			}
			respondedAt := evt.Timestamp
			negotiation.State = domain.NegotiationStateAccepted
			negotiation.RespondedAt = &respondedAt
		case event.TypeNegotiationDeclined:
			if negotiation == nil {
				continue
			}
			respondedAt := evt.Timestamp
			negotiation.State = domain.NegotiationStateDeclined
			negotiation.RespondedAt = &respondedAt
		}
	}
	return negotiation
}
