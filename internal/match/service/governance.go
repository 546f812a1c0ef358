package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/convene-app/convene/internal/match/domain"
	"github.com/convene-app/convene/internal/match/event"
	"github.com/convene-app/convene/internal/match/eventlog"
	"github.com/convene-app/convene/internal/match/projection"
	"github.com/convene-app/convene/internal/match/temporal"
	"github.com/convene-app/convene/internal/platform/errors"
)

// GovernanceService executes governance rule commands.
type GovernanceService struct {
	log         eventlog.Log
	engine      *projection.Engine
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewGovernanceService returns a governance command service over the given log.
func NewGovernanceService(log eventlog.Log, opts ...Option) *GovernanceService {
	built := buildOptions(opts)
	return &GovernanceService{
		log:         log,
		engine:      projection.NewEngine(log),
		clock:       built.clock,
		idGenerator: built.idGenerator,
	}
}

// CreateRuleInput carries the fields for a new governance rule.
type CreateRuleInput struct {
	Name     string
	RuleType string
	Content  string
	// ActivatedAt defaults to the command time when zero.
	ActivatedAt time.Time
	ExpiresAt   *time.Time
}

// Create records a new governance rule and returns its id.
func (s *GovernanceService) Create(ctx context.Context, input CreateRuleInput) (string, error) {
	if input.Name == "" {
		return "", errors.New(errors.CodeInvalidInput, "rule name is required")
	}
	if input.Content == "" {
		return "", errors.New(errors.CodeInvalidInput, "rule content is required")
	}
	if _, ok := domain.ParseRuleType(input.RuleType); !ok {
		return "", errors.Newf(errors.CodeInvalidInput, "unknown rule type %q", input.RuleType)
	}

	ruleID, err := s.idGenerator()
	if err != nil {
		return "", fmt.Errorf("generate rule id: %w", err)
	}

	activatedAt := input.ActivatedAt
	if activatedAt.IsZero() {
		activatedAt = s.clock().UTC()
	}

	if err := s.append(ctx, ruleID, event.TypeRuleCreated, event.RuleCreatedPayload{
		Name:        input.Name,
		RuleType:    input.RuleType,
		Content:     input.Content,
		ActivatedAt: activatedAt,
		ExpiresAt:   input.ExpiresAt,
	}); err != nil {
		return "", err
	}
	return ruleID, nil
}

// RuleVersionInput carries the fields for an appended rule version.
type RuleVersionInput struct {
	Content   string
	ValidFrom time.Time
	ValidTo   *time.Time
}

// AddVersion appends a revision to the rule's history. The rule's current
// content becomes the new version's content; earlier versions stay
// resolvable for as-of queries.
func (s *GovernanceService) AddVersion(ctx context.Context, ruleID string, input RuleVersionInput) error {
	if input.Content == "" {
		return errors.New(errors.CodeInvalidInput, "rule content is required")
	}
	if input.ValidFrom.IsZero() {
		return errors.New(errors.CodeInvalidInput, "valid-from time is required")
	}

	rule, err := s.engine.Rule(ctx, ruleID)
	if err != nil {
		return err
	}
	if rule == nil {
		return errors.Newf(errors.CodeNotFound, "rule %s not found", ruleID)
	}

	return s.append(ctx, ruleID, event.TypeRuleVersioned, event.RuleVersionedPayload{
		Content:   input.Content,
		ValidFrom: input.ValidFrom,
		ValidTo:   input.ValidTo,
	})
}

// Get returns the current rule projection, or NotFound. Activity and
// expiry are evaluated against the supplied instant by the caller via
// the read model's IsActive and IsExpired.
func (s *GovernanceService) Get(ctx context.Context, ruleID string) (*domain.GovernanceRule, error) {
	rule, err := s.engine.Rule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, errors.Newf(errors.CodeNotFound, "rule %s not found", ruleID)
	}
	return rule, nil
}

// ResolveAt returns the rule version valid at the given instant, or nil
// when no version's window contains it.
func (s *GovernanceService) ResolveAt(ctx context.Context, ruleID string, at time.Time) (*domain.RuleVersion, error) {
	rule, err := s.Get(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	version, ok := temporal.ResolveRuleVersion(rule.Versions, at)
	if !ok {
		return nil, nil
	}
	return &version, nil
}

func (s *GovernanceService) append(ctx context.Context, aggregateID string, eventType event.Type, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	if _, err := s.log.Append(ctx, event.Event{
		AggregateID: aggregateID,
		Type:        eventType,
		Timestamp:   s.clock().UTC(),
		PayloadJSON: data,
	}); err != nil {
		return fmt.Errorf("append %s: %w", eventType, err)
	}
	return nil
}
