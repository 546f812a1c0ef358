package snapshot

import (
	"context"
	"sync"

	"github.com/convene-app/convene/internal/match/domain"
)

// MemoryMatchStore keeps match snapshots in a map. Safe for concurrent use.
type MemoryMatchStore struct {
	mu      sync.RWMutex
	matches map[string]domain.Match
}

// NewMemoryMatchStore returns an empty in-memory match store.
func NewMemoryMatchStore() *MemoryMatchStore {
	return &MemoryMatchStore{matches: make(map[string]domain.Match)}
}

// Save upserts the snapshot for match.ID.
func (s *MemoryMatchStore) Save(ctx context.Context, match domain.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match
	return nil
}

// Get returns the snapshot for id, or ErrNotFound.
func (s *MemoryMatchStore) Get(ctx context.Context, id string) (domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return domain.Match{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return domain.Match{}, ErrNotFound
	}
	return match, nil
}

// Delete removes the snapshot for id.
func (s *MemoryMatchStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

// MemoryActorStore keeps actor snapshots in a map. Safe for concurrent use.
type MemoryActorStore struct {
	mu     sync.RWMutex
	actors map[string]domain.Actor
}

// NewMemoryActorStore returns an empty in-memory actor store.
func NewMemoryActorStore() *MemoryActorStore {
	return &MemoryActorStore{actors: make(map[string]domain.Actor)}
}

// Save upserts the snapshot for actor.ID.
func (s *MemoryActorStore) Save(ctx context.Context, actor domain.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[actor.ID] = actor
	return nil
}

// Get returns the snapshot for id, or ErrNotFound.
func (s *MemoryActorStore) Get(ctx context.Context, id string) (domain.Actor, error) {
	if err := ctx.Err(); err != nil {
		return domain.Actor{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.actors[id]
	if !ok {
		return domain.Actor{}, ErrNotFound
	}
	return actor, nil
}

// Delete removes the snapshot for id.
func (s *MemoryActorStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actors, id)
	return nil
}

var (
	_ MatchStore = (*MemoryMatchStore)(nil)
	_ ActorStore = (*MemoryActorStore)(nil)
)
