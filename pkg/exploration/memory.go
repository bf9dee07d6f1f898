package exploration

import (
	"context"
	"sync"
)

// MemoryStore keeps explorations in process memory. Values are copied on
// the way in and out, so callers may modify what they hold.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Exploration
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Exploration)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		return nil, NotFound(id)
	}
	return e.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, exp *Exploration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[exp.ID] = exp.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return NotFound(id)
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Exploration, error) {
	s.mu.RLock()
	out := make([]*Exploration, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e.Clone())
	}
	s.mu.RUnlock()
	sortByUpdated(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
