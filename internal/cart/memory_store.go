package cart

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-process Store used by tests and by
// single-instance dev setups running without redis.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]Line)}
}

func (s *MemoryStore) Lines(_ context.Context, sessionID string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[sessionID]
	if !ok {
		return []Line{}, nil
	}
	out := make([]Line, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Replace(_ context.Context, sessionID string, lines []Line) error {
	stored := make([]Line, len(lines))
	copy(stored, lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = stored
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
