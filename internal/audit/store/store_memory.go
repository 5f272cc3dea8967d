package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"orbit/internal/audit"
)

// InMemory keeps audit entries in appended order per hallmark.
type InMemory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]audit.Entry
}

// NewInMemory creates an empty in-memory audit store.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[uuid.UUID][]audit.Entry)}
}

func (s *InMemory) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.HallmarkID] = append(s.entries[entry.HallmarkID], entry)
	return nil
}

// ListByHallmark returns entries newest first.
func (s *InMemory) ListByHallmark(_ context.Context, hallmarkID uuid.UUID) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[hallmarkID]
	out := make([]audit.Entry, len(stored))
	for i, entry := range stored {
		out[len(stored)-1-i] = entry
	}
	return out, nil
}
