package master

import (
	"context"
	"sync"
)

// InMemory issues global master numbers under a mutex.
type InMemory struct {
	mu   sync.Mutex
	next int64
}

// NewInMemory creates an unseeded in-memory master store. The counter is
// lazily seeded on first claim.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Claim(_ context.Context, seed int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next == 0 {
		s.next = seed
	}
	claimed := s.next
	s.next++
	return claimed, nil
}
