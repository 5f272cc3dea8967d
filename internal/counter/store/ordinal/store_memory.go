package ordinal

import (
	"context"
	"sync"
	"time"

	"orbit/internal/counter"
)

// InMemory issues tenant ordinals under a single mutex. The increment and
// read happen inside the critical section, matching the atomicity the
// Postgres store gets from its transactional upsert.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]*counter.TenantCounter
}

// NewInMemory creates an empty in-memory ordinal store.
func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]*counter.TenantCounter)}
}

func (s *InMemory) Claim(_ context.Context, tenantID, prefix string, seed int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c, ok := s.counters[tenantID]
	if !ok {
		c = &counter.TenantCounter{
			TenantID:    tenantID,
			Prefix:      prefix,
			NextOrdinal: seed,
			CreatedAt:   now,
		}
		s.counters[tenantID] = c
	}

	claimed := c.NextOrdinal
	c.NextOrdinal++
	c.UpdatedAt = now
	return claimed, nil
}

func (s *InMemory) GetOrCreate(_ context.Context, tenantID, prefix string, seed int64) (*counter.TenantCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[tenantID]
	if !ok {
		now := time.Now()
		c = &counter.TenantCounter{
			TenantID:    tenantID,
			Prefix:      prefix,
			NextOrdinal: seed,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.counters[tenantID] = c
	}

	copied := *c
	return &copied, nil
}
