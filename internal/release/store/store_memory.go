package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"orbit/internal/release"
	"orbit/pkg/platform/sentinel"
)

// InMemory keeps release versions in per-tenant slices ordered by insertion.
type InMemory struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*release.Version
	byTenant map[string][]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:     make(map[uuid.UUID]*release.Version),
		byTenant: make(map[string][]uuid.UUID),
	}
}

func (s *InMemory) Create(_ context.Context, v *release.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[v.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *v
	s.byID[v.ID] = &clone
	s.byTenant[v.TenantID] = append(s.byTenant[v.TenantID], v.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*release.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (s *InMemory) LatestByTenant(_ context.Context, tenantID string) (*release.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byTenant[tenantID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	var latest *release.Version
	for _, id := range ids {
		v := s.byID[id]
		if latest == nil || v.BuildNumber > latest.BuildNumber {
			latest = v
		}
	}
	clone := *latest
	return &clone, nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID string) ([]*release.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byTenant[tenantID]
	out := make([]*release.Version, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		clone := *s.byID[ids[i]]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) UpdateLedger(_ context.Context, id uuid.UUID, status, signature string) (*release.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	v.LedgerStatus = status
	if signature != "" {
		v.LedgerSignature = signature
	}
	clone := *v
	return &clone, nil
}
