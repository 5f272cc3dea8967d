package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"orbit/internal/docasset"
	"orbit/pkg/platform/sentinel"
)

// InMemory keeps document assets in insertion order.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*docasset.DocumentAsset
	order []uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[uuid.UUID]*docasset.DocumentAsset)}
}

func (s *InMemory) Create(_ context.Context, asset *docasset.DocumentAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[asset.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[asset.ID] = cloneAsset(asset)
	s.order = append(s.order, asset.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*docasset.DocumentAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneAsset(asset), nil
}

func (s *InMemory) List(_ context.Context, tenantID string) ([]*docasset.DocumentAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*docasset.DocumentAsset, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		asset := s.byID[s.order[i]]
		if tenantID != "" && asset.TenantID != tenantID {
			continue
		}
		out = append(out, cloneAsset(asset))
	}
	return out, nil
}

func (s *InMemory) UpdateLedger(_ context.Context, id uuid.UUID, update docasset.LedgerUpdate) (*docasset.DocumentAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	asset.SolanaStatus = update.Status
	if update.Signature != "" {
		asset.Signature = update.Signature
		asset.ExplorerURL = update.ExplorerURL
		asset.Slot = update.Slot
		asset.BlockTime = update.BlockTime
	}
	asset.UpdatedAt = time.Now().UTC()
	return cloneAsset(asset), nil
}

func cloneAsset(asset *docasset.DocumentAsset) *docasset.DocumentAsset {
	clone := *asset
	if asset.BlockTime != nil {
		bt := *asset.BlockTime
		clone.BlockTime = &bt
	}
	return &clone
}
