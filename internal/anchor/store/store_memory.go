package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"orbit/internal/anchor"
	"orbit/pkg/platform/sentinel"
	"orbit/pkg/requestcontext"
)

// InMemory keeps queue entries in a map. Used in tests and when the
// service runs without Postgres.
type InMemory struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*anchor.QueueEntry
	order     []uuid.UUID
	byHallmrk map[uuid.UUID]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:      make(map[uuid.UUID]*anchor.QueueEntry),
		byHallmrk: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *InMemory) Create(_ context.Context, entry *anchor.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[entry.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[entry.ID] = cloneEntry(entry)
	s.order = append(s.order, entry.ID)
	s.byHallmrk[entry.HallmarkID] = entry.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*anchor.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneEntry(entry), nil
}

func (s *InMemory) FindByHallmark(_ context.Context, hallmarkID uuid.UUID) (*anchor.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHallmrk[hallmarkID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneEntry(s.byID[id]), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status anchor.Status, limit int) ([]*anchor.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*anchor.QueueEntry, 0)
	for _, id := range s.order {
		entry := s.byID[id]
		if entry.Status != status {
			continue
		}
		out = append(out, cloneEntry(entry))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *InMemory) UpdateStatus(ctx context.Context, id uuid.UUID, status anchor.Status, txSignature, lastError string) (*anchor.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !anchor.CanTransition(entry.Status, status) {
		return nil, sentinel.ErrInvalidState
	}

	now := requestcontext.Now(ctx)
	entry.Status = status
	entry.UpdatedAt = now
	if txSignature != "" {
		entry.TxSignature = txSignature
	}
	entry.LastError = lastError
	if status == anchor.StatusAnchored {
		anchoredAt := now
		entry.AnchoredAt = &anchoredAt
	}
	return cloneEntry(entry), nil
}

func cloneEntry(entry *anchor.QueueEntry) *anchor.QueueEntry {
	clone := *entry
	if entry.AnchoredAt != nil {
		at := *entry.AnchoredAt
		clone.AnchoredAt = &at
	}
	return &clone
}
