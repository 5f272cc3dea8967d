package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"orbit/internal/hallmark"
	"orbit/pkg/platform/sentinel"
)

// InMemory keeps hallmarks in a map guarded by a RWMutex. Lookups return
// copies so callers can't mutate stored records.
type InMemory struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*hallmark.Hallmark
	byNumber  map[string]uuid.UUID
	insertSeq []uuid.UUID
}

// NewInMemory creates an empty in-memory hallmark store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:     make(map[uuid.UUID]*hallmark.Hallmark),
		byNumber: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) Create(_ context.Context, h *hallmark.Hallmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byNumber[h.HallmarkNumber]; exists {
		return sentinel.ErrAlreadyUsed
	}
	copied := cloneHallmark(h)
	s.byID[h.ID] = copied
	s.byNumber[h.HallmarkNumber] = h.ID
	s.insertSeq = append(s.insertSeq, h.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*hallmark.Hallmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneHallmark(h), nil
}

func (s *InMemory) FindByNumber(_ context.Context, number string) (*hallmark.Hallmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNumber[number]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneHallmark(s.byID[id]), nil
}

func (s *InMemory) List(_ context.Context) ([]*hallmark.Hallmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*hallmark.Hallmark) bool { return true }), nil
}

func (s *InMemory) ListByType(_ context.Context, assetType string) ([]*hallmark.Hallmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(h *hallmark.Hallmark) bool { return h.AssetType == assetType }), nil
}

func (s *InMemory) Search(_ context.Context, term string) ([]*hallmark.Hallmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(term)
	return s.collect(func(h *hallmark.Hallmark) bool {
		return strings.Contains(h.SearchTerms, needle)
	}), nil
}

func (s *InMemory) UpdateBlockchain(_ context.Context, id uuid.UUID, signature, explorerURL string) (*hallmark.Hallmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	h.BlockchainTxSignature = signature
	h.BlockchainExplorerURL = explorerURL
	h.UpdatedAt = time.Now()
	return cloneHallmark(h), nil
}

func (s *InMemory) MarkVerified(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	// VerifiedAt is set at most once.
	if h.VerifiedAt == nil {
		h.VerifiedAt = &at
		h.UpdatedAt = at
	}
	return nil
}

// collect returns matching hallmarks newest-first. Callers hold the lock.
func (s *InMemory) collect(match func(*hallmark.Hallmark) bool) []*hallmark.Hallmark {
	var out []*hallmark.Hallmark
	for _, id := range s.insertSeq {
		if h := s.byID[id]; match(h) {
			out = append(out, cloneHallmark(h))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func cloneHallmark(h *hallmark.Hallmark) *hallmark.Hallmark {
	copied := *h
	if h.Metadata != nil {
		copied.Metadata = make(map[string]any, len(h.Metadata))
		for k, v := range h.Metadata {
			copied.Metadata[k] = v
		}
	}
	if h.VerifiedAt != nil {
		at := *h.VerifiedAt
		copied.VerifiedAt = &at
	}
	return &copied
}
