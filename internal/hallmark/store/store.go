package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orbit/internal/hallmark"
)

// Store persists hallmarks. Records are immutable after creation except for
// the ledger fields (UpdateBlockchain) and VerifiedAt (MarkVerified, set at
// most once).
type Store interface {
	Create(ctx context.Context, h *hallmark.Hallmark) error
	FindByID(ctx context.Context, id uuid.UUID) (*hallmark.Hallmark, error)
	FindByNumber(ctx context.Context, number string) (*hallmark.Hallmark, error)
	List(ctx context.Context) ([]*hallmark.Hallmark, error)
	ListByType(ctx context.Context, assetType string) ([]*hallmark.Hallmark, error)
	Search(ctx context.Context, term string) ([]*hallmark.Hallmark, error)
	UpdateBlockchain(ctx context.Context, id uuid.UUID, signature, explorerURL string) (*hallmark.Hallmark, error)
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}
