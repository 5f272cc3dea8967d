package store

import (
	"context"

	"github.com/google/uuid"

	"orbit/internal/docasset"
)

// Store persists document assets.
type Store interface {
	Create(ctx context.Context, asset *docasset.DocumentAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*docasset.DocumentAsset, error)
	List(ctx context.Context, tenantID string) ([]*docasset.DocumentAsset, error)
	UpdateLedger(ctx context.Context, id uuid.UUID, update docasset.LedgerUpdate) (*docasset.DocumentAsset, error)
}
