package store

import (
	"context"

	"github.com/google/uuid"

	"orbit/internal/release"
)

// Store persists release versions.
type Store interface {
	Create(ctx context.Context, v *release.Version) error
	FindByID(ctx context.Context, id uuid.UUID) (*release.Version, error)
	// LatestByTenant returns the highest-build release for a tenant, or
	// sentinel.ErrNotFound when the tenant has no history.
	LatestByTenant(ctx context.Context, tenantID string) (*release.Version, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*release.Version, error)
	UpdateLedger(ctx context.Context, id uuid.UUID, status, signature string) (*release.Version, error)
}
