package counter

import (
	"context"
	"fmt"
)

// OrdinalStore issues tenant ordinals. Claim must be a single atomic
// increment-and-read (transactional upsert or mutex-held read-modify-write):
// concurrent callers for one tenant receive strictly increasing,
// non-colliding ordinals.
type OrdinalStore interface {
	// Claim lazily creates the tenant's counter (with the given prefix and
	// seed) and returns the claimed ordinal.
	Claim(ctx context.Context, tenantID, prefix string, seed int64) (int64, error)
	// GetOrCreate returns the counter row, initializing it if absent.
	GetOrCreate(ctx context.Context, tenantID, prefix string, seed int64) (*TenantCounter, error)
}

// MasterStore issues global master numbers with the same atomicity
// requirement as OrdinalStore.
type MasterStore interface {
	Claim(ctx context.Context, seed int64) (int64, error)
}

// OrdinalRegistry is the per-tenant numbering scheme.
type OrdinalRegistry struct {
	store    OrdinalStore
	prefixes map[string]string
}

// NewOrdinalRegistry builds a registry over the given store. A nil prefix
// table falls back to the defaults.
func NewOrdinalRegistry(store OrdinalStore, prefixes map[string]string) *OrdinalRegistry {
	if prefixes == nil {
		prefixes = DefaultTenantPrefixes()
	}
	return &OrdinalRegistry{store: store, prefixes: prefixes}
}

// NextOrdinal claims the tenant's next ordinal and formats its hallmark
// number. The store call completes before the result is used for any
// network-bound work; no lock is held by the caller.
func (r *OrdinalRegistry) NextOrdinal(ctx context.Context, tenantID string) (OrdinalResult, error) {
	prefix := PrefixFor(tenantID, r.prefixes)
	ordinal, err := r.store.Claim(ctx, tenantID, prefix, OrdinalSeed)
	if err != nil {
		return OrdinalResult{}, fmt.Errorf("claim ordinal for tenant %s: %w", tenantID, err)
	}
	return OrdinalResult{
		Ordinal:        ordinal,
		HallmarkNumber: FormatTenantNumber(prefix, ordinal),
	}, nil
}

// GetCounter returns the tenant's counter state for diagnostics, lazily
// initializing it on first access.
func (r *OrdinalRegistry) GetCounter(ctx context.Context, tenantID string) (*TenantCounter, error) {
	prefix := PrefixFor(tenantID, r.prefixes)
	return r.store.GetOrCreate(ctx, tenantID, prefix, OrdinalSeed)
}

// MasterRegistry is the global numbering scheme. Values 1-3000 are reserved
// and never returned.
type MasterRegistry struct {
	store MasterStore
}

// NewMasterRegistry builds the singleton master registry.
func NewMasterRegistry(store MasterStore) *MasterRegistry {
	return &MasterRegistry{store: store}
}

// NextMasterNumber claims the next global master number.
func (r *MasterRegistry) NextMasterNumber(ctx context.Context) (int64, error) {
	n, err := r.store.Claim(ctx, MasterSeed)
	if err != nil {
		return 0, fmt.Errorf("claim master number: %w", err)
	}
	return n, nil
}
