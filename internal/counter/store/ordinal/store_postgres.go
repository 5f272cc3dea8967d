package ordinal

import (
	"context"
	"database/sql"
	"fmt"

	"orbit/internal/counter"
	txcontext "orbit/pkg/platform/tx"
)

// PostgresStore issues tenant ordinals with a single transactional upsert.
// The increment-and-read happens in one statement so concurrent claims can
// never observe the same value, regardless of how many server instances run.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ordinal store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) querier(ctx context.Context) queryRower {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const claimOrdinalSQL = `
INSERT INTO tenant_counters (tenant_id, prefix, next_ordinal)
VALUES ($1, $2, $3 + 1)
ON CONFLICT (tenant_id)
DO UPDATE SET next_ordinal = tenant_counters.next_ordinal + 1, updated_at = now()
RETURNING next_ordinal - 1`

func (s *PostgresStore) Claim(ctx context.Context, tenantID, prefix string, seed int64) (int64, error) {
	var claimed int64
	err := s.querier(ctx).QueryRowContext(ctx, claimOrdinalSQL, tenantID, prefix, seed).Scan(&claimed)
	if err != nil {
		return 0, fmt.Errorf("claim tenant ordinal: %w", err)
	}
	return claimed, nil
}

const getOrCreateCounterSQL = `
INSERT INTO tenant_counters (tenant_id, prefix, next_ordinal)
VALUES ($1, $2, $3)
ON CONFLICT (tenant_id) DO UPDATE SET tenant_id = tenant_counters.tenant_id
RETURNING tenant_id, prefix, next_ordinal, created_at, updated_at`

func (s *PostgresStore) GetOrCreate(ctx context.Context, tenantID, prefix string, seed int64) (*counter.TenantCounter, error) {
	var c counter.TenantCounter
	err := s.querier(ctx).QueryRowContext(ctx, getOrCreateCounterSQL, tenantID, prefix, seed).
		Scan(&c.TenantID, &c.Prefix, &c.NextOrdinal, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create tenant counter: %w", err)
	}
	return &c, nil
}
