package master

import (
	"context"
	"database/sql"
	"fmt"

	txcontext "orbit/pkg/platform/tx"
)

// PostgresStore issues master numbers from the singleton counter row using
// the same one-statement upsert as the ordinal store. Numbers below the seed
// belong to the reserved range and are never returned.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed master store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const claimMasterSQL = `
INSERT INTO master_counter (id, next_master_number)
VALUES (1, $1 + 1)
ON CONFLICT (id)
DO UPDATE SET next_master_number = master_counter.next_master_number + 1, updated_at = now()
RETURNING next_master_number - 1`

func (s *PostgresStore) Claim(ctx context.Context, seed int64) (int64, error) {
	var claimed int64

	var row *sql.Row
	if tx, ok := txcontext.From(ctx); ok {
		row = tx.QueryRowContext(ctx, claimMasterSQL, seed)
	} else {
		row = s.db.QueryRowContext(ctx, claimMasterSQL, seed)
	}
	if err := row.Scan(&claimed); err != nil {
		return 0, fmt.Errorf("claim master number: %w", err)
	}
	return claimed, nil
}
