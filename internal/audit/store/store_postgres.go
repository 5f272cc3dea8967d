package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"orbit/internal/audit"
	txcontext "orbit/pkg/platform/tx"
)

// PostgresStore persists audit entries in PostgreSQL. The table carries no
// update path; appends are the only write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const appendAuditSQL = `
INSERT INTO hallmark_audits (id, hallmark_id, action, actor, details, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (s *PostgresStore) Append(ctx context.Context, entry audit.Entry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	var execErr error
	if tx, ok := txcontext.From(ctx); ok {
		_, execErr = tx.ExecContext(ctx, appendAuditSQL,
			entry.ID, entry.HallmarkID, entry.Action, entry.Actor, details, entry.CreatedAt)
	} else {
		_, execErr = s.db.ExecContext(ctx, appendAuditSQL,
			entry.ID, entry.HallmarkID, entry.Action, entry.Actor, details, entry.CreatedAt)
	}
	if execErr != nil {
		return fmt.Errorf("append audit entry: %w", execErr)
	}
	return nil
}

const listAuditSQL = `
SELECT id, hallmark_id, action, actor, details, created_at
FROM hallmark_audits
WHERE hallmark_id = $1
ORDER BY created_at DESC, id DESC`

func (s *PostgresStore) ListByHallmark(ctx context.Context, hallmarkID uuid.UUID) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, listAuditSQL, hallmarkID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var entry audit.Entry
		var details []byte
		if err := rows.Scan(&entry.ID, &entry.HallmarkID, &entry.Action, &entry.Actor, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
