package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orbit/internal/anchor"
	"orbit/pkg/platform/sentinel"
	txcontext "orbit/pkg/platform/tx"
)

const queueColumns = `id, hallmark_id, content_hash, asset_type, status, tx_signature, last_error, created_at, updated_at, anchored_at`

const createEntrySQL = `
	INSERT INTO anchor_queue (id, hallmark_id, content_hash, asset_type, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $6)`

const findEntryByIDSQL = `SELECT ` + queueColumns + ` FROM anchor_queue WHERE id = $1`

const findEntryByHallmarkSQL = `
	SELECT ` + queueColumns + `
	FROM anchor_queue
	WHERE hallmark_id = $1
	ORDER BY created_at DESC
	LIMIT 1`

const listEntriesByStatusSQL = `
	SELECT ` + queueColumns + `
	FROM anchor_queue
	WHERE status = $1
	ORDER BY created_at ASC
	LIMIT $2`

// updateStatusSQL enforces the allowed transitions in the database so
// concurrent workers cannot regress a terminal entry.
const updateStatusSQL = `
	UPDATE anchor_queue
	SET status = $2,
	    tx_signature = COALESCE(NULLIF($3, ''), tx_signature),
	    last_error = $4,
	    updated_at = now(),
	    anchored_at = CASE WHEN $2 = 'anchored' THEN now() ELSE anchored_at END
	WHERE id = $1
	  AND status NOT IN ('anchored', 'failed')
	  AND status <> $2
	RETURNING ` + queueColumns

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) querier(ctx context.Context) txcontext.Querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, entry *anchor.QueueEntry) error {
	_, err := s.querier(ctx).ExecContext(ctx, createEntrySQL,
		entry.ID, entry.HallmarkID, entry.ContentHash, entry.AssetType, entry.Status, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating anchor queue entry: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*anchor.QueueEntry, error) {
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, findEntryByIDSQL, id))
}

func (s *Postgres) FindByHallmark(ctx context.Context, hallmarkID uuid.UUID) (*anchor.QueueEntry, error) {
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, findEntryByHallmarkSQL, hallmarkID))
}

func (s *Postgres) ListByStatus(ctx context.Context, status anchor.Status, limit int) ([]*anchor.QueueEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.querier(ctx).QueryContext(ctx, listEntriesByStatusSQL, status, limit)
	if err != nil {
		return nil, fmt.Errorf("listing anchor queue entries: %w", err)
	}
	defer rows.Close()

	var entries []*anchor.QueueEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Postgres) UpdateStatus(ctx context.Context, id uuid.UUID, status anchor.Status, txSignature, lastError string) (*anchor.QueueEntry, error) {
	entry, err := s.scanOne(s.querier(ctx).QueryRowContext(ctx, updateStatusSQL, id, status, txSignature, lastError))
	if errors.Is(err, sentinel.ErrNotFound) {
		// Distinguish a missing entry from a disallowed transition.
		if _, findErr := s.FindByID(ctx, id); findErr == nil {
			return nil, sentinel.ErrInvalidState
		}
		return nil, sentinel.ErrNotFound
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*anchor.QueueEntry, error) {
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return entry, err
}

func scanEntry(row rowScanner) (*anchor.QueueEntry, error) {
	var entry anchor.QueueEntry
	var txSig, lastErr sql.NullString
	var anchoredAt sql.NullTime

	err := row.Scan(&entry.ID, &entry.HallmarkID, &entry.ContentHash, &entry.AssetType,
		&entry.Status, &txSig, &lastErr, &entry.CreatedAt, &entry.UpdatedAt, &anchoredAt)
	if err != nil {
		return nil, err
	}
	entry.TxSignature = txSig.String
	entry.LastError = lastErr.String
	if anchoredAt.Valid {
		entry.AnchoredAt = &anchoredAt.Time
	}
	return &entry, nil
}
