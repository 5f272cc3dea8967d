package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"orbit/internal/hallmark"
	"orbit/pkg/platform/sentinel"
	txcontext "orbit/pkg/platform/tx"
)

// PostgresStore persists hallmarks in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed hallmark store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const hallmarkColumns = `id, hallmark_number, asset_number, asset_type, reference_id,
created_by, recipient_name, recipient_role, content_hash, metadata, search_terms,
blockchain_tx_signature, blockchain_explorer_url, verified_at, created_at, updated_at`

const createHallmarkSQL = `
INSERT INTO hallmarks (` + hallmarkColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

func (s *PostgresStore) Create(ctx context.Context, h *hallmark.Hallmark) error {
	metadata, err := json.Marshal(h.Metadata)
	if err != nil {
		return fmt.Errorf("marshal hallmark metadata: %w", err)
	}

	args := []any{
		h.ID, h.HallmarkNumber, nullString(h.AssetNumber), h.AssetType, nullString(h.ReferenceID),
		h.CreatedBy, h.RecipientName, string(h.RecipientRole), h.ContentHash, metadata, h.SearchTerms,
		nullString(h.BlockchainTxSignature), nullString(h.BlockchainExplorerURL), h.VerifiedAt,
		h.CreatedAt, h.UpdatedAt,
	}

	if tx, ok := txcontext.From(ctx); ok {
		_, err = tx.ExecContext(ctx, createHallmarkSQL, args...)
	} else {
		_, err = s.db.ExecContext(ctx, createHallmarkSQL, args...)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create hallmark: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*hallmark.Hallmark, error) {
	query := `SELECT ` + hallmarkColumns + ` FROM hallmarks WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) FindByNumber(ctx context.Context, number string) (*hallmark.Hallmark, error) {
	query := `SELECT ` + hallmarkColumns + ` FROM hallmarks WHERE hallmark_number = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, number))
}

func (s *PostgresStore) List(ctx context.Context) ([]*hallmark.Hallmark, error) {
	query := `SELECT ` + hallmarkColumns + ` FROM hallmarks ORDER BY created_at DESC`
	return s.scanMany(ctx, query)
}

func (s *PostgresStore) ListByType(ctx context.Context, assetType string) ([]*hallmark.Hallmark, error) {
	query := `SELECT ` + hallmarkColumns + ` FROM hallmarks WHERE asset_type = $1 ORDER BY created_at DESC`
	return s.scanMany(ctx, query, assetType)
}

func (s *PostgresStore) Search(ctx context.Context, term string) ([]*hallmark.Hallmark, error) {
	query := `SELECT ` + hallmarkColumns + ` FROM hallmarks WHERE search_terms LIKE $1 ORDER BY created_at DESC`
	return s.scanMany(ctx, query, "%"+strings.ToLower(term)+"%")
}

const updateBlockchainSQL = `
UPDATE hallmarks
SET blockchain_tx_signature = $2, blockchain_explorer_url = $3, updated_at = now()
WHERE id = $1
RETURNING ` + hallmarkColumns

func (s *PostgresStore) UpdateBlockchain(ctx context.Context, id uuid.UUID, signature, explorerURL string) (*hallmark.Hallmark, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, updateBlockchainSQL, id, signature, explorerURL))
}

const markVerifiedSQL = `
UPDATE hallmarks
SET verified_at = $2, updated_at = $2
WHERE id = $1 AND verified_at IS NULL`

func (s *PostgresStore) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	// Affecting zero rows is fine: either the hallmark is already verified
	// (set-once) or it does not exist, and callers have already loaded it.
	if _, err := s.db.ExecContext(ctx, markVerifiedSQL, id, at); err != nil {
		return fmt.Errorf("mark hallmark verified: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanMany(ctx context.Context, query string, args ...any) ([]*hallmark.Hallmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hallmarks: %w", err)
	}
	defer rows.Close()

	var out []*hallmark.Hallmark
	for rows.Next() {
		h, err := scanHallmark(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *PostgresStore) scanOne(row *sql.Row) (*hallmark.Hallmark, error) {
	h, err := scanHallmark(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func scanHallmark(scan func(...any) error) (*hallmark.Hallmark, error) {
	var (
		h           hallmark.Hallmark
		role        string
		assetNumber sql.NullString
		referenceID sql.NullString
		metadata    []byte
		signature   sql.NullString
		explorerURL sql.NullString
		verifiedAt  sql.NullTime
	)
	err := scan(
		&h.ID, &h.HallmarkNumber, &assetNumber, &h.AssetType, &referenceID,
		&h.CreatedBy, &h.RecipientName, &role, &h.ContentHash, &metadata, &h.SearchTerms,
		&signature, &explorerURL, &verifiedAt, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan hallmark: %w", err)
	}

	h.RecipientRole = hallmark.RecipientRole(role)
	h.AssetNumber = assetNumber.String
	h.ReferenceID = referenceID.String
	h.BlockchainTxSignature = signature.String
	h.BlockchainExplorerURL = explorerURL.String
	if verifiedAt.Valid {
		at := verifiedAt.Time
		h.VerifiedAt = &at
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &h.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal hallmark metadata: %w", err)
		}
	}
	return &h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
