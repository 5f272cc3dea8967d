package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orbit/internal/docasset"
	"orbit/pkg/platform/sentinel"
	txcontext "orbit/pkg/platform/tx"
)

const assetColumns = `id, tenant_id, source_type, source_id, title, hallmark_number, ordinal, sha256_hash, solana_status, signature, explorer_url, slot, block_time, created_at, updated_at`

const createAssetSQL = `
	INSERT INTO document_assets
		(id, tenant_id, source_type, source_id, title, hallmark_number, ordinal, sha256_hash, solana_status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

const findAssetByIDSQL = `SELECT ` + assetColumns + ` FROM document_assets WHERE id = $1`

const listAssetsSQL = `
	SELECT ` + assetColumns + `
	FROM document_assets
	WHERE $1 = '' OR tenant_id = $1
	ORDER BY created_at DESC, ordinal DESC`

const updateAssetLedgerSQL = `
	UPDATE document_assets
	SET solana_status = $2,
	    signature = COALESCE(NULLIF($3, ''), signature),
	    explorer_url = COALESCE(NULLIF($4, ''), explorer_url),
	    slot = CASE WHEN $5 > 0 THEN $5 ELSE slot END,
	    block_time = COALESCE($6, block_time),
	    updated_at = now()
	WHERE id = $1
	RETURNING ` + assetColumns

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

func (s *Postgres) Create(ctx context.Context, asset *docasset.DocumentAsset) error {
	_, err := s.querier(ctx).ExecContext(ctx, createAssetSQL,
		asset.ID, asset.TenantID, asset.SourceType, asset.SourceID, asset.Title,
		asset.HallmarkNumber, asset.Ordinal, asset.SHA256Hash, asset.SolanaStatus, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating document asset: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*docasset.DocumentAsset, error) {
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, findAssetByIDSQL, id))
}

func (s *Postgres) List(ctx context.Context, tenantID string) ([]*docasset.DocumentAsset, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, listAssetsSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing document assets: %w", err)
	}
	defer rows.Close()

	var assets []*docasset.DocumentAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (s *Postgres) UpdateLedger(ctx context.Context, id uuid.UUID, update docasset.LedgerUpdate) (*docasset.DocumentAsset, error) {
	var blockTime sql.NullTime
	if update.BlockTime != nil {
		blockTime = sql.NullTime{Time: *update.BlockTime, Valid: true}
	}
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, updateAssetLedgerSQL,
		id, update.Status, update.Signature, update.ExplorerURL, int64(update.Slot), blockTime))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*docasset.DocumentAsset, error) {
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return asset, err
}

func scanAsset(row rowScanner) (*docasset.DocumentAsset, error) {
	var asset docasset.DocumentAsset
	var signature, explorerURL sql.NullString
	var slot sql.NullInt64
	var blockTime sql.NullTime

	err := row.Scan(&asset.ID, &asset.TenantID, &asset.SourceType, &asset.SourceID, &asset.Title,
		&asset.HallmarkNumber, &asset.Ordinal, &asset.SHA256Hash, &asset.SolanaStatus,
		&signature, &explorerURL, &slot, &blockTime, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return nil, err
	}
	asset.Signature = signature.String
	asset.ExplorerURL = explorerURL.String
	if slot.Valid {
		asset.Slot = uint64(slot.Int64)
	}
	if blockTime.Valid {
		asset.BlockTime = &blockTime.Time
	}
	return &asset, nil
}
