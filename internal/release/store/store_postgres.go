package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orbit/internal/release"
	"orbit/pkg/platform/sentinel"
	txcontext "orbit/pkg/platform/tx"
)

const releaseColumns = `id, tenant_id, version, build_number, hallmark_id, content_hash, deployment_id, release_notes, ledger_status, ledger_signature, created_at`

const createReleaseSQL = `
	INSERT INTO release_versions
		(id, tenant_id, version, build_number, hallmark_id, content_hash, deployment_id, release_notes, ledger_status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const findReleaseByIDSQL = `SELECT ` + releaseColumns + ` FROM release_versions WHERE id = $1`

const latestReleaseSQL = `
	SELECT ` + releaseColumns + `
	FROM release_versions
	WHERE tenant_id = $1
	ORDER BY build_number DESC
	LIMIT 1`

const listReleasesSQL = `
	SELECT ` + releaseColumns + `
	FROM release_versions
	WHERE tenant_id = $1
	ORDER BY build_number DESC`

const updateReleaseLedgerSQL = `
	UPDATE release_versions
	SET ledger_status = $2,
	    ledger_signature = COALESCE(NULLIF($3, ''), ledger_signature)
	WHERE id = $1
	RETURNING ` + releaseColumns

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

func (s *Postgres) Create(ctx context.Context, v *release.Version) error {
	_, err := s.querier(ctx).ExecContext(ctx, createReleaseSQL,
		v.ID, v.TenantID, v.Version, v.BuildNumber, v.HallmarkID, v.ContentHash,
		nullString(v.DeploymentID), nullString(v.ReleaseNotes), v.LedgerStatus, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating release version: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*release.Version, error) {
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, findReleaseByIDSQL, id))
}

func (s *Postgres) LatestByTenant(ctx context.Context, tenantID string) (*release.Version, error) {
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, latestReleaseSQL, tenantID))
}

func (s *Postgres) ListByTenant(ctx context.Context, tenantID string) ([]*release.Version, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, listReleasesSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing release versions: %w", err)
	}
	defer rows.Close()

	var versions []*release.Version
	for rows.Next() {
		v, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Postgres) UpdateLedger(ctx context.Context, id uuid.UUID, status, signature string) (*release.Version, error) {
	return s.scanOne(s.querier(ctx).QueryRowContext(ctx, updateReleaseLedgerSQL, id, status, signature))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*release.Version, error) {
	v, err := scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return v, err
}

func scanRelease(row rowScanner) (*release.Version, error) {
	var v release.Version
	var deploymentID, notes, signature sql.NullString

	err := row.Scan(&v.ID, &v.TenantID, &v.Version, &v.BuildNumber, &v.HallmarkID,
		&v.ContentHash, &deploymentID, &notes, &v.LedgerStatus, &signature, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	v.DeploymentID = deploymentID.String
	v.ReleaseNotes = notes.String
	v.LedgerSignature = signature.String
	return &v, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
