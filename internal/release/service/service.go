// Package service implements release version bumps and the once-per-deploy
// auto bump that stamps every tenant's deployment with a release hallmark.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"orbit/internal/anchor"
	"orbit/internal/counter"
	"orbit/internal/hallmark"
	hallmarksvc "orbit/internal/hallmark/service"
	"orbit/internal/release"
	"orbit/internal/release/metrics"
	"orbit/internal/release/store"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/sentinel"
	"orbit/pkg/requestcontext"
)

// Issuer is the slice of the hallmark service release bumps depend on.
type Issuer interface {
	Issue(ctx context.Context, params hallmarksvc.IssueParams) (*hallmarksvc.IssueResult, error)
}

// Anchors submits a hallmark's queued anchor request synchronously.
type Anchors interface {
	Anchor(ctx context.Context, hallmarkID uuid.UUID, tenantPrefix string) (*anchor.QueueEntry, error)
}

// BumpResult pairs the persisted release with its certifying hallmark.
type BumpResult struct {
	Release  *release.Version   `json:"release"`
	Hallmark *hallmark.Hallmark `json:"hallmark"`
}

// Service owns release versioning for all tenants.
type Service struct {
	store    store.Store
	issuer   Issuer
	anchors  Anchors
	tenants  []string
	names    map[string]string
	prefixes map[string]string
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// autoBumped suppresses repeat auto-bump passes within one process.
	// The persisted deploymentId check is the real idempotency guard.
	autoBumped atomic.Bool
}

func NewService(
	st store.Store,
	issuer Issuer,
	anchors Anchors,
	tenants []string,
	names map[string]string,
	prefixes map[string]string,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	if names == nil {
		names = release.DefaultTenantNames()
	}
	if prefixes == nil {
		prefixes = counter.DefaultTenantPrefixes()
	}
	return &Service{
		store:    st,
		issuer:   issuer,
		anchors:  anchors,
		tenants:  tenants,
		names:    names,
		prefixes: prefixes,
		logger:   logger,
		metrics:  m,
	}
}

// Bump mints the next release version for a tenant and issues its hallmark.
func (s *Service) Bump(ctx context.Context, tenantID string, bump release.BumpType, notes string) (*BumpResult, error) {
	return s.bump(ctx, tenantID, bump, notes, "")
}

func (s *Service) bump(ctx context.Context, tenantID string, bump release.BumpType, notes, deploymentID string) (*BumpResult, error) {
	if tenantID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tenantId is required")
	}

	prevVersion := release.SeedVersion
	prevBuild := int64(release.SeedBuild)
	latest, err := s.store.LatestByTenant(ctx, tenantID)
	switch {
	case err == nil:
		prevVersion = latest.Version
		prevBuild = latest.BuildNumber
	case errors.Is(err, sentinel.ErrNotFound):
		// First release for this tenant.
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "reading latest release")
	}

	newVersion, err := release.NextVersion(prevVersion, bump)
	if err != nil {
		return nil, err
	}
	buildNumber := prevBuild + 1

	now := requestcontext.Now(ctx)
	content := fmt.Sprintf("%s:%s:%d:%d", tenantID, newVersion, buildNumber, now.UnixNano())

	issued, err := s.issuer.Issue(ctx, hallmarksvc.IssueParams{
		AssetType:     "release",
		RecipientName: release.TenantDisplayName(tenantID, s.names),
		RecipientRole: string(hallmark.RoleSystem),
		CreatedBy:     "system",
		Content:       content,
		Metadata: map[string]any{
			"tenantId":     tenantID,
			"version":      newVersion,
			"buildNumber":  buildNumber,
			"releaseNotes": notes,
		},
	})
	if err != nil {
		return nil, err
	}

	ledgerStatus := release.LedgerSkipped
	if issued.Blockchain.Queued {
		ledgerStatus = release.LedgerPending
	}
	v := &release.Version{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Version:      newVersion,
		BuildNumber:  buildNumber,
		HallmarkID:   issued.Hallmark.ID,
		ContentHash:  issued.Hallmark.ContentHash,
		DeploymentID: deploymentID,
		ReleaseNotes: notes,
		LedgerStatus: ledgerStatus,
		CreatedAt:    now,
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storing release version")
	}

	s.metrics.IncrementBump(tenantID, string(bump))
	return &BumpResult{Release: v, Hallmark: issued.Hallmark}, nil
}

// Latest returns a tenant's most recent release.
func (s *Service) Latest(ctx context.Context, tenantID string) (*release.Version, error) {
	v, err := s.store.LatestByTenant(ctx, tenantID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no releases for tenant")
	}
	return v, err
}

// List returns a tenant's release history, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]*release.Version, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

// Stamp synchronously anchors a release's hallmark on the ledger and records
// the outcome on the release row.
func (s *Service) Stamp(ctx context.Context, id uuid.UUID) (*release.Version, error) {
	v, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "release not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "reading release")
	}

	entry, anchorErr := s.anchors.Anchor(ctx, v.HallmarkID, counter.PrefixFor(v.TenantID, s.prefixes))
	status := release.LedgerFailed
	signature := ""
	if anchorErr == nil {
		status = release.LedgerAnchored
		signature = entry.TxSignature
	}
	updated, err := s.store.UpdateLedger(ctx, v.ID, status, signature)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "recording release ledger status")
	}
	if anchorErr != nil {
		return updated, anchorErr
	}
	return updated, nil
}

// AutoBumpAllTenants runs the once-per-deployment patch bump for every
// registered tenant. Tenants are processed independently: one tenant's
// failure never aborts the others, and a tenant whose latest release
// already carries this deploymentId is skipped.
func (s *Service) AutoBumpAllTenants(ctx context.Context, deploymentID string) {
	if deploymentID == "" {
		s.logger.InfoContext(ctx, "auto bump skipped, no deployment id configured")
		return
	}
	if !s.autoBumped.CompareAndSwap(false, true) {
		s.logger.InfoContext(ctx, "auto bump already ran in this process", "deployment_id", deploymentID)
		return
	}

	var g errgroup.Group
	for _, tenantID := range s.tenants {
		tenantID := tenantID
		g.Go(func() error {
			s.autoBumpTenant(ctx, tenantID, deploymentID)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) autoBumpTenant(ctx context.Context, tenantID, deploymentID string) {
	latest, err := s.store.LatestByTenant(ctx, tenantID)
	if err == nil && latest.DeploymentID == deploymentID {
		s.logger.InfoContext(ctx, "auto bump already recorded for deployment",
			"tenant", tenantID,
			"deployment_id", deploymentID,
		)
		s.metrics.IncrementAutoBump("skipped")
		return
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "auto bump latest-release read failed", "tenant", tenantID, "error", err)
		s.metrics.IncrementAutoBump("failed")
		return
	}

	result, err := s.bump(ctx, tenantID, release.BumpPatch, "Automated deployment bump", deploymentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "auto bump failed", "tenant", tenantID, "error", err)
		s.metrics.IncrementAutoBump("failed")
		return
	}

	// One synchronous anchor attempt; the release is recorded either way.
	entry, anchorErr := s.anchors.Anchor(ctx, result.Hallmark.ID, counter.PrefixFor(tenantID, s.prefixes))
	status := release.LedgerFailed
	signature := ""
	if anchorErr == nil {
		status = release.LedgerAnchored
		signature = entry.TxSignature
	} else {
		s.logger.WarnContext(ctx, "auto bump anchoring failed", "tenant", tenantID, "error", anchorErr)
	}
	if _, err := s.store.UpdateLedger(ctx, result.Release.ID, status, signature); err != nil {
		s.logger.ErrorContext(ctx, "recording auto bump ledger status failed", "tenant", tenantID, "error", err)
	}

	s.logger.InfoContext(ctx, "auto bump completed",
		"tenant", tenantID,
		"version", result.Release.Version,
		"build", result.Release.BuildNumber,
		"deployment_id", deploymentID,
	)
	s.metrics.IncrementAutoBump("bumped")
}
