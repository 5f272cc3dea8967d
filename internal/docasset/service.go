package docasset

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"orbit/internal/counter"
	"orbit/internal/hallmark"
	"orbit/internal/ledger"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/sentinel"
	"orbit/pkg/requestcontext"
)

// Store persists document assets; defined here so the service does not
// import its own store package.
type Store interface {
	Create(ctx context.Context, asset *DocumentAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*DocumentAsset, error)
	List(ctx context.Context, tenantID string) ([]*DocumentAsset, error)
	UpdateLedger(ctx context.Context, id uuid.UUID, update LedgerUpdate) (*DocumentAsset, error)
}

// CreateParams is the input for registering a document.
type CreateParams struct {
	TenantID     string
	SourceType   string
	SourceID     string
	Title        string
	Content      string
	HashToSolana bool
}

// Service registers tenant documents and optionally anchors their hashes.
type Service struct {
	store    Store
	ordinals *counter.OrdinalRegistry
	client   ledger.Client
	prefixes map[string]string
	logger   *slog.Logger
}

func NewService(st Store, ordinals *counter.OrdinalRegistry, client ledger.Client, prefixes map[string]string, logger *slog.Logger) *Service {
	if prefixes == nil {
		prefixes = counter.DefaultTenantPrefixes()
	}
	return &Service{store: st, ordinals: ordinals, client: client, prefixes: prefixes, logger: logger}
}

// Create registers a document. The ordinal claim completes before any
// ledger I/O; when hashToSolana is set, one synchronous anchor attempt is
// made and its outcome recorded, success or not.
func (s *Service) Create(ctx context.Context, params CreateParams) (*DocumentAsset, error) {
	if err := validateCreateParams(params); err != nil {
		return nil, err
	}

	ord, err := s.ordinals.NextOrdinal(ctx, params.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "claiming tenant ordinal")
	}

	now := requestcontext.Now(ctx)
	asset := &DocumentAsset{
		ID:             uuid.New(),
		TenantID:       params.TenantID,
		SourceType:     params.SourceType,
		SourceID:       params.SourceID,
		Title:          params.Title,
		HallmarkNumber: ord.HallmarkNumber,
		Ordinal:        ord.Ordinal,
		SHA256Hash:     hallmark.ContentHash(params.Content),
		SolanaStatus:   SolanaQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, asset); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storing document asset")
	}

	if params.HashToSolana {
		return s.anchorOnce(ctx, asset), nil
	}
	return asset, nil
}

// HashToSolana re-anchors an existing document's hash. Unlike issuance this
// is explicit, so an unconfigured ledger is reported to the caller.
func (s *Service) HashToSolana(ctx context.Context, id uuid.UUID) (*DocumentAsset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.client == nil || !s.client.Configured() {
		return nil, dErrors.New(dErrors.CodeNotConfigured, "ledger wallet not configured")
	}
	updated := s.anchorOnce(ctx, asset)
	if updated.SolanaStatus == SolanaFailed {
		return updated, dErrors.New(dErrors.CodeUnavailable, "ledger submission failed")
	}
	return updated, nil
}

// anchorOnce makes exactly one submission attempt and records the outcome.
// It never returns an error: the document stays valid without anchoring.
func (s *Service) anchorOnce(ctx context.Context, asset *DocumentAsset) *DocumentAsset {
	if s.client == nil || !s.client.Configured() {
		s.logger.InfoContext(ctx, "skipping document anchor, ledger not configured", "asset_id", asset.ID)
		return asset
	}

	if updated, err := s.store.UpdateLedger(ctx, asset.ID, LedgerUpdate{Status: SolanaPending}); err == nil {
		asset = updated
	}

	prefix := counter.PrefixFor(asset.TenantID, s.prefixes)
	receipt, err := s.client.Submit(ctx, asset.SHA256Hash, ledger.EntityRef{
		EntityType: asset.SourceType,
		EntityID:   asset.SourceID,
	}, prefix)

	patch := LedgerUpdate{Status: SolanaFailed}
	if err != nil {
		s.logger.WarnContext(ctx, "document anchor failed",
			"asset_id", asset.ID,
			"tenant", asset.TenantID,
			"error", err,
		)
	} else {
		blockTime := receipt.BlockTime
		patch = LedgerUpdate{
			Status:      SolanaConfirmed,
			Signature:   receipt.Signature,
			ExplorerURL: ledger.ExplorerURL(s.client.Network(), receipt.Signature),
			Slot:        receipt.Slot,
			BlockTime:   &blockTime,
		}
	}

	updated, updateErr := s.store.UpdateLedger(ctx, asset.ID, patch)
	if updateErr != nil {
		s.logger.ErrorContext(ctx, "recording document anchor outcome failed", "asset_id", asset.ID, "error", updateErr)
		asset.SolanaStatus = patch.Status
		return asset
	}
	return updated
}

// Get resolves a document by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DocumentAsset, error) {
	asset, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "document asset not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "looking up document asset")
	}
	return asset, nil
}

// List returns documents, optionally filtered by tenant, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]*DocumentAsset, error) {
	return s.store.List(ctx, tenantID)
}

// Counter exposes a tenant's ordinal counter, creating it lazily.
func (s *Service) Counter(ctx context.Context, tenantID string) (*counter.TenantCounter, error) {
	if tenantID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tenantId is required")
	}
	return s.ordinals.GetCounter(ctx, tenantID)
}

func validateCreateParams(params CreateParams) error {
	missing := ""
	switch {
	case params.TenantID == "":
		missing = "tenantId"
	case params.SourceType == "":
		missing = "sourceType"
	case params.SourceID == "":
		missing = "sourceId"
	case params.Title == "":
		missing = "title"
	case params.Content == "":
		missing = "content"
	}
	if missing != "" {
		return dErrors.Newf(dErrors.CodeValidation, "missing required field %q", missing)
	}
	return nil
}
