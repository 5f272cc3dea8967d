// Package service orchestrates hallmark issuance, lookup, and public
// verification over the pure hallmark package, the counter registries, the
// audit log, and the anchoring queue.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"orbit/internal/anchor"
	"orbit/internal/audit"
	"orbit/internal/counter"
	"orbit/internal/hallmark"
	"orbit/internal/hallmark/metrics"
	"orbit/internal/hallmark/store"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/platform/sentinel"
	"orbit/pkg/requestcontext"
)

// generateAttempts bounds retries when a random date-scheme number collides.
const generateAttempts = 3

// IssueParams carries everything needed to issue one hallmark.
type IssueParams struct {
	AssetType       string
	RecipientName   string
	RecipientRole   string
	CreatedBy       string
	Content         string
	Metadata        map[string]any
	ReferenceID     string
	UseMasterNumber bool
}

// BlockchainStatus tells the caller what happened to the anchoring request
// at issuance time. Anchoring itself runs later.
type BlockchainStatus struct {
	Queued  bool   `json:"queued"`
	Message string `json:"message"`
}

// IssueResult is the issuance response.
type IssueResult struct {
	Hallmark   *hallmark.Hallmark `json:"hallmark"`
	Blockchain BlockchainStatus   `json:"blockchainStatus"`
}

// VerifyResult is the always-200 public verification response.
type VerifyResult struct {
	Valid      bool               `json:"valid"`
	Hallmark   *hallmark.Hallmark `json:"hallmark,omitempty"`
	Badge      *hallmark.Badge    `json:"badge,omitempty"`
	Blockchain VerifyBlockchain   `json:"blockchain"`
	Message    string             `json:"message,omitempty"`
}

// VerifyBlockchain summarizes a hallmark's ledger state for verification.
type VerifyBlockchain struct {
	Verified             bool   `json:"verified"`
	TransactionSignature string `json:"transactionSignature,omitempty"`
	ExplorerURL          string `json:"explorerUrl,omitempty"`
}

// Service issues and resolves hallmarks.
type Service struct {
	store      store.Store
	master     *counter.MasterRegistry
	scheme     *hallmark.Scheme
	classifier *hallmark.Classifier
	anchorable map[string]bool
	anchors    *anchor.Service
	auditor    *audit.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(
	st store.Store,
	master *counter.MasterRegistry,
	scheme *hallmark.Scheme,
	anchorable map[string]bool,
	anchors *anchor.Service,
	auditor *audit.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	if scheme == nil {
		scheme = hallmark.NewScheme(nil)
	}
	if anchorable == nil {
		anchorable = hallmark.DefaultAnchorableTypes()
	}
	return &Service{
		store:      st,
		master:     master,
		scheme:     scheme,
		classifier: hallmark.NewClassifier(scheme),
		anchorable: anchorable,
		anchors:    anchors,
		auditor:    auditor,
		logger:     logger,
		metrics:    m,
	}
}

// ShouldAnchor reports whether hallmarks of this asset type get queued for
// ledger anchoring.
func (s *Service) ShouldAnchor(assetType string) bool {
	return s.anchorable[assetType]
}

// Issue creates a hallmark. The counter claim, when requested, completes
// before anything else; no ledger I/O happens here at all.
func (s *Service) Issue(ctx context.Context, params IssueParams) (*IssueResult, error) {
	if err := validateIssueParams(params); err != nil {
		return nil, err
	}
	role, err := hallmark.ParseRecipientRole(params.RecipientRole)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	h := &hallmark.Hallmark{
		ID:            uuid.New(),
		AssetType:     params.AssetType,
		ReferenceID:   params.ReferenceID,
		CreatedBy:     params.CreatedBy,
		RecipientName: params.RecipientName,
		RecipientRole: role,
		ContentHash:   hallmark.ContentHash(params.Content),
		Metadata:      params.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	scheme := "date"
	if params.UseMasterNumber {
		scheme = "master"
		masterNumber, err := s.master.NextMasterNumber(ctx)
		if err != nil {
			return nil, err
		}
		h.HallmarkNumber = hallmark.FormatAssetNumber(masterNumber, 0)
		h.AssetNumber = h.HallmarkNumber
		h.SearchTerms = hallmark.BuildSearchTerms(h)
		if err := s.store.Create(ctx, h); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "storing hallmark")
		}
	} else {
		if err := s.createWithGeneratedNumber(ctx, h); err != nil {
			return nil, err
		}
	}

	actor := params.CreatedBy
	if a := requestcontext.Actor(ctx); a != "" {
		actor = a
	}
	if _, err := s.auditor.Append(ctx, h.ID, audit.ActionCreated, actor, map[string]any{
		"hallmarkNumber": h.HallmarkNumber,
		"assetType":      h.AssetType,
	}); err != nil {
		s.logger.ErrorContext(ctx, "recording created audit failed", "hallmark_id", h.ID, "error", err)
	}

	s.metrics.IncrementIssued(h.AssetType, scheme)

	status := BlockchainStatus{
		Queued:  false,
		Message: "This asset type is not anchored to the blockchain",
	}
	if s.ShouldAnchor(h.AssetType) && s.anchors != nil {
		if _, err := s.anchors.Enqueue(ctx, h.ID, h.ContentHash, h.AssetType); err != nil {
			s.logger.WarnContext(ctx, "queueing anchor request failed", "hallmark_id", h.ID, "error", err)
			status.Message = "Hallmark issued; blockchain anchoring could not be queued"
		} else {
			status = BlockchainStatus{
				Queued:  true,
				Message: "Hallmark queued for blockchain anchoring",
			}
		}
	}

	return &IssueResult{Hallmark: h, Blockchain: status}, nil
}

// createWithGeneratedNumber retries the random date-scheme number on the
// rare unique collision.
func (s *Service) createWithGeneratedNumber(ctx context.Context, h *hallmark.Hallmark) error {
	now := requestcontext.Now(ctx)
	for attempt := 0; attempt < generateAttempts; attempt++ {
		h.HallmarkNumber = hallmark.GenerateNumber(now)
		h.SearchTerms = hallmark.BuildSearchTerms(h)
		err := s.store.Create(ctx, h)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "storing hallmark")
		}
	}
	return dErrors.New(dErrors.CodeConflict, "could not allocate a unique hallmark number")
}

func validateIssueParams(params IssueParams) error {
	missing := ""
	switch {
	case params.AssetType == "":
		missing = "assetType"
	case params.RecipientName == "":
		missing = "recipientName"
	case params.RecipientRole == "":
		missing = "recipientRole"
	case params.CreatedBy == "":
		missing = "createdBy"
	case params.Content == "":
		missing = "content"
	}
	if missing != "" {
		return dErrors.Newf(dErrors.CodeValidation, "missing required field %q", missing)
	}
	return nil
}

// LookupResult pairs a hallmark with its cosmetic badge.
type LookupResult struct {
	Hallmark *hallmark.Hallmark `json:"hallmark"`
	Badge    hallmark.Badge     `json:"badge"`
}

// Lookup resolves a hallmark by its number.
func (s *Service) Lookup(ctx context.Context, number string) (*LookupResult, error) {
	h, err := s.store.FindByNumber(ctx, number)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "hallmark not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "looking up hallmark")
	}
	return &LookupResult{Hallmark: h, Badge: s.classifier.Classify(h.HallmarkNumber)}, nil
}

// Get resolves a hallmark by its id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*hallmark.Hallmark, error) {
	h, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "hallmark not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "looking up hallmark")
	}
	return h, nil
}

// Classify returns the badge for any hallmark number, stored or not.
func (s *Service) Classify(number string) hallmark.Badge {
	return s.classifier.Classify(number)
}

// PublicVerify resolves a hallmark number for the public verification page.
// It never fails: an unknown or malformed number yields valid=false.
func (s *Service) PublicVerify(ctx context.Context, number string) *VerifyResult {
	s.metrics.IncrementVerifications()

	if !s.scheme.ValidateFormat(number) {
		return &VerifyResult{Valid: false, Message: "Invalid hallmark format"}
	}

	h, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "verification lookup failed", "number", number, "error", err)
		}
		return &VerifyResult{Valid: false, Message: "Hallmark not found"}
	}

	now := requestcontext.Now(ctx)
	if err := s.store.MarkVerified(ctx, h.ID, now); err != nil {
		s.logger.WarnContext(ctx, "marking hallmark verified failed", "hallmark_id", h.ID, "error", err)
	} else if h.VerifiedAt == nil {
		h.VerifiedAt = &now
	}

	actor := requestcontext.Actor(ctx)
	if actor == "" {
		actor = "public"
	}
	if _, err := s.auditor.Append(ctx, h.ID, audit.ActionVerified, actor, nil); err != nil {
		s.logger.ErrorContext(ctx, "recording verified audit failed", "hallmark_id", h.ID, "error", err)
	}

	badge := s.classifier.Classify(h.HallmarkNumber)
	result := &VerifyResult{Valid: true, Hallmark: h, Badge: &badge}
	if h.BlockchainTxSignature != "" {
		result.Blockchain = VerifyBlockchain{
			Verified:             true,
			TransactionSignature: h.BlockchainTxSignature,
			ExplorerURL:          h.BlockchainExplorerURL,
		}
	}
	return result
}

// List returns all hallmarks, newest first.
func (s *Service) List(ctx context.Context) ([]*hallmark.Hallmark, error) {
	return s.store.List(ctx)
}

// ListByType returns hallmarks of one asset type, newest first.
func (s *Service) ListByType(ctx context.Context, assetType string) ([]*hallmark.Hallmark, error) {
	return s.store.ListByType(ctx, assetType)
}

// Search matches hallmarks by their case-folded search terms.
func (s *Service) Search(ctx context.Context, term string) ([]*hallmark.Hallmark, error) {
	if term == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "search term is required")
	}
	return s.store.Search(ctx, term)
}

// AuditTrail returns a hallmark's audit entries, newest first.
func (s *Service) AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.auditor.List(ctx, id)
}
