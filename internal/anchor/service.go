// Package anchor drives best-effort ledger anchoring of hallmarks. Issuance
// queues an entry here and returns immediately; the actual submission runs
// afterwards and records its outcome on both the queue entry and the
// hallmark's audit trail. No anchoring failure ever propagates to the
// operation that requested it.
package anchor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	ledgercache "orbit/internal/ledger/cache"

	"orbit/internal/audit"
	"orbit/internal/hallmark"
	"orbit/internal/ledger"
	dErrors "orbit/pkg/domain-errors"
	"orbit/pkg/requestcontext"
)

// Store persists queue entries; defined here so the service does not import
// its own store package.
type Store interface {
	Create(ctx context.Context, entry *QueueEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*QueueEntry, error)
	FindByHallmark(ctx context.Context, hallmarkID uuid.UUID) (*QueueEntry, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]*QueueEntry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, txSignature, lastError string) (*QueueEntry, error)
}

// HallmarkWriter is the slice of the hallmark store the anchor service
// needs: stamping ledger details onto an issued record.
type HallmarkWriter interface {
	UpdateBlockchain(ctx context.Context, id uuid.UUID, signature, explorerURL string) (*hallmark.Hallmark, error)
}

// Metrics records anchoring outcomes.
type Metrics interface {
	RecordSubmission(outcome string, seconds float64)
	SetQueueDepth(n int)
}

// Service owns the anchor queue and the ledger client.
type Service struct {
	store     Store
	hallmarks HallmarkWriter
	client    ledger.Client
	verifier  *ledgercache.CachedVerifier
	auditor   *audit.Publisher
	logger    *slog.Logger
	metrics   Metrics
}

func NewService(store Store, hallmarks HallmarkWriter, client ledger.Client, verifier *ledgercache.CachedVerifier, auditor *audit.Publisher, logger *slog.Logger, metrics Metrics) *Service {
	return &Service{
		store:     store,
		hallmarks: hallmarks,
		client:    client,
		verifier:  verifier,
		auditor:   auditor,
		logger:    logger,
		metrics:   metrics,
	}
}

// Configured reports whether the ledger client holds a wallet credential.
func (s *Service) Configured() bool {
	return s.client != nil && s.client.Configured()
}

// Network names the target ledger cluster.
func (s *Service) Network() string {
	if s.client == nil {
		return ""
	}
	return s.client.Network()
}

// Enqueue records an anchoring request for a hallmark. It never submits to
// the ledger itself.
func (s *Service) Enqueue(ctx context.Context, hallmarkID uuid.UUID, contentHash, assetType string) (*QueueEntry, error) {
	now := requestcontext.Now(ctx)
	entry := &QueueEntry{
		ID:          uuid.New(),
		HallmarkID:  hallmarkID,
		ContentHash: contentHash,
		AssetType:   assetType,
		Status:      StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "enqueueing anchor request")
	}
	return entry, nil
}

// Status returns the queue entry for a hallmark, if any.
func (s *Service) Status(ctx context.Context, hallmarkID uuid.UUID) (*QueueEntry, error) {
	return s.store.FindByHallmark(ctx, hallmarkID)
}

// Drain processes queued entries oldest-first. Each entry is submitted
// independently; one failure never stops the rest.
func (s *Service) Drain(ctx context.Context, limit int) {
	entries, err := s.store.ListByStatus(ctx, StatusQueued, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "listing anchor queue failed", "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.SetQueueDepth(len(entries))
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		s.process(ctx, entry)
	}
}

// Anchor submits one queue entry identified by hallmark. Used by the manual
// re-anchor endpoint; unlike Drain it reports the failure to the caller.
func (s *Service) Anchor(ctx context.Context, hallmarkID uuid.UUID, tenantPrefix string) (*QueueEntry, error) {
	entry, err := s.store.FindByHallmark(ctx, hallmarkID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "no anchor request for hallmark")
	}
	if entry.Status == StatusAnchored {
		return entry, nil
	}
	if entry.Status == StatusFailed {
		// Failed entries are terminal; a manual retry gets a fresh one.
		entry, err = s.Enqueue(ctx, entry.HallmarkID, entry.ContentHash, entry.AssetType)
		if err != nil {
			return nil, err
		}
	}
	entry.tenantPrefix = tenantPrefix
	return s.process(ctx, entry)
}

func (s *Service) process(ctx context.Context, entry *QueueEntry) (*QueueEntry, error) {
	if !s.Configured() {
		s.recordSubmission("skipped", 0)
		return nil, dErrors.New(dErrors.CodeNotConfigured, "ledger wallet not configured")
	}

	start := time.Now()
	receipt, err := s.client.Submit(ctx, entry.ContentHash, ledger.EntityRef{
		EntityType: entry.AssetType,
		EntityID:   entry.HallmarkID.String(),
	}, entry.tenantPrefix)
	elapsed := time.Since(start).Seconds()

	actor := requestcontext.Actor(ctx)

	if err != nil {
		s.recordSubmission("failed", elapsed)
		s.logger.WarnContext(ctx, "ledger anchor failed",
			"hallmark_id", entry.HallmarkID,
			"error", err,
		)
		if _, updateErr := s.store.UpdateStatus(ctx, entry.ID, StatusFailed, "", err.Error()); updateErr != nil {
			s.logger.ErrorContext(ctx, "recording anchor failure failed", "entry_id", entry.ID, "error", updateErr)
		}
		if _, auditErr := s.auditor.Append(ctx, entry.HallmarkID, audit.ActionAnchorFailed, actor, map[string]any{
			"error": err.Error(),
		}); auditErr != nil {
			s.logger.ErrorContext(ctx, "recording anchor_failed audit failed", "hallmark_id", entry.HallmarkID, "error", auditErr)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger submission failed")
	}

	explorerURL := ledger.ExplorerURL(s.client.Network(), receipt.Signature)
	if _, err := s.hallmarks.UpdateBlockchain(ctx, entry.HallmarkID, receipt.Signature, explorerURL); err != nil {
		s.logger.ErrorContext(ctx, "stamping ledger details on hallmark failed",
			"hallmark_id", entry.HallmarkID,
			"signature", receipt.Signature,
			"error", err,
		)
	}

	updated, err := s.store.UpdateStatus(ctx, entry.ID, StatusAnchored, receipt.Signature, "")
	if err != nil {
		s.logger.ErrorContext(ctx, "recording anchor success failed", "entry_id", entry.ID, "error", err)
		updated = entry
		updated.Status = StatusAnchored
		updated.TxSignature = receipt.Signature
	}

	s.recordSubmission("anchored", elapsed)
	if _, auditErr := s.auditor.Append(ctx, entry.HallmarkID, audit.ActionAnchored, actor, map[string]any{
		"signature":   receipt.Signature,
		"explorerUrl": explorerURL,
		"slot":        receipt.Slot,
	}); auditErr != nil {
		s.logger.ErrorContext(ctx, "recording anchored audit failed", "hallmark_id", entry.HallmarkID, "error", auditErr)
	}
	return updated, nil
}

func (s *Service) recordSubmission(outcome string, seconds float64) {
	if s.metrics != nil {
		s.metrics.RecordSubmission(outcome, seconds)
	}
}

// Verify resolves a signature's on-ledger status through the cache.
func (s *Service) Verify(ctx context.Context, signature string) (ledger.VerifyResult, error) {
	if s.verifier != nil {
		return s.verifier.Verify(ctx, signature)
	}
	if s.client == nil {
		return ledger.VerifyResult{}, dErrors.New(dErrors.CodeNotConfigured, "ledger client not configured")
	}
	return s.client.Verify(ctx, signature)
}

// RunWorker drains the queue on an interval until the context is cancelled.
func (s *Service) RunWorker(ctx context.Context, interval time.Duration, batch int) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Drain(ctx, batch)
		}
	}
}
