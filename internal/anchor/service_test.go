package anchor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"orbit/internal/anchor"
	anchorstore "orbit/internal/anchor/store"
	"orbit/internal/audit"
	auditstore "orbit/internal/audit/store"
	"orbit/internal/hallmark"
	hallmarkstore "orbit/internal/hallmark/store"
	"orbit/internal/ledger"
	dErrors "orbit/pkg/domain-errors"
)

type AnchorServiceSuite struct {
	suite.Suite

	ctx       context.Context
	queue     *anchorstore.InMemory
	hallmarks *hallmarkstore.InMemory
	audits    *auditstore.InMemory
	auditor   *audit.Publisher
	client    *ledger.MockClient
	service   *anchor.Service
}

func TestAnchorServiceSuite(t *testing.T) {
	suite.Run(t, new(AnchorServiceSuite))
}

func (s *AnchorServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.ctx = context.Background()
	s.queue = anchorstore.NewInMemory()
	s.hallmarks = hallmarkstore.NewInMemory()
	s.audits = auditstore.NewInMemory()
	s.auditor = audit.NewPublisher(s.audits, nil, logger)
	s.client = ledger.NewMockClient()
	s.service = anchor.NewService(s.queue, s.hallmarks, s.client, nil, s.auditor, logger, nil)
}

func (s *AnchorServiceSuite) issueHallmark() *hallmark.Hallmark {
	now := time.Now().UTC()
	h := &hallmark.Hallmark{
		ID:             uuid.New(),
		HallmarkNumber: "ORBIT-20260901-ABC123",
		AssetType:      "contract",
		CreatedBy:      "system",
		RecipientName:  "Acme Co",
		RecipientRole:  hallmark.RoleClient,
		ContentHash:    "deadbeef",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Require().NoError(s.hallmarks.Create(s.ctx, h))
	return h
}

func (s *AnchorServiceSuite) TestDrainAnchorsQueuedEntry() {
	h := s.issueHallmark()
	entry, err := s.service.Enqueue(s.ctx, h.ID, h.ContentHash, h.AssetType)
	s.Require().NoError(err)
	s.Equal(anchor.StatusQueued, entry.Status)

	s.service.Drain(s.ctx, 10)

	updated, err := s.queue.FindByID(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.Equal(anchor.StatusAnchored, updated.Status)
	s.NotEmpty(updated.TxSignature)

	stamped, err := s.hallmarks.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(updated.TxSignature, stamped.BlockchainTxSignature)
	s.Contains(stamped.BlockchainExplorerURL, updated.TxSignature)

	trail, err := s.auditor.List(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(audit.ActionAnchored, trail[0].Action)
	s.Equal(updated.TxSignature, trail[0].Details["signature"])
}

func (s *AnchorServiceSuite) TestDrainDoesNotTouchIssuedRecordWhenUnconfigured() {
	s.client.Unconfigured = true

	h := s.issueHallmark()
	entry, err := s.service.Enqueue(s.ctx, h.ID, h.ContentHash, h.AssetType)
	s.Require().NoError(err)

	s.service.Drain(s.ctx, 10)

	// The entry stays queued and the hallmark is untouched.
	after, err := s.queue.FindByID(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.Equal(anchor.StatusQueued, after.Status)

	stamped, err := s.hallmarks.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Empty(stamped.BlockchainTxSignature)
	s.Equal(h.HallmarkNumber, stamped.HallmarkNumber)
	s.Equal(h.ContentHash, stamped.ContentHash)
	s.Equal(h.CreatedAt, stamped.CreatedAt)
}

func (s *AnchorServiceSuite) TestSubmitFailureMarksEntryFailed() {
	s.client.FailSubmit = errors.New("rpc unavailable")

	h := s.issueHallmark()
	entry, err := s.service.Enqueue(s.ctx, h.ID, h.ContentHash, h.AssetType)
	s.Require().NoError(err)

	s.service.Drain(s.ctx, 10)

	after, err := s.queue.FindByID(s.ctx, entry.ID)
	s.Require().NoError(err)
	s.Equal(anchor.StatusFailed, after.Status)
	s.Contains(after.LastError, "rpc unavailable")

	trail, err := s.auditor.List(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(audit.ActionAnchorFailed, trail[0].Action)
}

func (s *AnchorServiceSuite) TestAnchorIsIdempotentOnceAnchored() {
	h := s.issueHallmark()
	_, err := s.service.Enqueue(s.ctx, h.ID, h.ContentHash, h.AssetType)
	s.Require().NoError(err)

	s.service.Drain(s.ctx, 10)
	s.Equal(1, s.client.Submissions())

	entry, err := s.service.Anchor(s.ctx, h.ID, "npp")
	s.Require().NoError(err)
	s.Equal(anchor.StatusAnchored, entry.Status)
	s.Equal(1, s.client.Submissions())
}

func (s *AnchorServiceSuite) TestAnchorRetriesFailedEntryWithFreshOne() {
	s.client.FailSubmit = errors.New("rpc unavailable")

	h := s.issueHallmark()
	first, err := s.service.Enqueue(s.ctx, h.ID, h.ContentHash, h.AssetType)
	s.Require().NoError(err)
	s.service.Drain(s.ctx, 10)

	s.client.FailSubmit = nil
	retried, err := s.service.Anchor(s.ctx, h.ID, "npp")
	s.Require().NoError(err)
	s.NotEqual(first.ID, retried.ID)
	s.Equal(anchor.StatusAnchored, retried.Status)

	// The original failed entry is left as the historical record.
	original, err := s.queue.FindByID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(anchor.StatusFailed, original.Status)
}

func (s *AnchorServiceSuite) TestAnchorUnknownHallmark() {
	_, err := s.service.Anchor(s.ctx, uuid.New(), "npp")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *AnchorServiceSuite) TestAnchorUnconfiguredReportsToCaller() {
	s.client.Unconfigured = true

	h := s.issueHallmark()
	_, err := s.service.Enqueue(s.ctx, h.ID, h.ContentHash, h.AssetType)
	s.Require().NoError(err)

	_, err = s.service.Anchor(s.ctx, h.ID, "npp")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotConfigured))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to anchor.Status
		want     bool
	}{
		{anchor.StatusQueued, anchor.StatusBatched, true},
		{anchor.StatusQueued, anchor.StatusAnchored, true},
		{anchor.StatusBatched, anchor.StatusAnchored, true},
		{anchor.StatusQueued, anchor.StatusFailed, true},
		{anchor.StatusBatched, anchor.StatusFailed, true},
		{anchor.StatusBatched, anchor.StatusQueued, false},
		{anchor.StatusAnchored, anchor.StatusFailed, false},
		{anchor.StatusAnchored, anchor.StatusQueued, false},
		{anchor.StatusFailed, anchor.StatusQueued, false},
		{anchor.StatusFailed, anchor.StatusAnchored, false},
		{anchor.StatusQueued, anchor.StatusQueued, false},
	}
	for _, tt := range tests {
		got := anchor.CanTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
