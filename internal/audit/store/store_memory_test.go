package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"orbit/internal/audit"
)

type AuditStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AuditStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) newEntry(hallmarkID uuid.UUID, action string, at time.Time) audit.Entry {
	return audit.Entry{
		ID:         uuid.New(),
		HallmarkID: hallmarkID,
		Action:     action,
		Actor:      "tester",
		CreatedAt:  at,
	}
}

func (s *AuditStoreSuite) TestAppendAndList() {
	hallmarkID := uuid.New()
	base := time.Now()

	s.Require().NoError(s.store.Append(s.ctx, s.newEntry(hallmarkID, audit.ActionCreated, base)))
	s.Require().NoError(s.store.Append(s.ctx, s.newEntry(hallmarkID, audit.ActionAnchored, base.Add(time.Second))))
	s.Require().NoError(s.store.Append(s.ctx, s.newEntry(hallmarkID, audit.ActionVerified, base.Add(2*time.Second))))

	entries, err := s.store.ListByHallmark(s.ctx, hallmarkID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)

	// Newest first.
	s.Equal(audit.ActionVerified, entries[0].Action)
	s.Equal(audit.ActionAnchored, entries[1].Action)
	s.Equal(audit.ActionCreated, entries[2].Action)
}

func (s *AuditStoreSuite) TestTrailsAreIsolatedPerHallmark() {
	first := uuid.New()
	second := uuid.New()

	s.Require().NoError(s.store.Append(s.ctx, s.newEntry(first, audit.ActionCreated, time.Now())))
	s.Require().NoError(s.store.Append(s.ctx, s.newEntry(second, audit.ActionCreated, time.Now())))

	entries, err := s.store.ListByHallmark(s.ctx, first)
	s.Require().NoError(err)
	s.Len(entries, 1)
	s.Equal(first, entries[0].HallmarkID)
}

func (s *AuditStoreSuite) TestEmptyTrail() {
	entries, err := s.store.ListByHallmark(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(entries)
}
