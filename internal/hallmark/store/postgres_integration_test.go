//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"orbit/internal/hallmark"
	hallmarkstore "orbit/internal/hallmark/store"
	"orbit/pkg/platform/sentinel"
	"orbit/pkg/testutil/containers"
)

type PostgresHallmarkSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *hallmarkstore.PostgresStore
}

func TestPostgresHallmarkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresHallmarkSuite))
}

func (s *PostgresHallmarkSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = hallmarkstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresHallmarkSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "hallmarks")
	s.Require().NoError(err)
}

func (s *PostgresHallmarkSuite) newHallmark(number string) *hallmark.Hallmark {
	now := time.Now().UTC().Truncate(time.Microsecond)
	h := &hallmark.Hallmark{
		ID:             uuid.New(),
		HallmarkNumber: number,
		AssetType:      "contract",
		CreatedBy:      "system",
		RecipientName:  "Acme Painting",
		RecipientRole:  hallmark.RoleClient,
		ContentHash:    hallmark.ContentHash(number),
		Metadata:       map[string]any{"version": "1.0.1"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	h.SearchTerms = hallmark.BuildSearchTerms(h)
	return h
}

func (s *PostgresHallmarkSuite) TestCreateAndFind() {
	ctx := context.Background()
	h := s.newHallmark("ORBIT-20260901-AAAAAA")
	s.Require().NoError(s.store.Create(ctx, h))

	found, err := s.store.FindByNumber(ctx, h.HallmarkNumber)
	s.Require().NoError(err)
	s.Equal(h.ID, found.ID)
	s.Equal(h.ContentHash, found.ContentHash)
	s.Equal("1.0.1", found.Metadata["version"])

	byID, err := s.store.FindByID(ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(h.HallmarkNumber, byID.HallmarkNumber)
}

func (s *PostgresHallmarkSuite) TestUniqueNumberConstraint() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newHallmark("ORBIT-20260901-AAAAAA")))

	err := s.store.Create(ctx, s.newHallmark("ORBIT-20260901-AAAAAA"))
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresHallmarkSuite) TestSearchAndListByType() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newHallmark("ORBIT-20260901-AAAAAA")))

	other := s.newHallmark("ORBIT-20260901-BBBBBB")
	other.AssetType = "invoice"
	other.RecipientName = "Umbrella Corp"
	other.SearchTerms = hallmark.BuildSearchTerms(other)
	s.Require().NoError(s.store.Create(ctx, other))

	matches, err := s.store.Search(ctx, "umbrella")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(other.ID, matches[0].ID)

	invoices, err := s.store.ListByType(ctx, "invoice")
	s.Require().NoError(err)
	s.Require().Len(invoices, 1)
	s.Equal(other.ID, invoices[0].ID)
}

func (s *PostgresHallmarkSuite) TestUpdateBlockchainAndMarkVerified() {
	ctx := context.Background()
	h := s.newHallmark("ORBIT-20260901-AAAAAA")
	s.Require().NoError(s.store.Create(ctx, h))

	updated, err := s.store.UpdateBlockchain(ctx, h.ID, "sig123", "https://explorer.solana.com/tx/sig123")
	s.Require().NoError(err)
	s.Equal("sig123", updated.BlockchainTxSignature)

	first := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.MarkVerified(ctx, h.ID, first))
	s.Require().NoError(s.store.MarkVerified(ctx, h.ID, first.Add(time.Hour)))

	stored, err := s.store.FindByID(ctx, h.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.VerifiedAt)
	s.True(stored.VerifiedAt.Equal(first))
}

func (s *PostgresHallmarkSuite) TestFindMissing() {
	ctx := context.Background()

	_, err := s.store.FindByNumber(ctx, "ORBIT-20260901-FFFFFF")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
