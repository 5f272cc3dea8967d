//go:build integration

package ordinal_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"orbit/internal/counter"
	masterstore "orbit/internal/counter/store/master"
	ordinalstore "orbit/internal/counter/store/ordinal"
	"orbit/pkg/testutil/containers"
)

type PostgresCounterSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	ordinals *ordinalstore.PostgresStore
	masters  *masterstore.PostgresStore
}

func TestPostgresCounterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCounterSuite))
}

func (s *PostgresCounterSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.ordinals = ordinalstore.NewPostgres(s.postgres.DB)
	s.masters = masterstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresCounterSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "tenant_counters", "master_counter")
	s.Require().NoError(err)
}

func (s *PostgresCounterSuite) TestClaimSeedsAndIncrements() {
	ctx := context.Background()

	first, err := s.ordinals.Claim(ctx, "acme", "ACME", counter.OrdinalSeed)
	s.Require().NoError(err)
	s.Equal(int64(2), first)

	second, err := s.ordinals.Claim(ctx, "acme", "ACME", counter.OrdinalSeed)
	s.Require().NoError(err)
	s.Equal(int64(3), second)
}

// The upsert-returning claim must be linearizable: concurrent claims on a
// fresh counter return exactly {2..N+1}.
func (s *PostgresCounterSuite) TestConcurrentClaimsHaveNoGapsOrRepeats() {
	const n = 32
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ordinal, err := s.ordinals.Claim(ctx, "acme", "ACME", counter.OrdinalSeed)
			s.NoError(err)
			results <- ordinal
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for ordinal := range results {
		s.False(seen[ordinal], "ordinal %d issued twice", ordinal)
		seen[ordinal] = true
	}
	for want := int64(2); want <= n+1; want++ {
		s.True(seen[want], "ordinal %d missing", want)
	}
}

func (s *PostgresCounterSuite) TestGetOrCreateDoesNotConsume() {
	ctx := context.Background()

	c, err := s.ordinals.GetOrCreate(ctx, "acme", "ACME", counter.OrdinalSeed)
	s.Require().NoError(err)
	s.Equal(int64(2), c.NextOrdinal)

	first, err := s.ordinals.Claim(ctx, "acme", "ACME", counter.OrdinalSeed)
	s.Require().NoError(err)
	s.Equal(int64(2), first)
}

func (s *PostgresCounterSuite) TestMasterCounterConcurrentClaims() {
	const n = 32
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := s.masters.Claim(ctx, counter.MasterSeed)
			s.NoError(err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for number := range results {
		s.False(seen[number], "master number %d issued twice", number)
		seen[number] = true
		s.GreaterOrEqual(number, int64(3001))
	}
	s.Len(seen, n)
}
