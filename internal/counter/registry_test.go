package counter_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"orbit/internal/counter"
	masterstore "orbit/internal/counter/store/master"
	ordinalstore "orbit/internal/counter/store/ordinal"
)

type OrdinalRegistrySuite struct {
	suite.Suite
	registry *counter.OrdinalRegistry
	ctx      context.Context
}

func (s *OrdinalRegistrySuite) SetupTest() {
	s.registry = counter.NewOrdinalRegistry(ordinalstore.NewInMemory(), nil)
	s.ctx = context.Background()
}

func TestOrdinalRegistrySuite(t *testing.T) {
	suite.Run(t, new(OrdinalRegistrySuite))
}

func (s *OrdinalRegistrySuite) TestSeedsAtTwo() {
	first, err := s.registry.NextOrdinal(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal(int64(2), first.Ordinal)
	s.Equal("ACME-000000000-02", first.HallmarkNumber)

	second, err := s.registry.NextOrdinal(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal(int64(3), second.Ordinal)
	s.Equal("ACME-000000000-03", second.HallmarkNumber)
}

func (s *OrdinalRegistrySuite) TestKnownTenantPrefixes() {
	result, err := s.registry.NextOrdinal(s.ctx, "npp")
	s.Require().NoError(err)
	s.Equal("NPP-000000000-02", result.HallmarkNumber)

	result, err = s.registry.NextOrdinal(s.ctx, "orbit")
	s.Require().NoError(err)
	s.Equal("ORBIT-000000000-02", result.HallmarkNumber)
}

func (s *OrdinalRegistrySuite) TestTenantsAreIndependent() {
	for i := 0; i < 5; i++ {
		_, err := s.registry.NextOrdinal(s.ctx, "acme")
		s.Require().NoError(err)
	}
	other, err := s.registry.NextOrdinal(s.ctx, "globex")
	s.Require().NoError(err)
	s.Equal(int64(2), other.Ordinal)
}

// Concurrent claims on a fresh counter must return exactly {2..N+1}.
func (s *OrdinalRegistrySuite) TestConcurrentClaimsHaveNoGapsOrRepeats() {
	const n = 64

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.registry.NextOrdinal(s.ctx, "acme")
			s.NoError(err)
			results <- result.Ordinal
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

func (s *OrdinalRegistrySuite) TestGetCounterInitializesLazily() {
	c, err := s.registry.GetCounter(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal("acme", c.TenantID)
	s.Equal("ACME", c.Prefix)
	s.Equal(int64(counter.OrdinalSeed), c.NextOrdinal)

	// Reading the counter does not consume an ordinal.
	first, err := s.registry.NextOrdinal(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal(int64(2), first.Ordinal)
}

type MasterRegistrySuite struct {
	suite.Suite
	registry *counter.MasterRegistry
	ctx      context.Context
}

func (s *MasterRegistrySuite) SetupTest() {
	s.registry = counter.NewMasterRegistry(masterstore.NewInMemory())
	s.ctx = context.Background()
}

func TestMasterRegistrySuite(t *testing.T) {
	suite.Run(t, new(MasterRegistrySuite))
}

func (s *MasterRegistrySuite) TestSeedsAboveReservedRange() {
	first, err := s.registry.NextMasterNumber(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3001), first)

	second, err := s.registry.NextMasterNumber(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3002), second)
}

func (s *MasterRegistrySuite) TestConcurrentClaimsAreUnique() {
	const n = 64

	var wg sync.WaitGroup
	results := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := s.registry.NextMasterNumber(s.ctx)
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
		s.Less(number, int64(3001+n))
	}
	s.Len(seen, n)
}
