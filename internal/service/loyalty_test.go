package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/model"
	"github.com/umalmyha/loyalty/internal/repository"
)

// countingTierCache remembers cached tiers in memory and counts purges
type countingTierCache struct {
	tiers  map[string]loyalty.Tier
	purges int
}

func newCountingTierCache() *countingTierCache {
	return &countingTierCache{tiers: make(map[string]loyalty.Tier)}
}

func (c *countingTierCache) Find(_ context.Context, customerID string, asOf time.Time) (*loyalty.Tier, error) {
	if tier, ok := c.tiers[customerID+asOf.Format("2006-01-02")]; ok {
		return &tier, nil
	}
	return nil, nil
}

func (c *countingTierCache) Cache(_ context.Context, customerID string, asOf time.Time, tier loyalty.Tier) error {
	c.tiers[customerID+asOf.Format("2006-01-02")] = tier
	return nil
}

func (c *countingTierCache) Purge(context.Context) error {
	c.tiers = make(map[string]loyalty.Tier)
	c.purges++
	return nil
}

type loyaltyServiceTestSuite struct {
	suite.Suite
	loyaltySvc LoyaltyService
	ruleSet    *loyalty.RuleSet
	tierCache  *countingTierCache
	asOf       time.Time
}

func (s *loyaltyServiceTestSuite) SetupTest() {
	s.asOf = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 19, 0, 0, 0, time.UTC)
	}

	customers := []model.Customer{
		{ID: "C001", Name: "Ana López", Email: "ana@example.com", Phone: "999123456"},
		{ID: "C002", Name: "Bruno Díaz", Email: "bruno@example.com", Phone: "988111222"},
		{ID: "C003", Name: "Carla Peña", Email: "carla@example.com", Phone: "977000111"},
	}

	visits := []model.Visit{
		// Ana - four distinct days in the window
		{ID: "R01", CustomerID: "C001", VisitedAt: day(1), PartySize: 2},
		{ID: "R02", CustomerID: "C001", VisitedAt: day(3), PartySize: 2},
		{ID: "R03", CustomerID: "C001", VisitedAt: day(7), PartySize: 2},
		{ID: "R04", CustomerID: "C001", VisitedAt: day(10), PartySize: 2},
		// Bruno - three distinct days, one day double-booked
		{ID: "R05", CustomerID: "C002", VisitedAt: day(2), PartySize: 2},
		{ID: "R06", CustomerID: "C002", VisitedAt: time.Date(2025, time.June, 2, 21, 30, 0, 0, time.UTC), PartySize: 4},
		{ID: "R07", CustomerID: "C002", VisitedAt: day(5), PartySize: 2},
		{ID: "R08", CustomerID: "C002", VisitedAt: day(9), PartySize: 2},
		// Carla - single visit far before the window
		{ID: "R09", CustomerID: "C003", VisitedAt: time.Date(2024, time.June, 2, 19, 0, 0, 0, time.UTC), PartySize: 2},
	}

	s.ruleSet = loyalty.NewRuleSet(loyalty.DefaultRules()...)
	s.tierCache = newCountingTierCache()

	s.loyaltySvc = NewLoyaltyService(
		loyalty.NewVisitsInWindowStrategy(3, true),
		repository.NewInMemoryVisitRepository(visits),
		repository.NewInMemoryCustomerRepository(customers),
		s.ruleSet,
		s.tierCache,
	)
}

func (s *loyaltyServiceTestSuite) TestClassifyThresholds() {
	ctx := context.Background()

	s.T().Log("four distinct days reach the strictest rule")
	{
		tier, err := s.loyaltySvc.Classify(ctx, "C001", s.asOf)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal("Super VIP", tier.Name)
	}

	s.T().Log("double booking on one day must not inflate the count")
	{
		tier, err := s.loyaltySvc.Classify(ctx, "C002", s.asOf)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal("VIP", tier.Name)
	}

	s.T().Log("customer without visits in the window falls back to baseline")
	{
		tier, err := s.loyaltySvc.Classify(ctx, "C003", s.asOf)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Equal(loyalty.Baseline(), tier)
	}
}

func (s *loyaltyServiceTestSuite) TestClassifyUnknownCustomer() {
	_, err := s.loyaltySvc.Classify(context.Background(), "C999", s.asOf)
	s.Assert().Error(err, "absence must surface as not found error")

	var notFoundErr *errs.EntryNotFoundErr
	s.Assert().ErrorAs(err, &notFoundErr)
}

func (s *loyaltyServiceTestSuite) TestClassifyCachesComputedTier() {
	ctx := context.Background()

	_, err := s.loyaltySvc.Classify(ctx, "C001", s.asOf)
	s.Require().NoError(err)

	cached, err := s.tierCache.Find(ctx, "C001", s.asOf)
	s.Require().NoError(err)
	s.Require().NotNil(cached, "computed tier must land in cache")
	s.Assert().Equal("Super VIP", cached.Name)
}

func (s *loyaltyServiceTestSuite) TestFindCustomerCaseInsensitive() {
	c, err := s.loyaltySvc.FindCustomer(context.Background(), "c001")
	s.Assert().NoError(err, "no error must be raised")
	s.Require().NotNil(c, "lookup must fold case")
	s.Assert().Equal("C001", c.ID)
}

func (s *loyaltyServiceTestSuite) TestClassifyAll() {
	tiers, err := s.loyaltySvc.ClassifyAll(context.Background(), s.asOf)
	s.Assert().NoError(err, "no error must be raised")

	s.Require().Len(tiers, 3)
	s.Assert().Equal("Super VIP", tiers["C001"].Name)
	s.Assert().Equal("VIP", tiers["C002"].Name)
	s.Assert().Equal("Regular", tiers["C003"].Name)
}

func (s *loyaltyServiceTestSuite) TestGroupByTier() {
	groups, err := s.loyaltySvc.GroupByTier(context.Background(), s.asOf)
	s.Assert().NoError(err, "no error must be raised")

	s.Require().Len(groups, 3)
	s.Assert().Equal("Super VIP", groups[0].Tier.Name, "groups must be ordered by descending priority")
	s.Assert().Equal("VIP", groups[1].Tier.Name)
	s.Assert().Equal("Regular", groups[2].Tier.Name)
	s.Require().Len(groups[0].Customers, 1)
	s.Assert().Equal("C001", groups[0].Customers[0].ID)
}

func (s *loyaltyServiceTestSuite) TestConfigureRulesTakesEffectImmediately() {
	ctx := context.Background()

	tier, err := s.loyaltySvc.Classify(ctx, "C002", s.asOf)
	s.Require().NoError(err)
	s.Require().Equal("VIP", tier.Name)

	s.T().Log("replace rules so three visits already make Super VIP")
	{
		err := s.loyaltySvc.ConfigureRules(ctx, []loyalty.Rule{
			{MinVisits: 3, WindowMonths: 3, ResultingTier: loyalty.Tier{Name: "Super VIP", Priority: 2}},
		})
		s.Require().NoError(err)
		s.Assert().Equal(1, s.tierCache.purges, "stale cached tiers must be purged")
	}

	tier, err = s.loyaltySvc.Classify(ctx, "C002", s.asOf)
	s.Assert().NoError(err, "no error must be raised")
	s.Assert().Equal("Super VIP", tier.Name)
}

func (s *loyaltyServiceTestSuite) TestEmptyRulesYieldBaselineForEveryone() {
	ctx := context.Background()
	s.Require().NoError(s.loyaltySvc.ConfigureRules(ctx, nil))

	tiers, err := s.loyaltySvc.ClassifyAll(ctx, s.asOf)
	s.Assert().NoError(err, "no error must be raised")
	for id, tier := range tiers {
		s.Assert().Equal(loyalty.Baseline(), tier, "customer %s must be baseline", id)
	}
}

// start loyalty service test suite
func TestLoyaltyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(loyaltyServiceTestSuite))
}
