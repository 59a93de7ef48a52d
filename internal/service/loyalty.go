package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/umalmyha/loyalty/internal/cache"
	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/model"
	"github.com/umalmyha/loyalty/internal/repository"
)

// TierGroup is a population slice holding one tier and every customer
// currently classified into it
type TierGroup struct {
	Tier      loyalty.Tier     `json:"tier"`
	Customers []model.Customer `json:"customers"`
}

// LoyaltyService classifies customers into loyalty tiers and owns the
// configuration surface for classification rules
type LoyaltyService interface {
	Customers(context.Context) ([]model.Customer, error)
	FindCustomer(context.Context, string) (*model.Customer, error)
	CustomerVisits(context.Context, string) ([]model.Visit, error)
	Classify(ctx context.Context, customerID string, asOf time.Time) (loyalty.Tier, error)
	ClassifyAll(ctx context.Context, asOf time.Time) (map[string]loyalty.Tier, error)
	GroupByTier(ctx context.Context, asOf time.Time) ([]TierGroup, error)
	Rules(context.Context) []loyalty.Rule
	ConfigureRules(context.Context, []loyalty.Rule) error
}

type loyaltyService struct {
	strategy     loyalty.ClassificationStrategy
	visitRepo    repository.VisitRepository
	customerRepo repository.CustomerRepository
	ruleSet      *loyalty.RuleSet
	tierCache    cache.TierCache
}

// NewLoyaltyService creates loyalty service on top of provided strategy,
// repositories, rule set and tier cache
func NewLoyaltyService(
	strategy loyalty.ClassificationStrategy,
	visitRepo repository.VisitRepository,
	customerRepo repository.CustomerRepository,
	ruleSet *loyalty.RuleSet,
	tierCache cache.TierCache,
) LoyaltyService {
	return &loyaltyService{
		strategy:     strategy,
		visitRepo:    visitRepo,
		customerRepo: customerRepo,
		ruleSet:      ruleSet,
		tierCache:    tierCache,
	}
}

func (s *loyaltyService) Customers(ctx context.Context) ([]model.Customer, error) {
	return s.customerRepo.FindAll(ctx)
}

// FindCustomer looks customer up by id. Repository lookup is
// case-sensitive, so on a miss the population is scanned with case folding
func (s *loyaltyService) FindCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if strings.EqualFold(customers[i].ID, id) {
			return &customers[i], nil
		}
	}
	return nil, nil
}

func (s *loyaltyService) CustomerVisits(ctx context.Context, id string) ([]model.Visit, error) {
	c, err := s.FindCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NewEntryNotFoundErr(fmt.Sprintf("customer %s is not found", id))
	}
	return s.visitRepo.FindByCustomer(ctx, c.ID)
}

func (s *loyaltyService) Classify(ctx context.Context, customerID string, asOf time.Time) (loyalty.Tier, error) {
	c, err := s.FindCustomer(ctx, customerID)
	if err != nil {
		return loyalty.Tier{}, err
	}
	if c == nil {
		return loyalty.Tier{}, errs.NewEntryNotFoundErr(fmt.Sprintf("customer %s is not found", customerID))
	}

	cached, err := s.tierCache.Find(ctx, c.ID, asOf)
	if err != nil {
		return loyalty.Tier{}, err
	}
	if cached != nil {
		return *cached, nil
	}

	tier, err := s.strategy.Classify(ctx, *c, asOf, s.visitRepo, s.ruleSet.Rules())
	if err != nil {
		return loyalty.Tier{}, err
	}

	if err := s.tierCache.Cache(ctx, c.ID, asOf, tier); err != nil {
		return loyalty.Tier{}, err
	}
	return tier, nil
}

func (s *loyaltyService) ClassifyAll(ctx context.Context, asOf time.Time) (map[string]loyalty.Tier, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rules := s.ruleSet.Rules()

	tiers := make(map[string]loyalty.Tier, len(customers))
	for _, c := range customers {
		tier, err := s.strategy.Classify(ctx, c, asOf, s.visitRepo, rules)
		if err != nil {
			return nil, err
		}
		tiers[c.ID] = tier
	}
	return tiers, nil
}

// GroupByTier classifies the whole population and groups customers by
// resulting tier. Groups are ordered by descending tier priority, customers
// within a group by case-folded name
func (s *loyaltyService) GroupByTier(ctx context.Context, asOf time.Time) ([]TierGroup, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rules := s.ruleSet.Rules()

	groups := make(map[loyalty.Tier][]model.Customer)
	for _, c := range customers {
		tier, err := s.strategy.Classify(ctx, c, asOf, s.visitRepo, rules)
		if err != nil {
			return nil, err
		}
		groups[tier] = append(groups[tier], c)
	}

	out := make([]TierGroup, 0, len(groups))
	for tier, members := range groups {
		sort.Slice(members, func(i, j int) bool {
			return strings.ToLower(members[i].Name) < strings.ToLower(members[j].Name)
		})
		out = append(out, TierGroup{Tier: tier, Customers: members})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier.Priority != out[j].Tier.Priority {
			return out[i].Tier.Priority > out[j].Tier.Priority
		}
		return out[i].Tier.Name < out[j].Tier.Name
	})
	return out, nil
}

func (s *loyaltyService) Rules(_ context.Context) []loyalty.Rule {
	return s.ruleSet.Rules()
}

// ConfigureRules replaces active rules and purges cached tiers, so the new
// rules take effect for the very next classification
func (s *loyaltyService) ConfigureRules(ctx context.Context, rules []loyalty.Rule) error {
	s.ruleSet.SetRules(rules)
	if err := s.tierCache.Purge(ctx); err != nil {
		return fmt.Errorf("rules are replaced but tier cache purge failed - %w", err)
	}
	return nil
}
