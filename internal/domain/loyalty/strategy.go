package loyalty

import (
	"context"
	"time"

	"github.com/umalmyha/loyalty/internal/model"
)

// VisitSource is the minimal capability the classifier needs from a visit
// data source. Any backing implementation (in-memory, postgres, mongo)
// satisfying this shape is substitutable
type VisitSource interface {
	CountVisits(ctx context.Context, customerID string, start, end time.Time, uniquePerDay bool) (int, error)
}

// ClassificationStrategy determines customer tier for a reference date
// based on his visit history
type ClassificationStrategy interface {
	Classify(ctx context.Context, c model.Customer, asOf time.Time, visits VisitSource, rules []Rule) (Tier, error)
}

// VisitsInWindowStrategy classifies a customer by amount of visits within
// a trailing window of WindowMonths months ending at the reference date.
// With UniquePerDay enabled several visits on the same calendar day count
// as one
type VisitsInWindowStrategy struct {
	WindowMonths int
	UniquePerDay bool
}

// NewVisitsInWindowStrategy creates windowed classification strategy
func NewVisitsInWindowStrategy(windowMonths int, uniquePerDay bool) *VisitsInWindowStrategy {
	return &VisitsInWindowStrategy{WindowMonths: windowMonths, UniquePerDay: uniquePerDay}
}

// Classify counts customer visits within [MonthsAgo(asOf, WindowMonths) at
// midnight, asOf at end of day] and returns resulting tier of the first
// rule (in stored order, descending by MinVisits) the count satisfies.
// Rules configured for a different window length are skipped, so rule sets
// mixing several window lengths do not cross-contaminate. When no rule
// applies the baseline tier is returned
func (s *VisitsInWindowStrategy) Classify(ctx context.Context, c model.Customer, asOf time.Time, visits VisitSource, rules []Rule) (Tier, error) {
	start := MonthsAgo(asOf, s.WindowMonths)
	end := EndOfDay(asOf)

	count, err := visits.CountVisits(ctx, c.ID, start, end, s.UniquePerDay)
	if err != nil {
		return Tier{}, err
	}

	for _, r := range rules {
		if r.WindowMonths != s.WindowMonths {
			continue
		}
		if r.Applies(count) {
			return r.ResultingTier, nil
		}
	}
	return Baseline(), nil
}
