package repository

import (
	"context"
	"sync"
	"time"

	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	"github.com/umalmyha/loyalty/internal/model"
)

// VisitRepository answers windowed visit-count queries over a visit event
// source. Counting requires no persistent indexing - implementations are
// free to scan the full event collection at query time
type VisitRepository interface {
	GetAll(context.Context) ([]model.Visit, error)
	FindByCustomer(context.Context, string) ([]model.Visit, error)
	CountVisits(ctx context.Context, customerID string, start, end time.Time, uniquePerDay bool) (int, error)
	VisitsByMonth(ctx context.Context, customerID string, months int, asOf time.Time) ([]model.MonthCount, error)
}

// VisitStore is a visit repository whose whole event collection can be
// swapped at ingestion time. Only the in-memory implementation supports it,
// database-backed repositories are read-only sources
type VisitStore interface {
	VisitRepository
	Replace(context.Context, []model.Visit) error
}

type inMemoryVisitRepository struct {
	mu     sync.RWMutex
	visits []model.Visit
}

// NewInMemoryVisitRepository creates visit store over an in-memory event
// slice, e.g. loaded from a CSV file
func NewInMemoryVisitRepository(visits []model.Visit) VisitStore {
	return &inMemoryVisitRepository{visits: visits}
}

func (repo *inMemoryVisitRepository) GetAll(_ context.Context) ([]model.Visit, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	visits := make([]model.Visit, len(repo.visits))
	copy(visits, repo.visits)
	return visits, nil
}

func (repo *inMemoryVisitRepository) FindByCustomer(_ context.Context, customerID string) ([]model.Visit, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	visits := make([]model.Visit, 0)
	for _, v := range repo.visits {
		if v.CustomerID == customerID {
			visits = append(visits, v)
		}
	}
	return visits, nil
}

func (repo *inMemoryVisitRepository) CountVisits(_ context.Context, customerID string, start, end time.Time, uniquePerDay bool) (int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return countVisits(repo.visits, customerID, start, end, uniquePerDay), nil
}

func (repo *inMemoryVisitRepository) VisitsByMonth(_ context.Context, customerID string, months int, asOf time.Time) ([]model.MonthCount, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return visitsByMonth(repo.visits, customerID, months, asOf), nil
}

func (repo *inMemoryVisitRepository) Replace(_ context.Context, visits []model.Visit) error {
	repo.mu.Lock()
	repo.visits = visits
	repo.mu.Unlock()
	return nil
}

// countVisits counts customer visits within inclusive [start, end] range.
// With uniquePerDay several visits on the same calendar day count as one
func countVisits(visits []model.Visit, customerID string, start, end time.Time, uniquePerDay bool) int {
	if !uniquePerDay {
		n := 0
		for _, v := range visits {
			if matches(v, customerID, start, end) {
				n++
			}
		}
		return n
	}

	days := make(map[string]struct{})
	for _, v := range visits {
		if matches(v, customerID, start, end) {
			days[v.VisitedAt.Format("2006-01-02")] = struct{}{}
		}
	}
	return len(days)
}

// visitsByMonth buckets raw visit occurrences by calendar month over a
// window starting at the first day of the month months-1 months before
// asOf and ending at asOf's end of day. Exactly months entries are
// produced in ascending order, months without visits are zero-filled.
// Unlike countVisits the per-month counting is never deduplicated - the
// monthly breakdown reports volume, not distinct attendance days
func visitsByMonth(visits []model.Visit, customerID string, months int, asOf time.Time) []model.MonthCount {
	firstOfMonth := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	start := loyalty.MonthsAgo(firstOfMonth, months-1)
	end := loyalty.EndOfDay(asOf)

	counts := make(map[[2]int]int)
	for _, v := range visits {
		if matches(v, customerID, start, end) {
			counts[[2]int{v.VisitedAt.Year(), int(v.VisitedAt.Month())}]++
		}
	}

	out := make([]model.MonthCount, 0, months)
	y, m := start.Year(), start.Month()
	for i := 0; i < months; i++ {
		out = append(out, model.MonthCount{Year: y, Month: m, Count: counts[[2]int{y, int(m)}]})
		y, m = loyalty.NextMonth(y, m)
	}
	return out
}

func matches(v model.Visit, customerID string, start, end time.Time) bool {
	return v.CustomerID == customerID && !v.VisitedAt.Before(start) && !v.VisitedAt.After(end)
}
