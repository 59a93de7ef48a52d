package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	"github.com/umalmyha/loyalty/internal/model"
)

type postgresVisitRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresVisitRepository creates visit repository backed by a visits
// table. Counting is pushed down to SQL
func NewPostgresVisitRepository(p *pgxpool.Pool) VisitRepository {
	return &postgresVisitRepository{pool: p}
}

func (repo *postgresVisitRepository) GetAll(ctx context.Context) ([]model.Visit, error) {
	q := "SELECT id, customer_id, visited_at, party_size FROM visits"
	rows, err := repo.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := make([]model.Visit, 0)
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.VisitedAt, &v.PartySize); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return visits, nil
}

func (repo *postgresVisitRepository) FindByCustomer(ctx context.Context, customerID string) ([]model.Visit, error) {
	q := "SELECT id, customer_id, visited_at, party_size FROM visits WHERE customer_id = $1 ORDER BY visited_at"
	rows, err := repo.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := make([]model.Visit, 0)
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.VisitedAt, &v.PartySize); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return visits, nil
}

func (repo *postgresVisitRepository) CountVisits(ctx context.Context, customerID string, start, end time.Time, uniquePerDay bool) (int, error) {
	q := "SELECT COUNT(*) FROM visits WHERE customer_id = $1 AND visited_at BETWEEN $2 AND $3"
	if uniquePerDay {
		q = "SELECT COUNT(DISTINCT visited_at::date) FROM visits WHERE customer_id = $1 AND visited_at BETWEEN $2 AND $3"
	}

	var count int
	if err := repo.pool.QueryRow(ctx, q, customerID, start, end).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *postgresVisitRepository) VisitsByMonth(ctx context.Context, customerID string, months int, asOf time.Time) ([]model.MonthCount, error) {
	firstOfMonth := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	start := loyalty.MonthsAgo(firstOfMonth, months-1)
	end := loyalty.EndOfDay(asOf)

	q := `SELECT EXTRACT(YEAR FROM visited_at)::int, EXTRACT(MONTH FROM visited_at)::int, COUNT(*)
            FROM visits
           WHERE customer_id = $1 AND visited_at BETWEEN $2 AND $3
           GROUP BY 1, 2`
	rows, err := repo.pool.Query(ctx, q, customerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[[2]int]int)
	for rows.Next() {
		var y, m, count int
		if err := rows.Scan(&y, &m, &count); err != nil {
			return nil, err
		}
		counts[[2]int{y, m}] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// zero-fill so every month of the window is present
	out := make([]model.MonthCount, 0, months)
	y, m := start.Year(), start.Month()
	for i := 0; i < months; i++ {
		out = append(out, model.MonthCount{Year: y, Month: m, Count: counts[[2]int{y, int(m)}]})
		y, m = loyalty.NextMonth(y, m)
	}
	return out, nil
}
