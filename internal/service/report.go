package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/model"
	"github.com/umalmyha/loyalty/internal/repository"
)

var rankingCsvHeader = []string{"customer_id", "name", "email", "phone", "visits_last_window"}

// RankedCustomer is a single leaderboard row - a customer together with
// his distinct attendance days within the ranked window
type RankedCustomer struct {
	Customer model.Customer `json:"customer"`
	Visits   int            `json:"visits"`
}

// ReportService produces visit breakdowns and ranked leaderboards over the
// whole customer population
type ReportService interface {
	VisitsByMonth(ctx context.Context, customerID string, months int, asOf time.Time) ([]model.MonthCount, error)
	RankingTopCustomers(ctx context.Context, months int, asOf time.Time) ([]RankedCustomer, error)
	WriteRankingCsv(w io.Writer, rows []RankedCustomer) error
}

type reportService struct {
	visitRepo    repository.VisitRepository
	customerRepo repository.CustomerRepository
}

// NewReportService creates report service over visit and customer sources
func NewReportService(visitRepo repository.VisitRepository, customerRepo repository.CustomerRepository) ReportService {
	return &reportService{visitRepo: visitRepo, customerRepo: customerRepo}
}

func (s *reportService) VisitsByMonth(ctx context.Context, customerID string, months int, asOf time.Time) ([]model.MonthCount, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NewEntryNotFoundErr(fmt.Sprintf("customer %s is not found", customerID))
	}
	return s.visitRepo.VisitsByMonth(ctx, c.ID, months, asOf)
}

// RankingTopCustomers builds a leaderboard of distinct attendance days
// within the trailing window of months months ending at asOf. Rankings
// always deduplicate per day - they measure attendance, not bookings.
// Rows are ordered by descending visit count, ties by ascending
// case-folded customer name; sorting is stable, so customers equal on both
// keys keep original collection order
func (s *reportService) RankingTopCustomers(ctx context.Context, months int, asOf time.Time) ([]RankedCustomer, error) {
	start := loyalty.MonthsAgo(asOf, months)
	end := loyalty.EndOfDay(asOf)

	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]RankedCustomer, 0, len(customers))
	for _, c := range customers {
		count, err := s.visitRepo.CountVisits(ctx, c.ID, start, end, true)
		if err != nil {
			return nil, err
		}
		rows = append(rows, RankedCustomer{Customer: c, Visits: count})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Visits != rows[j].Visits {
			return rows[i].Visits > rows[j].Visits
		}
		return strings.ToLower(rows[i].Customer.Name) < strings.ToLower(rows[j].Customer.Name)
	})
	return rows, nil
}

// WriteRankingCsv renders leaderboard rows as CSV, header row first
func (s *reportService) WriteRankingCsv(w io.Writer, rows []RankedCustomer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(rankingCsvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		c := row.Customer
		record := []string{c.ID, c.Name, c.Email, c.Phone, strconv.Itoa(row.Visits)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
