package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/umalmyha/loyalty/internal/model"
)

var csvVisitColumns = []string{"reservation_id", "customer_id", "name", "email", "phone", "datetime", "party_size"}

// CsvIngestion is the outcome of a single CSV load. Customers are
// registered on first occurrence of their id, later rows only contribute
// visits
type CsvIngestion struct {
	Visits    []model.Visit
	Customers []model.Customer
	Skipped   int
}

// ReadVisitsCsv parses visit events from CSV with columns
// reservation_id, customer_id, name, email, phone, datetime, party_size.
// A missing column fails the whole load, but a malformed row (bad
// timestamp, non-positive party size) never aborts the batch - the row is
// skipped with a warning and parsing continues. Rows with duplicate or
// blank reservation ids are skipped silently
func ReadVisitsCsv(r io.Reader) (*CsvIngestion, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header - %w", err)
	}

	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range csvVisitColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", name)
		}
	}

	ingestion := &CsvIngestion{
		Visits:    make([]model.Visit, 0),
		Customers: make([]model.Customer, 0),
	}

	seenVisits := make(map[string]struct{})
	seenCustomers := make(map[string]struct{})

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Warnf("skipping unreadable csv line %d - %v", line, err)
			ingestion.Skipped++
			continue
		}

		field := func(name string) string {
			return strings.TrimSpace(record[cols[name]])
		}

		id := field("reservation_id")
		if id == "" {
			continue
		}
		if _, ok := seenVisits[id]; ok {
			continue
		}
		seenVisits[id] = struct{}{}

		visitedAt, err := model.ParseVisitTime(field("datetime"))
		if err != nil {
			logrus.Warnf("skipping csv line %d - %v", line, err)
			ingestion.Skipped++
			continue
		}

		partySize, err := strconv.Atoi(field("party_size"))
		if err != nil || partySize <= 0 {
			logrus.Warnf("skipping csv line %d - invalid party size %q", line, field("party_size"))
			ingestion.Skipped++
			continue
		}

		customerID := field("customer_id")
		if _, ok := seenCustomers[customerID]; !ok {
			seenCustomers[customerID] = struct{}{}
			ingestion.Customers = append(ingestion.Customers, model.Customer{
				ID:    customerID,
				Name:  field("name"),
				Email: field("email"),
				Phone: field("phone"),
			})
		}

		ingestion.Visits = append(ingestion.Visits, model.Visit{
			ID:         id,
			CustomerID: customerID,
			VisitedAt:  visitedAt,
			PartySize:  partySize,
		})
	}

	return ingestion, nil
}

// ReadVisitsCsvFile loads visit events from a CSV file on disk
func ReadVisitsCsvFile(path string) (*CsvIngestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open visits csv - %w", err)
	}
	defer f.Close()
	return ReadVisitsCsv(f)
}
