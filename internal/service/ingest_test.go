package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/model"
	"github.com/umalmyha/loyalty/internal/repository"
)

func TestImportCsvReplacesPopulationAndPurgesTiers(t *testing.T) {
	visitStore := repository.NewInMemoryVisitRepository([]model.Visit{
		{ID: "OLD", CustomerID: "C900", PartySize: 2},
	})
	customerStore := repository.NewInMemoryCustomerRepository([]model.Customer{
		{ID: "C900", Name: "Old"},
	})
	tierCache := newCountingTierCache()

	svc := NewIngestService(visitStore, customerStore, tierCache)

	data := "reservation_id,customer_id,name,email,phone,datetime,party_size\n" +
		"R01,C001,Ana,ana@example.com,999,2025-04-10T18:30,2\n" +
		"R02,C001,Ana,ana@example.com,999,bad-date,2\n"

	ctx := context.Background()
	summary, err := svc.ImportCsv(ctx, strings.NewReader(data))
	require.NoError(t, err)

	assert.NotEmpty(t, summary.Batch, "batch id must identify the import in logs and response")
	assert.Equal(t, 1, summary.Visits)
	assert.Equal(t, 1, summary.Customers)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, tierCache.purges, "import must invalidate cached tiers")

	visits, err := visitStore.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "R01", visits[0].ID)

	c, err := customerStore.FindByID(ctx, "C900")
	require.NoError(t, err)
	assert.Nil(t, c, "previous population must be gone")
}

func TestImportCsvBadHeaderLeavesPopulationIntact(t *testing.T) {
	visitStore := repository.NewInMemoryVisitRepository([]model.Visit{
		{ID: "OLD", CustomerID: "C900", PartySize: 2},
	})
	customerStore := repository.NewInMemoryCustomerRepository(nil)

	svc := NewIngestService(visitStore, customerStore, newCountingTierCache())

	_, err := svc.ImportCsv(context.Background(), strings.NewReader("id,whatever\n1,2\n"))
	require.Error(t, err)

	var businessErr *errs.BusinessErr
	assert.True(t, errors.As(err, &businessErr), "rejected batch must surface as business error")

	visits, err := visitStore.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}
