package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/umalmyha/loyalty/internal/cache"
	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/repository"
)

// ImportSummary is the consumer-facing outcome of a processed batch. Batch
// correlates the response with the ingestion log records
type ImportSummary struct {
	Batch     string `json:"batch"`
	Visits    int    `json:"visits"`
	Customers int    `json:"customers"`
	Skipped   int    `json:"skipped"`
}

// IngestService swaps the in-memory visit and customer population from an
// uploaded CSV batch
type IngestService interface {
	ImportCsv(context.Context, io.Reader) (*ImportSummary, error)
}

type ingestService struct {
	visitStore    repository.VisitStore
	customerStore repository.CustomerStore
	tierCache     cache.TierCache
}

// NewIngestService creates ingest service over replaceable stores
func NewIngestService(visitStore repository.VisitStore, customerStore repository.CustomerStore, tierCache cache.TierCache) IngestService {
	return &ingestService{visitStore: visitStore, customerStore: customerStore, tierCache: tierCache}
}

// ImportCsv parses the batch and replaces both stores. Cached tiers are
// purged because they were computed over the previous population
func (s *ingestService) ImportCsv(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	ingestion, err := repository.ReadVisitsCsv(r)
	if err != nil {
		return nil, errs.NewBusinessErr("csv", err.Error())
	}

	if err := s.visitStore.Replace(ctx, ingestion.Visits); err != nil {
		return nil, err
	}
	if err := s.customerStore.Replace(ctx, ingestion.Customers); err != nil {
		return nil, err
	}

	if err := s.tierCache.Purge(ctx); err != nil {
		return nil, err
	}

	summary := &ImportSummary{
		Batch:     uuid.NewString(),
		Visits:    len(ingestion.Visits),
		Customers: len(ingestion.Customers),
		Skipped:   ingestion.Skipped,
	}
	logrus.WithField("batch", summary.Batch).
		Infof("imported %d visits for %d customers, %d rows skipped", summary.Visits, summary.Customers, summary.Skipped)
	return summary, nil
}
