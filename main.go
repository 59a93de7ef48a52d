package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/umalmyha/loyalty/internal/cache"
	"github.com/umalmyha/loyalty/internal/config"
	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	"github.com/umalmyha/loyalty/internal/infra"
	"github.com/umalmyha/loyalty/internal/repository"
	"github.com/umalmyha/loyalty/internal/service"
)

const defaultConnectTimeout = 5 * time.Second

func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	app, err := app(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	start(app, cfg.ServerCfg)
}

func app(ctx context.Context, cfg config.Config) (*echo.Echo, error) {
	var visitRepo repository.VisitRepository
	var customerRepo repository.CustomerRepository
	var ingestSrv service.IngestService

	tierCache, err := tierCache(ctx, cfg.RedisCfg)
	if err != nil {
		return nil, err
	}

	switch cfg.SourceCfg.Kind {
	case config.SourcePostgres:
		pool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
		if err != nil {
			return nil, err
		}
		visitRepo = repository.NewPostgresVisitRepository(pool)
		customerRepo = repository.NewPostgresCustomerRepository(pool)

	case config.SourceMongo:
		client, err := infra.Mongodb(ctx, cfg.MongoCfg)
		if err != nil {
			return nil, err
		}
		visitRepo = repository.NewMongoVisitRepository(client)
		customerRepo = repository.NewMongoCustomerRepository(client)

	default:
		visitStore, customerStore, err := csvStores(cfg.SourceCfg.CsvFile)
		if err != nil {
			return nil, err
		}
		visitRepo = visitStore
		customerRepo = customerStore
		ingestSrv = service.NewIngestService(visitStore, customerStore, tierCache)
	}

	strategy := loyalty.NewVisitsInWindowStrategy(cfg.ClassifierCfg.WindowMonths, cfg.ClassifierCfg.UniquePerDay)
	ruleSet := loyalty.NewRuleSet(loyalty.DefaultRules()...)

	loyaltySrv := service.NewLoyaltyService(strategy, visitRepo, customerRepo, ruleSet, tierCache)
	reportSrv := service.NewReportService(visitRepo, customerRepo)

	return infra.Router(infra.RouterDeps{
		Loyalty: loyaltySrv,
		Report:  reportSrv,
		Ingest:  ingestSrv,
	})
}

// csvStores seeds in-memory stores from the configured CSV file. A missing
// file is not fatal - the server starts with an empty population and waits
// for an import
func csvStores(path string) (repository.VisitStore, repository.CustomerStore, error) {
	if _, err := os.Stat(path); err != nil {
		logrus.Warnf("visits csv %s is not found, starting with empty population", path)
		return repository.NewInMemoryVisitRepository(nil), repository.NewInMemoryCustomerRepository(nil), nil
	}

	ingestion, err := repository.ReadVisitsCsvFile(path)
	if err != nil {
		return nil, nil, err
	}

	logrus.Infof("loaded %d visits for %d customers from %s, %d rows skipped", len(ingestion.Visits), len(ingestion.Customers), path, ingestion.Skipped)
	return repository.NewInMemoryVisitRepository(ingestion.Visits), repository.NewInMemoryCustomerRepository(ingestion.Customers), nil
}

func tierCache(ctx context.Context, cfg config.RedisCfg) (cache.TierCache, error) {
	if cfg.Addr == "" {
		return cache.NewNoopTierCache(), nil
	}

	client, err := infra.Redis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis - %w", err)
	}
	return cache.NewRedisTierCache(client, cfg.TierTTL), nil
}

func start(app *echo.Echo, cfg config.ServerCfg) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		app.Logger.Infof("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			app.Logger.Fatalf("failed to stop server gracefully - %s", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Fatalf("shutting down the server, unexpected error occurred - %s", err)
		}
	}
}
