package infra

import (
	"errors"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"

	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/handlers"
	"github.com/umalmyha/loyalty/internal/service"
	"github.com/umalmyha/loyalty/internal/validation"
)

// RouterDeps are services the API surface is built from. Ingest is nil for
// database-backed sources - the import endpoint is registered only for the
// in-memory one
type RouterDeps struct {
	Loyalty service.LoyaltyService
	Report  service.ReportService
	Ingest  service.IngestService
}

func Router(deps RouterDeps) (*echo.Echo, error) {
	e := echo.New()

	valid := validator.New()
	translator, err := translatorEn(valid)
	if err != nil {
		return nil, err
	}
	e.Validator = validation.Echo(valid, translator)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var notFoundErr *errs.EntryNotFoundErr
		if errors.As(err, &notFoundErr) {
			err = echo.NewHTTPError(http.StatusNotFound, notFoundErr.Error())
		}

		var payloadErr *validation.PayloadError
		if errors.As(err, &payloadErr) {
			if jsonErr := c.JSON(http.StatusBadRequest, payloadErr); jsonErr == nil {
				return
			}
		}

		var businessErr *errs.BusinessErr
		if errors.As(err, &businessErr) {
			if jsonErr := c.JSON(http.StatusBadRequest, businessErr); jsonErr == nil {
				return
			}
		}

		c.Logger().Error(err.Error())
		e.DefaultHTTPErrorHandler(err, c)
	}

	loyaltyHandler := handlers.NewLoyaltyHandler(deps.Loyalty)
	rulesHandler := handlers.NewRulesHandler(deps.Loyalty)
	reportHandler := handlers.NewReportHandler(deps.Report, deps.Ingest)

	api := e.Group("/api/v1")

	customersApi := api.Group("/customers")
	customersApi.GET("", loyaltyHandler.GetAllCustomers)
	customersApi.GET("/:id", loyaltyHandler.GetCustomer)
	customersApi.GET("/:id/visits", loyaltyHandler.GetCustomerVisits)
	customersApi.GET("/:id/visits/monthly", reportHandler.GetMonthlyVisits)
	customersApi.GET("/:id/tier", loyaltyHandler.GetCustomerTier)

	api.GET("/tiers", loyaltyHandler.GetTierGroups)

	rulesApi := api.Group("/rules")
	rulesApi.GET("", rulesHandler.GetRules)
	rulesApi.PUT("", rulesHandler.PutRules)

	rankingApi := api.Group("/ranking")
	rankingApi.GET("", reportHandler.GetRanking)
	rankingApi.GET("/export", reportHandler.ExportRanking)

	if deps.Ingest != nil {
		api.POST("/visits/import", reportHandler.ImportVisits)
	}

	return e, nil
}

func translatorEn(valid *validator.Validate) (ut.Translator, error) {
	enLocale := en.New()
	universal := ut.New(enLocale, enLocale)

	translator, found := universal.GetTranslator("en")
	if !found {
		return nil, errors.New("failed to find en translator")
	}

	if err := enTranslations.RegisterDefaultTranslations(valid, translator); err != nil {
		return nil, err
	}
	return translator, nil
}
