package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/service"
)

const defaultRankingMonths = 3

type ReportHandler struct {
	reportSrv service.ReportService
	ingestSrv service.IngestService
}

func NewReportHandler(reportSrv service.ReportService, ingestSrv service.IngestService) *ReportHandler {
	return &ReportHandler{reportSrv: reportSrv, ingestSrv: ingestSrv}
}

func (h *ReportHandler) GetMonthlyVisits(c echo.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	months, err := parseMonths(c, defaultRankingMonths)
	if err != nil {
		return err
	}

	breakdown, err := h.reportSrv.VisitsByMonth(c.Request().Context(), c.Param("id"), months, asOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, breakdown)
}

func (h *ReportHandler) GetRanking(c echo.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	months, err := parseMonths(c, defaultRankingMonths)
	if err != nil {
		return err
	}

	rows, err := h.reportSrv.RankingTopCustomers(c.Request().Context(), months, asOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) ExportRanking(c echo.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	months, err := parseMonths(c, defaultRankingMonths)
	if err != nil {
		return err
	}

	rows, err := h.reportSrv.RankingTopCustomers(c.Request().Context(), months, asOf)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "ranking.csv"))
	res.WriteHeader(http.StatusOK)

	return h.reportSrv.WriteRankingCsv(res, rows)
}

func (h *ReportHandler) ImportVisits(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errs.NewBusinessErr("file", "csv file is not provided")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	summary, err := h.ingestSrv.ImportCsv(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
