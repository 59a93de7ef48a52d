package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const asOfLayout = "2006-01-02"
const maxWindowMonths = 60

// parseAsOf reads optional asOf query parameter (YYYY-MM-DD), defaulting
// to today
func parseAsOf(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("asOf")
	if raw == "" {
		return time.Now(), nil
	}

	asOf, err := time.Parse(asOfLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "asOf must be a date in YYYY-MM-DD format")
	}
	return asOf, nil
}

// parseMonths reads optional months query parameter falling back to
// provided default
func parseMonths(c echo.Context, fallback int) (int, error) {
	raw := c.QueryParam("months")
	if raw == "" {
		return fallback, nil
	}

	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 || months > maxWindowMonths {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "months must be an integer between 1 and 60")
	}
	return months, nil
}
