package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	errs "github.com/umalmyha/loyalty/internal/errors"
	"github.com/umalmyha/loyalty/internal/service"
)

type LoyaltyHandler struct {
	loyaltySrv service.LoyaltyService
}

func NewLoyaltyHandler(loyaltySrv service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltySrv: loyaltySrv}
}

func (h *LoyaltyHandler) GetAllCustomers(c echo.Context) error {
	customers, err := h.loyaltySrv.Customers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *LoyaltyHandler) GetCustomer(c echo.Context) error {
	id := c.Param("id")
	cust, err := h.loyaltySrv.FindCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if cust == nil {
		return errs.NewEntryNotFoundErr(fmt.Sprintf("customer %s is not found", id))
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *LoyaltyHandler) GetCustomerVisits(c echo.Context) error {
	visits, err := h.loyaltySrv.CustomerVisits(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visits)
}

func (h *LoyaltyHandler) GetCustomerTier(c echo.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	tier, err := h.loyaltySrv.Classify(c.Request().Context(), c.Param("id"), asOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &tier)
}

func (h *LoyaltyHandler) GetTierGroups(c echo.Context) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return err
	}

	groups, err := h.loyaltySrv.GroupByTier(c.Request().Context(), asOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}
