package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/umalmyha/loyalty/internal/domain/loyalty"
	"github.com/umalmyha/loyalty/internal/service"
)

// ruleDto is the configuration-surface representation of a rule. Invalid
// rule parameters are rejected here - the domain never re-validates
type ruleDto struct {
	MinVisits    int    `json:"minVisits" validate:"required,gte=1,lte=1000"`
	WindowMonths int    `json:"windowMonths" validate:"required,gte=1,lte=60"`
	TierName     string `json:"tierName" validate:"required"`
	TierPriority int    `json:"tierPriority" validate:"gte=0,lte=99"`
}

type replaceRules struct {
	Rules []ruleDto `json:"rules" validate:"required,dive"`
}

type RulesHandler struct {
	loyaltySrv service.LoyaltyService
}

func NewRulesHandler(loyaltySrv service.LoyaltyService) *RulesHandler {
	return &RulesHandler{loyaltySrv: loyaltySrv}
}

func (h *RulesHandler) GetRules(c echo.Context) error {
	rules := h.loyaltySrv.Rules(c.Request().Context())

	dtos := make([]ruleDto, 0, len(rules))
	for _, r := range rules {
		dtos = append(dtos, ruleDto{
			MinVisits:    r.MinVisits,
			WindowMonths: r.WindowMonths,
			TierName:     r.ResultingTier.Name,
			TierPriority: r.ResultingTier.Priority,
		})
	}
	return c.JSON(http.StatusOK, &replaceRules{Rules: dtos})
}

func (h *RulesHandler) PutRules(c echo.Context) error {
	var payload replaceRules
	if err := c.Bind(&payload); err != nil {
		return err
	}

	if err := c.Validate(&payload); err != nil {
		return err
	}

	rules := make([]loyalty.Rule, 0, len(payload.Rules))
	for _, dto := range payload.Rules {
		rules = append(rules, loyalty.Rule{
			MinVisits:    dto.MinVisits,
			WindowMonths: dto.WindowMonths,
			ResultingTier: loyalty.Tier{
				Name:     dto.TierName,
				Priority: dto.TierPriority,
			},
		})
	}

	if err := h.loyaltySrv.ConfigureRules(c.Request().Context(), rules); err != nil {
		return err
	}
	return h.GetRules(c)
}
