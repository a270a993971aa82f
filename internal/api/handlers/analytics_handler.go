package handlers

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/presenters"
	"foodsafety-backend/pkg/analytics"

	"github.com/gofiber/fiber/v2"
)

type (
	AnalyticsHandler interface {
		GetDashboard(c *fiber.Ctx) error
		GetTrends(c *fiber.Ctx) error
	}

	analyticsHandler struct {
		analyticsService analytics.AnalyticsService
	}
)

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandler{analyticsService: analyticsService}
}

func (h *analyticsHandler) GetDashboard(c *fiber.Ctx) error {
	res, err := h.analyticsService.GetDashboard(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *analyticsHandler) GetTrends(c *fiber.Ctx) error {
	res, err := h.analyticsService.GetTrends(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetTrends, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTrends)
}
