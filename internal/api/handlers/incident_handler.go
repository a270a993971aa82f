package handlers

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/presenters"
	"foodsafety-backend/pkg/incident"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	IncidentHandler interface {
		CreateIncident(c *fiber.Ctx) error
		GetIncidents(c *fiber.Ctx) error
		GetRecentIncidents(c *fiber.Ctx) error
		GetIncident(c *fiber.Ctx) error
		UpdateIncident(c *fiber.Ctx) error
		UpdateStatus(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
	}

	incidentHandler struct {
		incidentService incident.IncidentService
		validator       *validator.Validate
	}
)

func NewIncidentHandler(incidentService incident.IncidentService, validator *validator.Validate) IncidentHandler {
	return &incidentHandler{
		incidentService: incidentService,
		validator:       validator,
	}
}

func (h *incidentHandler) CreateIncident(c *fiber.Ctx) error {
	req := new(domain.CreateIncidentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateIncident, err)
	}

	res, err := h.incidentService.CreateIncident(c.Context(), localString(c, "user_id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCreateIncident, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateIncident)
}

func (h *incidentHandler) GetIncidents(c *fiber.Ctx) error {
	page, limit := paginationFrom(c)
	filter := incident.IncidentFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	}

	incidents, total, err := h.incidentService.GetIncidents(c.Context(), filter)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetIncidents, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"incidents":  incidents,
		"pagination": domain.NewPagination(page, limit, total),
	}, fiber.StatusOK, domain.MessageSuccessGetIncidents)
}

func (h *incidentHandler) GetRecentIncidents(c *fiber.Ctx) error {
	res, err := h.incidentService.GetRecentIncidents(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetIncidents, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIncidents)
}

func (h *incidentHandler) GetIncident(c *fiber.Ctx) error {
	res, err := h.incidentService.GetIncidentByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetIncidents, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIncidents)
}

func (h *incidentHandler) UpdateIncident(c *fiber.Ctx) error {
	req := new(domain.UpdateIncidentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateIncident, err)
	}

	res, err := h.incidentService.UpdateIncident(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateIncident, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateIncident)
}

func (h *incidentHandler) UpdateStatus(c *fiber.Ctx) error {
	req := new(domain.UpdateIncidentStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateIncident, err)
	}

	res, err := h.incidentService.UpdateStatus(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateIncident, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateIncident)
}

func (h *incidentHandler) GetStats(c *fiber.Ctx) error {
	res, err := h.incidentService.GetStats(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedIncidentStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessIncidentStats)
}
