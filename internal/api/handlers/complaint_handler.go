package handlers

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/presenters"
	"foodsafety-backend/pkg/complaint"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ComplaintHandler interface {
		SubmitComplaint(c *fiber.Ctx) error
		GetMyComplaints(c *fiber.Ctx) error
		GetComplaint(c *fiber.Ctx) error
		UpdateStatus(c *fiber.Ctx) error
	}

	complaintHandler struct {
		complaintService complaint.ComplaintService
		validator        *validator.Validate
	}
)

func NewComplaintHandler(complaintService complaint.ComplaintService, validator *validator.Validate) ComplaintHandler {
	return &complaintHandler{
		complaintService: complaintService,
		validator:        validator,
	}
}

// SubmitComplaint accepts a multipart form with up to five evidenceFiles.
func (h *complaintHandler) SubmitComplaint(c *fiber.Ctx) error {
	req := new(domain.SubmitComplaintRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitComplaint, err)
	}

	if form, err := c.MultipartForm(); err == nil {
		req.EvidenceFiles = form.File["evidenceFiles"]
	}

	res, err := h.complaintService.SubmitComplaint(c.Context(), localString(c, "user_id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSubmitComplaint, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubmitComplaint)
}

func (h *complaintHandler) GetMyComplaints(c *fiber.Ctx) error {
	res, err := h.complaintService.GetMyComplaints(c.Context(), localString(c, "user_id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetComplaints, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetComplaints)
}

func (h *complaintHandler) GetComplaint(c *fiber.Ctx) error {
	res, err := h.complaintService.GetComplaintByID(c.Context(), c.Params("id"), localString(c, "user_id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetComplaints, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetComplaints)
}

func (h *complaintHandler) UpdateStatus(c *fiber.Ctx) error {
	req := new(domain.UpdateComplaintStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateComplaint, err)
	}

	res, err := h.complaintService.UpdateStatus(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateComplaint, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateComplaint)
}
