package handlers

import (
	"strings"

	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/presenters"
	"foodsafety-backend/pkg/fssai"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FSSAIHandler interface {
		Register(c *fiber.Ctx) error
		Verify(c *fiber.Ctx) error
		Check(c *fiber.Ctx) error
		GetMyRegistrations(c *fiber.Ctx) error
		GetRegistrations(c *fiber.Ctx) error
		UpdateVerification(c *fiber.Ctx) error
		UpdateStatus(c *fiber.Ctx) error
		AttachNumber(c *fiber.Ctx) error
	}

	fssaiHandler struct {
		fssaiService fssai.FSSAIService
		validator    *validator.Validate
	}
)

func NewFSSAIHandler(fssaiService fssai.FSSAIService, validator *validator.Validate) FSSAIHandler {
	return &fssaiHandler{
		fssaiService: fssaiService,
		validator:    validator,
	}
}

func (h *fssaiHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterFSSAIRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterFSSAI, err)
	}

	certificate, err := c.FormFile("certificate")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterFSSAI, domain.ErrCertificateRequired)
	}
	req.Certificate = certificate

	res, err := h.fssaiService.Register(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRegisterFSSAI, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegisterFSSAI)
}

// Verify leaves the format check to the service so a malformed number gets
// the dedicated error message.
func (h *fssaiHandler) Verify(c *fiber.Ctx) error {
	req := new(domain.VerifyFSSAIRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.fssaiService.Verify(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedVerifyFSSAI, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, res.Message)
}

func (h *fssaiHandler) Check(c *fiber.Ctx) error {
	res, err := h.fssaiService.Check(c.Context(), c.Query("fssaiNumber"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCheckFSSAI, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, res.Message)
}

func (h *fssaiHandler) GetMyRegistrations(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRegistrations, domain.ErrEmailRequired)
	}

	res, err := h.fssaiService.GetMyRegistrations(c.Context(), email)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetRegistrations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRegistrations)
}

func (h *fssaiHandler) GetRegistrations(c *fiber.Ctx) error {
	res, err := h.fssaiService.GetRegistrations(c.Context(), c.Query("fssaiNumber"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetRegistrations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRegistrations)
}

func (h *fssaiHandler) UpdateVerification(c *fiber.Ctx) error {
	req := new(domain.UpdateVerificationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.fssaiService.UpdateVerification(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateVerified, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateVerified)
}

func (h *fssaiHandler) UpdateStatus(c *fiber.Ctx) error {
	req := new(domain.UpdateFSSAIStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateFSSAIStatus, err)
	}

	res, err := h.fssaiService.UpdateStatus(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateFSSAIStatus, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateFSSAIStatus)
}

func (h *fssaiHandler) AttachNumber(c *fiber.Ctx) error {
	req := new(domain.AttachFSSAINumberRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.fssaiService.AttachNumber(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAttachFSSAI, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAttachFSSAI)
}
