package handlers

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/presenters"
	"foodsafety-backend/pkg/review"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReviewHandler interface {
		CreateReview(c *fiber.Ctx) error
		GetReviewsByProduct(c *fiber.Ctx) error
		GetTopReviews(c *fiber.Ctx) error
		GetMyReviews(c *fiber.Ctx) error
		GetReview(c *fiber.Ctx) error
		UpdateReview(c *fiber.Ctx) error
		DeleteReview(c *fiber.Ctx) error
		VoteHelpful(c *fiber.Ctx) error
		ReportReview(c *fiber.Ctx) error
		VerifyReview(c *fiber.Ctx) error
		UpdateOutcome(c *fiber.Ctx) error
	}

	reviewHandler struct {
		reviewService review.ReviewService
		validator     *validator.Validate
	}
)

func NewReviewHandler(reviewService review.ReviewService, validator *validator.Validate) ReviewHandler {
	return &reviewHandler{
		reviewService: reviewService,
		validator:     validator,
	}
}

func (h *reviewHandler) CreateReview(c *fiber.Ctx) error {
	req := new(domain.CreateReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateReview, err)
	}

	res, err := h.reviewService.CreateReview(c.Context(), localString(c, "user_id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCreateReview, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateReview)
}

func (h *reviewHandler) GetReviewsByProduct(c *fiber.Ctx) error {
	page, limit := paginationFrom(c)

	reviews, total, err := h.reviewService.GetReviewsByProduct(c.Context(), c.Params("productId"), c.Query("sort", "newest"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"reviews":    reviews,
		"pagination": domain.NewPagination(page, limit, total),
	}, fiber.StatusOK, domain.MessageSuccessGetReviews)
}

// GetTopReviews returns the most helpful reviews of a product.
func (h *reviewHandler) GetTopReviews(c *fiber.Ctx) error {
	reviews, _, err := h.reviewService.GetReviewsByProduct(c.Context(), c.Params("productId"), "helpful", 1, domain.TopReviewsLimit)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, reviews, fiber.StatusOK, domain.MessageSuccessGetReviews)
}

func (h *reviewHandler) GetMyReviews(c *fiber.Ctx) error {
	res, err := h.reviewService.GetMyReviews(c.Context(), localString(c, "user_id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReviews)
}

func (h *reviewHandler) GetReview(c *fiber.Ctx) error {
	res, err := h.reviewService.GetReviewByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReviews)
}

func (h *reviewHandler) UpdateReview(c *fiber.Ctx) error {
	req := new(domain.UpdateReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateReview, err)
	}

	res, err := h.reviewService.UpdateReview(c.Context(), c.Params("id"), localString(c, "user_id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateReview, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateReview)
}

func (h *reviewHandler) DeleteReview(c *fiber.Ctx) error {
	err := h.reviewService.DeleteReview(c.Context(), c.Params("id"), localString(c, "user_id"), localString(c, "role"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteReview, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteReview)
}

func (h *reviewHandler) VoteHelpful(c *fiber.Ctx) error {
	res, err := h.reviewService.VoteHelpful(c.Context(), c.Params("id"), localString(c, "user_id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedVoteHelpful, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessVoteHelpful)
}

func (h *reviewHandler) ReportReview(c *fiber.Ctx) error {
	req := new(domain.ReportReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReportReview, err)
	}

	res, err := h.reviewService.ReportReview(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedReportReview, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessReportReview)
}

func (h *reviewHandler) VerifyReview(c *fiber.Ctx) error {
	req := new(domain.VerifyReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedVerifyReview, err)
	}

	res, err := h.reviewService.VerifyReview(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedVerifyReview, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessVerifyReview)
}

func (h *reviewHandler) UpdateOutcome(c *fiber.Ctx) error {
	req := new(domain.UpdateOutcomeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateOutcome, err)
	}

	res, err := h.reviewService.UpdateOutcome(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateOutcome, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateOutcome)
}
