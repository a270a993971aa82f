package handlers

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/presenters"
	"foodsafety-backend/pkg/product"
	"foodsafety-backend/pkg/review"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ProductHandler interface {
		GetProducts(c *fiber.Ctx) error
		GetProduct(c *fiber.Ctx) error
		CreateProduct(c *fiber.Ctx) error
		UpdateProduct(c *fiber.Ctx) error
		DeleteProduct(c *fiber.Ctx) error
		VerifyLicense(c *fiber.Ctx) error
		AddViolation(c *fiber.Ctx) error
		RecomputeQualityMetrics(c *fiber.Ctx) error
	}

	productHandler struct {
		productService product.ProductService
		reviewService  review.ReviewService
		validator      *validator.Validate
	}
)

func NewProductHandler(productService product.ProductService, reviewService review.ReviewService, validator *validator.Validate) ProductHandler {
	return &productHandler{
		productService: productService,
		reviewService:  reviewService,
		validator:      validator,
	}
}

func (h *productHandler) GetProducts(c *fiber.Ctx) error {
	page, limit := paginationFrom(c)
	query := domain.ProductQuery{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort", "created_at"),
		Order:    c.Query("order", "desc"),
	}

	products, total, err := h.productService.GetProducts(c.Context(), query)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetProducts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"products":   products,
		"pagination": domain.NewPagination(page, limit, total),
	}, fiber.StatusOK, domain.MessageSuccessGetProducts)
}

func (h *productHandler) GetProduct(c *fiber.Ctx) error {
	res, err := h.productService.GetProductByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetProducts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProducts)
}

func (h *productHandler) CreateProduct(c *fiber.Ctx) error {
	req := new(domain.CreateProductRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateProduct, err)
	}

	res, err := h.productService.CreateProduct(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCreateProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateProduct)
}

func (h *productHandler) UpdateProduct(c *fiber.Ctx) error {
	req := new(domain.UpdateProductRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProduct, err)
	}

	res, err := h.productService.UpdateProduct(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateProduct)
}

func (h *productHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedDeleteProduct, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteProduct)
}

func (h *productHandler) VerifyLicense(c *fiber.Ctx) error {
	res, err := h.productService.VerifyLicense(c.Context(), c.Params("license"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedVerifyLicense, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessVerifyLicense)
}

func (h *productHandler) AddViolation(c *fiber.Ctx) error {
	req := new(domain.AddViolationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddViolation, err)
	}

	res, err := h.productService.AddViolation(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedAddViolation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddViolation)
}

// RecomputeQualityMetrics rebuilds the product's running means from its reviews.
func (h *productHandler) RecomputeQualityMetrics(c *fiber.Ctx) error {
	res, err := h.reviewService.RecomputeQualityMetrics(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRecomputeMetrics, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecomputeMetrics)
}
