package domain

import (
	"errors"
	"time"
)

const (
	ProductStatusActive             = "active"
	ProductStatusSuspended          = "suspended"
	ProductStatusBlacklisted        = "blacklisted"
	ProductStatusUnderInvestigation = "under-investigation"
)

var (
	MessageSuccessCreateProduct    = "product created successfully"
	MessageSuccessUpdateProduct    = "product updated successfully"
	MessageSuccessDeleteProduct    = "product deleted successfully"
	MessageSuccessGetProducts      = "products retrieved successfully"
	MessageSuccessVerifyLicense    = "FSSAI license verified successfully"
	MessageSuccessAddViolation     = "violation recorded successfully"
	MessageSuccessRecomputeMetrics = "quality metrics recomputed successfully"

	MessageFailedCreateProduct    = "failed to create product"
	MessageFailedUpdateProduct    = "failed to update product"
	MessageFailedDeleteProduct    = "failed to delete product"
	MessageFailedGetProducts      = "failed to retrieve products"
	MessageFailedVerifyLicense    = "failed to verify FSSAI license"
	MessageFailedAddViolation     = "failed to record violation"
	MessageFailedRecomputeMetrics = "failed to recompute quality metrics"

	ErrProductNotFound      = errors.New("product not found")
	ErrFSSAILicenseExists   = errors.New("FSSAI license already exists")
	ErrInvalidExpiryDate    = errors.New("invalid FSSAI expiry date")
	ErrInvalidViolationDate = errors.New("invalid violation date")
)

type (
	AddressRequest struct {
		Street  string `json:"street"`
		City    string `json:"city"`
		State   string `json:"state"`
		Pincode string `json:"pincode"`
		Country string `json:"country"`
	}

	EstablishmentRequest struct {
		Name          string         `json:"name" validate:"required"`
		Type          string         `json:"type" validate:"required,oneof=restaurant manufacturer processor distributor retailer street-vendor other"`
		Address       AddressRequest `json:"address"`
		ContactNumber string         `json:"contact_number"`
	}

	CreateProductRequest struct {
		Name            string               `json:"name" validate:"required,max=200"`
		FSSAILicense    string               `json:"fssai_license" validate:"required"`
		Category        string               `json:"category" validate:"required,oneof=packaged-foods beverages dairy-products meat-products bakery ready-to-eat health-supplements street-food restaurant other"`
		Establishment   EstablishmentRequest `json:"establishment" validate:"required"`
		FSSAIExpiryDate string               `json:"fssai_expiry_date" validate:"required"`
	}

	UpdateProductRequest struct {
		Name             string                `json:"name" validate:"omitempty,max=200"`
		Category         string                `json:"category" validate:"omitempty,oneof=packaged-foods beverages dairy-products meat-products bakery ready-to-eat health-supplements street-food restaurant other"`
		Establishment    *EstablishmentRequest `json:"establishment"`
		FSSAIExpiryDate  string                `json:"fssai_expiry_date"`
		InspectionRating *float64              `json:"inspection_rating" validate:"omitempty,min=0,max=5"`
		Status           string                `json:"status" validate:"omitempty,oneof=active suspended blacklisted under-investigation"`
	}

	ProductQuery struct {
		Page     int
		Limit    int
		Category string
		Search   string
		Sort     string
		Order    string
	}

	AddViolationRequest struct {
		Date        string `json:"date"`
		Description string `json:"description" validate:"required"`
		Severity    string `json:"severity" validate:"required,oneof=low medium high critical"`
		Status      string `json:"status" validate:"omitempty,oneof=pending resolved under-review"`
	}

	Violation struct {
		Date        time.Time `json:"date"`
		Description string    `json:"description"`
		Severity    string    `json:"severity"`
		Status      string    `json:"status"`
	}

	QualityMetrics struct {
		HygieneRating  float64 `json:"hygiene_rating"`
		SafetyRating   float64 `json:"safety_rating"`
		QualityRating  float64 `json:"quality_rating"`
		ReportedIssues int     `json:"reported_issues"`
		ResolvedIssues int     `json:"resolved_issues"`
	}

	ProductResponse struct {
		ID                 string               `json:"id"`
		Name               string               `json:"name"`
		FSSAILicense       string               `json:"fssai_license"`
		Category           string               `json:"category"`
		Status             string               `json:"status"`
		Establishment      EstablishmentRequest `json:"establishment"`
		FSSAIExpiryDate    time.Time            `json:"fssai_expiry_date"`
		FSSAIExpired       bool                 `json:"fssai_expired"`
		LastInspectionDate *time.Time           `json:"last_inspection_date,omitempty"`
		InspectionRating   float64              `json:"inspection_rating"`
		Violations         []Violation          `json:"violations"`
		QualityMetrics     QualityMetrics       `json:"quality_metrics"`
		OverallRating      float64              `json:"overall_rating"`
		CreatedAt          time.Time            `json:"created_at"`
		UpdatedAt          time.Time            `json:"updated_at"`
	}

	VerifyLicenseResponse struct {
		Verified     bool   `json:"verified"`
		Name         string `json:"name"`
		Category     string `json:"category"`
		Manufacturer string `json:"manufacturer"`
		FSSAILicense string `json:"fssai_license"`
	}
)
