package domain

import (
	"errors"
	"time"
)

const (
	VerificationPending     = "pending"
	VerificationVerified    = "verified"
	VerificationDisputed    = "disputed"
	VerificationFalseReport = "false-report"

	// Number of report flags after which a review is marked disputed.
	ReportFlagDisputeThreshold = 5
	TopReviewsLimit            = 5
)

var (
	MessageSuccessCreateReview  = "review created successfully"
	MessageSuccessUpdateReview  = "review updated successfully"
	MessageSuccessDeleteReview  = "review deleted successfully"
	MessageSuccessGetReviews    = "reviews retrieved successfully"
	MessageSuccessVoteHelpful   = "review marked as helpful"
	MessageSuccessReportReview  = "review reported"
	MessageSuccessVerifyReview  = "review verification updated"
	MessageSuccessUpdateOutcome = "review outcome updated"

	MessageFailedCreateReview  = "failed to create review"
	MessageFailedUpdateReview  = "failed to update review"
	MessageFailedDeleteReview  = "failed to delete review"
	MessageFailedGetReviews    = "failed to retrieve reviews"
	MessageFailedVoteHelpful   = "failed to mark review as helpful"
	MessageFailedReportReview  = "failed to report review"
	MessageFailedVerifyReview  = "failed to update review verification"
	MessageFailedUpdateOutcome = "failed to update review outcome"

	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("you have already reviewed this product")
	ErrUnauthorizedReview  = errors.New("not authorized to modify this review")
	ErrSelfHelpfulVote     = errors.New("cannot vote on your own review")
	ErrAlreadyVotedHelpful = errors.New("you have already marked this review helpful")
)

type (
	RatingsRequest struct {
		Hygiene int `json:"hygiene" validate:"required,min=1,max=5"`
		Safety  int `json:"safety" validate:"required,min=1,max=5"`
		Quality int `json:"quality" validate:"required,min=1,max=5"`
	}

	ObservationsRequest struct {
		StorageConditions  string `json:"storage_conditions" validate:"omitempty,oneof=excellent good fair poor critical"`
		HandlingPractices  string `json:"handling_practices" validate:"omitempty,oneof=excellent good fair poor critical"`
		PackagingCondition string `json:"packaging_condition" validate:"omitempty,oneof=excellent good fair poor critical"`
		Temperature        string `json:"temperature" validate:"omitempty,oneof=appropriate inappropriate not-applicable"`
		Comments           string `json:"comments" validate:"omitempty,max=1000"`
	}

	HygieneIssue struct {
		Type        string `json:"type" validate:"required,oneof=cleanliness pest-control staff-hygiene equipment-sanitation waste-management other"`
		Severity    string `json:"severity" validate:"required,oneof=low medium high critical"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}

	ComplianceViolation struct {
		Type        string `json:"type" validate:"required,oneof=expired-license improper-labeling unauthorized-additives misbranded-product false-claims other"`
		Severity    string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
		Description string `json:"description"`
		Evidence    string `json:"evidence"`
	}

	QualityIssue struct {
		Type        string `json:"type" validate:"required,oneof=taste appearance texture freshness foreign-objects packaging other"`
		Severity    string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
		Description string `json:"description"`
		BatchNumber string `json:"batch_number"`
	}

	CreateReviewRequest struct {
		ProductID            string                `json:"product_id" validate:"required,uuid"`
		Ratings              RatingsRequest        `json:"ratings" validate:"required"`
		Title                string                `json:"title" validate:"required,max=100"`
		Content              string                `json:"content" validate:"required,max=1000"`
		Observations         ObservationsRequest   `json:"food_safety_observations"`
		HygieneIssues        []HygieneIssue        `json:"hygiene_issues" validate:"omitempty,dive"`
		ComplianceViolations []ComplianceViolation `json:"compliance_violations" validate:"omitempty,dive"`
		QualityIssues        []QualityIssue        `json:"quality_issues" validate:"omitempty,dive"`
	}

	// UpdateReviewRequest only covers descriptive fields. Ratings are folded
	// into the product aggregate at creation and are not editable.
	UpdateReviewRequest struct {
		Title        string               `json:"title" validate:"omitempty,max=100"`
		Content      string               `json:"content" validate:"omitempty,max=1000"`
		Observations *ObservationsRequest `json:"food_safety_observations"`
	}

	ReportReviewRequest struct {
		Flag string `json:"flag" validate:"required,oneof=spam inappropriate false-information harassment other"`
	}

	VerifyReviewRequest struct {
		Status string `json:"status" validate:"required,oneof=pending verified disputed false-report"`
	}

	UpdateOutcomeRequest struct {
		Status            string `json:"status" validate:"required,oneof=open under-investigation resolved dismissed"`
		ActionTaken       string `json:"action_taken"`
		AuthorityResponse string `json:"authority_response"`
	}

	ReportOutcome struct {
		Status            string     `json:"status"`
		ActionTaken       string     `json:"action_taken,omitempty"`
		ResolutionDate    *time.Time `json:"resolution_date,omitempty"`
		AuthorityResponse string     `json:"authority_response,omitempty"`
	}

	ReviewResponse struct {
		ID                   string                `json:"id"`
		ProductID            string                `json:"product_id"`
		UserID               string                `json:"user_id"`
		Username             string                `json:"username,omitempty"`
		Ratings              RatingsRequest        `json:"ratings"`
		OverallRating        float64               `json:"overall_rating"`
		Title                string                `json:"title"`
		Content              string                `json:"content"`
		Observations         ObservationsRequest   `json:"food_safety_observations"`
		HygieneIssues        []HygieneIssue        `json:"hygiene_issues"`
		ComplianceViolations []ComplianceViolation `json:"compliance_violations"`
		QualityIssues        []QualityIssue        `json:"quality_issues"`
		VerificationStatus   string                `json:"verification_status"`
		ReportOutcome        ReportOutcome         `json:"report_outcome"`
		HelpfulCount         int                   `json:"helpful_count"`
		ReportFlags          []string              `json:"report_flags"`
		CreatedAt            time.Time             `json:"created_at"`
		UpdatedAt            time.Time             `json:"updated_at"`
	}

	CreateReviewResponse struct {
		Review         ReviewResponse `json:"review"`
		ProductStatus  string         `json:"product_status"`
		QualityMetrics QualityMetrics `json:"quality_metrics"`
	}
)
