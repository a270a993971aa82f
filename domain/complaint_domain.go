package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	ComplaintStatusPending     = "Pending"
	ComplaintStatusUnderReview = "Under Review"
	ComplaintStatusResolved    = "Resolved"
	ComplaintStatusRejected    = "Rejected"

	MaxEvidenceFiles    = 5
	MaxEvidenceFileSize = 5 * 1024 * 1024
	MinDescriptionChars = 20

	// Company recorded on an incident when the reporter has none on file.
	UnknownCompany = "Unknown Company"
)

var (
	MessageSuccessSubmitComplaint = "complaint submitted successfully"
	MessageSuccessGetComplaints   = "complaints retrieved successfully"
	MessageSuccessUpdateComplaint = "complaint status updated successfully"

	MessageFailedSubmitComplaint = "error submitting complaint"
	MessageFailedGetComplaints   = "error fetching complaints"
	MessageFailedUpdateComplaint = "failed to update complaint status"

	ErrComplaintNotFound       = errors.New("complaint not found")
	ErrMissingComplaintFields  = errors.New("productName, category, issueType and description are required")
	ErrDescriptionTooShort     = errors.New("description must be at least 20 characters")
	ErrComplaintAccessDenied   = errors.New("access denied")
	ErrInvalidPurchaseDate     = errors.New("invalid purchase date")
	ErrTooManyEvidenceFiles    = errors.New("at most 5 evidence files are allowed")
	ErrEvidenceFileTooLarge    = errors.New("evidence file exceeds 5MB")
	ErrInvalidEvidenceFileType = errors.New("invalid file type, only JPEG, PNG, and PDF files are allowed")
)

type (
	SubmitComplaintRequest struct {
		ProductName   string                  `json:"productName" form:"productName" validate:"required"`
		BatchNumber   string                  `json:"batchNumber" form:"batchNumber" validate:"required"`
		PurchaseDate  string                  `json:"purchaseDate" form:"purchaseDate" validate:"required"`
		Category      string                  `json:"category" form:"category" validate:"required,oneof=Food Beverages 'Packaged Goods' Dairy Other"`
		IssueType     string                  `json:"issueType" form:"issueType" validate:"required,oneof='Quality Issue' 'Safety Concern' 'Labeling Issue' 'Packaging Defect' Other"`
		Description   string                  `json:"description" form:"description" validate:"required,min=20"`
		FSSAINumber   string                  `json:"fssaiNumber" form:"fssaiNumber" validate:"omitempty,fssai"`
		EvidenceFiles []*multipart.FileHeader `json:"-" form:"-"`
	}

	UpdateComplaintStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=Pending 'Under Review' Resolved Rejected"`
	}

	EvidenceFile struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
		MimeType string `json:"mimetype"`
	}

	ComplaintResponse struct {
		ID            string         `json:"id"`
		UserID        string         `json:"user_id"`
		ProductName   string         `json:"product_name"`
		BatchNumber   string         `json:"batch_number"`
		PurchaseDate  time.Time      `json:"purchase_date"`
		Category      string         `json:"category"`
		IssueType     string         `json:"issue_type"`
		Description   string         `json:"description"`
		EvidenceFiles []EvidenceFile `json:"evidence_files"`
		FSSAINumber   string         `json:"fssai_number,omitempty"`
		Status        string         `json:"status"`
		CreatedAt     time.Time      `json:"created_at"`
		UpdatedAt     time.Time      `json:"updated_at"`
	}

	SubmitComplaintResponse struct {
		Complaint ComplaintResponse `json:"complaint"`
		Incident  IncidentResponse  `json:"incident"`
	}
)
