package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	FSSAIStatusPending  = "Pending"
	FSSAIStatusApproved = "Approved"
	FSSAIStatusRejected = "Rejected"

	FSSAINumberLength = 14
)

var (
	MessageSuccessRegisterFSSAI     = "Registration successful"
	MessageSuccessVerifyFSSAI       = "FSSAI number verified successfully"
	MessageFSSAINotMatched          = "FSSAI number does not match any records"
	MessageFSSAIFound               = "FSSAI number found in collection"
	MessageFSSAINotFound            = "FSSAI number not found"
	MessageSuccessGetRegistrations  = "registrations retrieved successfully"
	MessageSuccessUpdateVerified    = "verification status updated"
	MessageSuccessUpdateFSSAIStatus = "registration status updated"
	MessageSuccessAttachFSSAI       = "FSSAI number added successfully"

	MessageFailedRegisterFSSAI     = "error processing registration"
	MessageFailedVerifyFSSAI       = "error verifying FSSAI number"
	MessageFailedCheckFSSAI        = "error checking FSSAI number"
	MessageFailedGetRegistrations  = "error fetching registrations"
	MessageFailedUpdateVerified    = "error updating verification status"
	MessageFailedUpdateFSSAIStatus = "error updating registration status"
	MessageFailedAttachFSSAI       = "error updating FSSAI number"

	ErrInvalidFSSAINumber       = errors.New("invalid FSSAI number, must be exactly 14 digits")
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrNoRegistrations          = errors.New("no FSSAI registrations found")
	ErrRegistrationNotApproved  = errors.New("FSSAI number can only be added to Approved registrations")
	ErrFSSAINumberTaken         = errors.New("FSSAI number already assigned to another registration")
	ErrCertificateRequired      = errors.New("FSSAI certificate is required")
	ErrInvalidCertificateFormat = errors.New("invalid certificate file type")
	ErrInvalidVerifiedFlag      = errors.New("invalid verification status")
	ErrEmailRequired            = errors.New("email is required")
)

type (
	RegisterFSSAIRequest struct {
		Business    string                `json:"business" form:"business" validate:"required"`
		Email       string                `json:"email" form:"email" validate:"required,email"`
		Certificate *multipart.FileHeader `json:"-" form:"-"`
	}

	VerifyFSSAIRequest struct {
		FSSAINumber string `json:"fssaiNumber" validate:"required,fssai"`
	}

	UpdateVerificationRequest struct {
		Verified *bool `json:"verified" validate:"required"`
	}

	UpdateFSSAIStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=Pending Approved Rejected"`
	}

	AttachFSSAINumberRequest struct {
		FSSAINumber string `json:"fssaiNumber" validate:"required,fssai"`
	}

	FSSAIRegistrationResponse struct {
		ID                  string    `json:"id"`
		Business            string    `json:"business"`
		Email               string    `json:"email"`
		CertificateFileName string    `json:"certificate_file_name"`
		CertificatePath     string    `json:"certificate_path,omitempty"`
		RegistrationDate    time.Time `json:"registration_date"`
		Verified            bool      `json:"verified"`
		Status              string    `json:"status"`
		FSSAINumber         *string   `json:"fssai_number"`
	}

	VerifyFSSAIResponse struct {
		IsValid bool   `json:"isValid"`
		Message string `json:"message"`
	}

	CheckFSSAIResponse struct {
		Exists               bool                        `json:"exists"`
		Message              string                      `json:"message"`
		MatchCount           int                         `json:"matchCount"`
		MatchedRegistrations []FSSAIRegistrationResponse `json:"matchedRegistrations"`
	}
)
