package domain

import (
	"errors"
)

const (
	RoleConsumer           = "consumer"
	RoleFoodInspector      = "food-inspector"
	RoleEstablishmentOwner = "establishment-owner"
	RoleHealthOfficial     = "health-official"
	RoleAdmin              = "admin"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")

	// ErrInvalidTransition is returned when a workflow status change is not
	// allowed from the entity's current status.
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type (
	PaginationRequest struct {
		Page  int `query:"page"`
		Limit int `query:"limit"`
	}

	PaginationResponse struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func NewPagination(page, limit int, total int64) PaginationResponse {
	return PaginationResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

// Roles allowed to moderate reviews and manage workflow records.
var StaffRoles = []string{RoleFoodInspector, RoleHealthOfficial, RoleAdmin}

func IsStaff(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}
