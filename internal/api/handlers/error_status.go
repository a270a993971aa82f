package handlers

import (
	"errors"
	"strconv"

	"foodsafety-backend/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var (
	badRequestErrors = []error{
		domain.ErrParseUUID,
		domain.ErrInvalidExpiryDate,
		domain.ErrInvalidViolationDate,
		domain.ErrSelfHelpfulVote,
		domain.ErrInvalidIncidentStatus,
		domain.ErrMissingComplaintFields,
		domain.ErrDescriptionTooShort,
		domain.ErrInvalidPurchaseDate,
		domain.ErrTooManyEvidenceFiles,
		domain.ErrEvidenceFileTooLarge,
		domain.ErrInvalidEvidenceFileType,
		domain.ErrInvalidFSSAINumber,
		domain.ErrCertificateRequired,
		domain.ErrInvalidCertificateFormat,
		domain.ErrInvalidVerifiedFlag,
		domain.ErrEmailRequired,
	}

	notFoundErrors = []error{
		domain.ErrUserNotFound,
		domain.ErrProductNotFound,
		domain.ErrReviewNotFound,
		domain.ErrComplaintNotFound,
		domain.ErrIncidentNotFound,
		domain.ErrAssigneeNotFound,
		domain.ErrRegistrationNotFound,
		domain.ErrNoRegistrations,
	}

	conflictErrors = []error{
		domain.ErrEmailAlreadyExists,
		domain.ErrUsernameTaken,
		domain.ErrFSSAILicenseExists,
		domain.ErrReviewAlreadyExists,
		domain.ErrAlreadyVotedHelpful,
		domain.ErrFSSAINumberTaken,
	}

	forbiddenErrors = []error{
		domain.ErrUserNotAllowed,
		domain.ErrRoleNotSelfAssigned,
		domain.ErrUnauthorizedReview,
		domain.ErrComplaintAccessDenied,
	}

	unprocessableErrors = []error{
		domain.ErrInvalidTransition,
		domain.ErrRegistrationNotApproved,
	}
)

// statusFor maps a service error onto the HTTP status returned to the caller.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case matchesAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case matchesAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case matchesAny(err, conflictErrors):
		return fiber.StatusConflict
	case matchesAny(err, forbiddenErrors):
		return fiber.StatusForbidden
	case matchesAny(err, unprocessableErrors):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func paginationFrom(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func localString(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
