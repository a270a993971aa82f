package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessGetUser        = "user retrieved successfully"
	MessageSuccessUpdateUser     = "user updated successfully"
	MessageSuccessRecomputeTrust = "trust score recomputed successfully"
	MessageFailedRegister        = "failed to register user"
	MessageFailedLogin           = "failed to login"
	MessageFailedGetUser         = "failed to retrieve user"
	MessageFailedUpdateUser      = "failed to update user"
	MessageFailedRecomputeTrust  = "failed to recompute trust score"

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrRoleNotSelfAssigned = errors.New("role cannot be self-assigned")
	ErrHashPassword        = errors.New("failed to hash password")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Company  string `json:"company" validate:"required"`
		Role     string `json:"role" validate:"omitempty,oneof=consumer food-inspector establishment-owner health-official admin"`
		FullName string `json:"full_name" validate:"omitempty,max=100"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	UpdateProfileRequest struct {
		Company      string `json:"company" validate:"omitempty,max=100"`
		FullName     string `json:"full_name" validate:"omitempty,max=100"`
		Phone        string `json:"phone" validate:"omitempty,max=20"`
		Designation  string `json:"designation" validate:"omitempty,max=100"`
		Organization string `json:"organization" validate:"omitempty,max=100"`
	}

	ActivityMetrics struct {
		ReportsSubmitted     int `json:"reports_submitted"`
		ReportsVerified      int `json:"reports_verified"`
		ViolationsReported   int `json:"violations_reported"`
		HelpfulVotesReceived int `json:"helpful_votes_received"`
		TrustScore           int `json:"trust_score"`
	}

	UserResponse struct {
		ID              string          `json:"id"`
		Username        string          `json:"username"`
		Email           string          `json:"email"`
		Role            string          `json:"role"`
		Company         string          `json:"company"`
		Status          string          `json:"status"`
		FullName        string          `json:"full_name,omitempty"`
		Phone           string          `json:"phone,omitempty"`
		Designation     string          `json:"designation,omitempty"`
		Organization    string          `json:"organization,omitempty"`
		ActivityMetrics ActivityMetrics `json:"activity_metrics"`
		CreatedAt       time.Time       `json:"created_at"`
	}

	TrustScoreResponse struct {
		UserID          string          `json:"user_id"`
		TrustScore      int             `json:"trust_score"`
		ActivityMetrics ActivityMetrics `json:"activity_metrics"`
	}
)
