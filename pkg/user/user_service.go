package user

import (
	"context"
	"errors"
	"strings"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/metrics"
	"foodsafety-backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUserByID(ctx context.Context, id string) (domain.UserResponse, error)
		UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		RecomputeTrustScore(ctx context.Context, id string) (domain.TrustScoreResponse, error)
		RecomputeAllTrustScores(ctx context.Context) (int, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		log            *logger.Logger
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, log *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		log:            log.With("service", "UserService"),
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	role := req.Role
	if role == "" {
		role = domain.RoleConsumer
	}
	if role == domain.RoleAdmin {
		return domain.UserResponse{}, domain.ErrRoleNotSelfAssigned
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, domain.ErrHashPassword
	}

	user := &entities.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Company:  strings.TrimSpace(req.Company),
		Status:   "active",
		Profile:  entities.UserProfile{FullName: req.FullName},
		ActivityMetrics: entities.ActivityMetrics{
			TrustScore: CalculateTrustScore(entities.ActivityMetrics{}),
		},
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	return ToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{Token: token, User: ToUserResponse(user)}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if req.Company != "" {
		user.Company = req.Company
	}
	if req.FullName != "" {
		user.Profile.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Profile.Phone = req.Phone
	}
	if req.Designation != "" {
		user.Profile.Designation = req.Designation
	}
	if req.Organization != "" {
		user.Profile.Organization = req.Organization
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

// RecomputeTrustScore derives the score from the stored counters and
// persists it. The previous score is ignored.
func (s *userService) RecomputeTrustScore(ctx context.Context, id string) (domain.TrustScoreResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.TrustScoreResponse{}, err
	}

	score := CalculateTrustScore(user.ActivityMetrics)
	if err := s.userRepository.UpdateTrustScore(ctx, id, score); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TrustScoreResponse{}, domain.ErrUserNotFound
		}
		return domain.TrustScoreResponse{}, err
	}
	metrics.TrustRecomputations.Inc()

	user.ActivityMetrics.TrustScore = score
	return domain.TrustScoreResponse{
		UserID:          user.ID.String(),
		TrustScore:      score,
		ActivityMetrics: toActivityMetrics(user.ActivityMetrics),
	}, nil
}

// RecomputeAllTrustScores walks every user; a failure on one user is logged
// and does not stop the others.
func (s *userService) RecomputeAllTrustScores(ctx context.Context) (int, error) {
	ids, err := s.userRepository.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if _, err := s.RecomputeTrustScore(ctx, id); err != nil {
			s.log.Error("trust score recomputation failed", "user_id", id, "error", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func ToUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:              u.ID.String(),
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		Company:         u.Company,
		Status:          u.Status,
		FullName:        u.Profile.FullName,
		Phone:           u.Profile.Phone,
		Designation:     u.Profile.Designation,
		Organization:    u.Profile.Organization,
		ActivityMetrics: toActivityMetrics(u.ActivityMetrics),
		CreatedAt:       u.CreatedAt,
	}
}

func toActivityMetrics(m entities.ActivityMetrics) domain.ActivityMetrics {
	return domain.ActivityMetrics{
		ReportsSubmitted:     m.ReportsSubmitted,
		ReportsVerified:      m.ReportsVerified,
		ViolationsReported:   m.ViolationsReported,
		HelpfulVotesReceived: m.HelpfulVotesReceived,
		TrustScore:           m.TrustScore,
	}
}
