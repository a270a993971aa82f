package user_test

import (
	"context"
	"errors"
	"testing"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/testutil"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/pkg/jwt"
	"foodsafety-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newService(repo user.UserRepository) user.UserService {
	return user.NewUserService(repo, jwt.NewJWTService("test-secret"), logger.NewNop())
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	// Arrange
	repo := new(MockUserRepository)
	svc := newService(repo)

	// Act
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "root",
		Email:    "root@example.com",
		Password: "secret123",
		Company:  "FSSAI",
		Role:     domain.RoleAdmin,
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrRoleNotSelfAssigned)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", mock.Anything, "dup@example.com").Return(&entities.User{}, nil)
	svc := newService(repo)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "dup",
		Email:    "Dup@Example.com",
		Password: "secret123",
		Company:  "Dup Foods",
	})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	repo.AssertExpectations(t)
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	// Arrange
	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", mock.Anything, "asha@example.com").Return(nil, gorm.ErrRecordNotFound)
	repo.On("GetUserByUsername", mock.Anything, "asha").Return(nil, gorm.ErrRecordNotFound)

	var created *entities.User
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*entities.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entities.User) }).
		Return(nil)
	svc := newService(repo)

	// Act
	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Company:  "Asha Foods",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.RoleConsumer, res.Role)
	assert.Equal(t, 50, res.ActivityMetrics.TrustScore)
	require.NotNil(t, created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", mock.Anything, "asha@example.com").
		Return(&entities.User{ID: uuid.New(), Email: "asha@example.com", Password: string(hashed)}, nil)
	svc := newService(repo)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Email: "asha@example.com", Password: "wrong-password"})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_IssuesToken(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	id := uuid.New()
	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", mock.Anything, "asha@example.com").
		Return(&entities.User{ID: id, Email: "asha@example.com", Password: string(hashed), Role: domain.RoleFoodInspector}, nil)
	jwtService := jwt.NewJWTService("test-secret")
	svc := user.NewUserService(repo, jwtService, logger.NewNop())

	res, err := svc.Login(context.Background(), domain.LoginRequest{Email: "asha@example.com", Password: "right-password"})

	require.NoError(t, err)
	userID, role, err := jwtService.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), userID)
	assert.Equal(t, domain.RoleFoodInspector, role)
}

func TestRecomputeTrustScore_PersistsDerivedScore(t *testing.T) {
	// Arrange
	id := uuid.New()
	repo := new(MockUserRepository)
	repo.On("GetUserByID", mock.Anything, id.String()).Return(&entities.User{
		ID: id,
		ActivityMetrics: entities.ActivityMetrics{
			ReportsSubmitted:     10,
			ReportsVerified:      5,
			ViolationsReported:   4,
			HelpfulVotesReceived: 10,
			TrustScore:           12,
		},
	}, nil)
	repo.On("UpdateTrustScore", mock.Anything, id.String(), 84).Return(nil)
	svc := newService(repo)

	// Act
	res, err := svc.RecomputeTrustScore(context.Background(), id.String())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 84, res.TrustScore)
	repo.AssertExpectations(t)
}

func TestRecomputeTrustScore_UnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUserByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)
	svc := newService(repo)

	_, err := svc.RecomputeTrustScore(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecomputeAllTrustScores_ContinuesPastFailures(t *testing.T) {
	ok := uuid.New()
	repo := new(MockUserRepository)
	repo.On("ListUserIDs", mock.Anything).Return([]string{"broken", ok.String()}, nil)
	repo.On("GetUserByID", mock.Anything, "broken").Return(nil, errors.New("connection reset"))
	repo.On("GetUserByID", mock.Anything, ok.String()).Return(&entities.User{ID: ok}, nil)
	repo.On("UpdateTrustScore", mock.Anything, ok.String(), 50).Return(nil)
	svc := newService(repo)

	updated, err := svc.RecomputeAllTrustScores(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestUserRepository_IncrementActivity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := user.NewUserRepository(db)
	u := testutil.SeedUser(t, db, "inspector", domain.RoleFoodInspector)
	ctx := context.Background()

	require.NoError(t, repo.IncrementActivity(ctx, u.ID.String(), user.ActivityReportsSubmitted, 1))
	require.NoError(t, repo.IncrementActivity(ctx, u.ID.String(), user.ActivityReportsSubmitted, 1))

	got, err := repo.GetUserByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, got.ActivityMetrics.ReportsSubmitted)

	assert.Error(t, repo.IncrementActivity(ctx, u.ID.String(), "password", 1))
	assert.ErrorIs(t, repo.IncrementActivity(ctx, uuid.NewString(), user.ActivityReportsVerified, 1), gorm.ErrRecordNotFound)
}
