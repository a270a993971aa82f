package user

import (
	"context"
	"fmt"

	"foodsafety-backend/entities"

	"gorm.io/gorm"
)

// Activity counter columns that may be incremented.
const (
	ActivityReportsSubmitted     = "activity_reports_submitted"
	ActivityReportsVerified      = "activity_reports_verified"
	ActivityViolationsReported   = "activity_violations_reported"
	ActivityHelpfulVotesReceived = "activity_helpful_votes_received"
)

var activityColumns = map[string]bool{
	ActivityReportsSubmitted:     true,
	ActivityReportsVerified:      true,
	ActivityViolationsReported:   true,
	ActivityHelpfulVotesReceived: true,
}

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		UpdateTrustScore(ctx context.Context, id string, score int) error
		IncrementActivity(ctx context.Context, id string, column string, delta int) error
		ListUserIDs(ctx context.Context) ([]string, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateTrustScore(ctx context.Context, id string, score int) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", id).
		UpdateColumn("activity_trust_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementActivity adds delta to one activity counter in a single UPDATE
// so concurrent increments do not overwrite each other.
func (r *userRepository) IncrementActivity(ctx context.Context, id string, column string, delta int) error {
	if !activityColumns[column] {
		return fmt.Errorf("unknown activity column %q", column)
	}
	res := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&entities.User{}).
		Order("created_at asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
