package fssai

import (
	"context"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"

	"gorm.io/gorm"
)

type (
	FSSAIRepository interface {
		CreateRegistration(ctx context.Context, registration *entities.FSSAIRegistration) error
		GetRegistrationByID(ctx context.Context, id string) (*entities.FSSAIRegistration, error)
		GetRegistrationsByEmail(ctx context.Context, email string) ([]*entities.FSSAIRegistration, error)
		GetRegistrations(ctx context.Context, fssaiNumber string) ([]*entities.FSSAIRegistration, error)
		FindByNumber(ctx context.Context, fssaiNumber string) (*entities.FSSAIRegistration, error)
		FindByNumberFold(ctx context.Context, fssaiNumber string) ([]*entities.FSSAIRegistration, error)
		UpdateVerified(ctx context.Context, id string, verified bool) error
		UpdateStatus(ctx context.Context, id string, from string, to string) error
		AttachNumber(ctx context.Context, id string, fssaiNumber string) error
	}

	fssaiRepository struct {
		db *gorm.DB
	}
)

func NewFSSAIRepository(db *gorm.DB) FSSAIRepository {
	return &fssaiRepository{db: db}
}

func (r *fssaiRepository) CreateRegistration(ctx context.Context, registration *entities.FSSAIRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *fssaiRepository) GetRegistrationByID(ctx context.Context, id string) (*entities.FSSAIRegistration, error) {
	var registration entities.FSSAIRegistration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *fssaiRepository) GetRegistrationsByEmail(ctx context.Context, email string) ([]*entities.FSSAIRegistration, error) {
	var registrations []*entities.FSSAIRegistration
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("registration_date desc").
		Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *fssaiRepository) GetRegistrations(ctx context.Context, fssaiNumber string) ([]*entities.FSSAIRegistration, error) {
	var registrations []*entities.FSSAIRegistration

	query := r.db.WithContext(ctx)
	if fssaiNumber != "" {
		query = query.Where("fssai_number = ?", fssaiNumber)
	}

	if err := query.Order("registration_date desc").Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *fssaiRepository) FindByNumber(ctx context.Context, fssaiNumber string) (*entities.FSSAIRegistration, error) {
	var registration entities.FSSAIRegistration
	if err := r.db.WithContext(ctx).Where("fssai_number = ?", fssaiNumber).First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// FindByNumberFold matches the whole number ignoring case.
func (r *fssaiRepository) FindByNumberFold(ctx context.Context, fssaiNumber string) ([]*entities.FSSAIRegistration, error) {
	var registrations []*entities.FSSAIRegistration
	if err := r.db.WithContext(ctx).
		Where("LOWER(fssai_number) = LOWER(?)", fssaiNumber).
		Order("registration_date desc").
		Find(&registrations).Error; err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *fssaiRepository) UpdateVerified(ctx context.Context, id string, verified bool) error {
	res := r.db.WithContext(ctx).Model(&entities.FSSAIRegistration{}).
		Where("id = ?", id).
		Update("verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *fssaiRepository) UpdateStatus(ctx context.Context, id string, from string, to string) error {
	res := r.db.WithContext(ctx).Model(&entities.FSSAIRegistration{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AttachNumber sets the number and marks the registration verified, but only
// while it is Approved. A number held by another registration fails with
// gorm.ErrDuplicatedKey.
func (r *fssaiRepository) AttachNumber(ctx context.Context, id string, fssaiNumber string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&entities.FSSAIRegistration{}).
			Where("fssai_number = ? AND id <> ?", fssaiNumber, id).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return gorm.ErrDuplicatedKey
		}

		res := tx.Model(&entities.FSSAIRegistration{}).
			Where("id = ? AND status = ?", id, domain.FSSAIStatusApproved).
			Updates(map[string]interface{}{
				"fssai_number": fssaiNumber,
				"verified":     true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
