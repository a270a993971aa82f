package complaint

import (
	"context"

	"foodsafety-backend/entities"

	"gorm.io/gorm"
)

type (
	ComplaintRepository interface {
		CreateComplaintWithIncident(ctx context.Context, complaint *entities.Complaint, incident *entities.Incident) error
		GetComplaintByID(ctx context.Context, id string) (*entities.Complaint, error)
		GetComplaintsByUser(ctx context.Context, userID string) ([]*entities.Complaint, error)
		UpdateStatus(ctx context.Context, id string, from string, to string) error
	}

	complaintRepository struct {
		db *gorm.DB
	}
)

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

// CreateComplaintWithIncident persists the complaint and the incident it
// spawns together. Either both rows exist afterwards or neither does.
func (r *complaintRepository) CreateComplaintWithIncident(ctx context.Context, complaint *entities.Complaint, incident *entities.Incident) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(complaint).Error; err != nil {
			return err
		}
		incident.ComplaintID = &complaint.ID
		return tx.Omit("Reporter", "Assignee").Create(incident).Error
	})
}

func (r *complaintRepository) GetComplaintByID(ctx context.Context, id string) (*entities.Complaint, error) {
	var complaint entities.Complaint
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) GetComplaintsByUser(ctx context.Context, userID string) ([]*entities.Complaint, error) {
	var complaints []*entities.Complaint
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// UpdateStatus is a compare-and-set on the status column.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, from string, to string) error {
	res := r.db.WithContext(ctx).Model(&entities.Complaint{}).
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
