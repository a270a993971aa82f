package incident

import (
	"context"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"

	"gorm.io/gorm"
)

type (
	IncidentFilter struct {
		Status   string
		Priority string
		Category string
		Page     int
		Limit    int
	}

	IncidentRepository interface {
		CreateIncident(ctx context.Context, incident *entities.Incident) error
		GetIncidentByID(ctx context.Context, id string) (*entities.Incident, error)
		GetIncidents(ctx context.Context, filter IncidentFilter) ([]*entities.Incident, int64, error)
		GetRecentIncidents(ctx context.Context, limit int) ([]*entities.Incident, error)
		UpdateIncident(ctx context.Context, incident *entities.Incident) error
		UpdateStatus(ctx context.Context, id string, status string) error
		GetOverallStats(ctx context.Context) (domain.IncidentOverallStats, error)
		CountByCategory(ctx context.Context) ([]domain.CategoryCount, error)
	}

	incidentRepository struct {
		db *gorm.DB
	}
)

func NewIncidentRepository(db *gorm.DB) IncidentRepository {
	return &incidentRepository{db: db}
}

func (r *incidentRepository) CreateIncident(ctx context.Context, incident *entities.Incident) error {
	return r.db.WithContext(ctx).Omit("Reporter", "Assignee").Create(incident).Error
}

func (r *incidentRepository) GetIncidentByID(ctx context.Context, id string) (*entities.Incident, error) {
	var incident entities.Incident
	if err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Assignee").
		Where("id = ?", id).
		First(&incident).Error; err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepository) GetIncidents(ctx context.Context, filter IncidentFilter) ([]*entities.Incident, int64, error) {
	var incidents []*entities.Incident
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Incident{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Reporter").
		Preload("Assignee").
		Order("created_at desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&incidents).Error; err != nil {
		return nil, 0, err
	}

	return incidents, count, nil
}

func (r *incidentRepository) GetRecentIncidents(ctx context.Context, limit int) ([]*entities.Incident, error) {
	var incidents []*entities.Incident
	if err := r.db.WithContext(ctx).
		Preload("Reporter").
		Order("created_at desc").
		Limit(limit).
		Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *incidentRepository) UpdateIncident(ctx context.Context, incident *entities.Incident) error {
	return r.db.WithContext(ctx).Omit("Reporter", "Assignee").Save(incident).Error
}

// UpdateStatus sets the incident status. gorm.ErrRecordNotFound means no row
// matched the id.
func (r *incidentRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *incidentRepository) GetOverallStats(ctx context.Context) (domain.IncidentOverallStats, error) {
	var stats domain.IncidentOverallStats
	err := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS resolved, "+
				"COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS high_priority",
			domain.IncidentStatusResolved, domain.PriorityHigh,
		).
		Scan(&stats).Error
	return stats, err
}

func (r *incidentRepository) CountByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	var counts []domain.CategoryCount
	if err := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count desc").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
