package analytics

import (
	"context"
	"time"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"

	"gorm.io/gorm"
)

type (
	// GroupTotals is a row of total and resolved incident counts per group key.
	GroupTotals struct {
		GroupKey string
		Total    int64
		Resolved int64
	}

	AnalyticsRepository interface {
		GetIncidentSummary(ctx context.Context) (domain.DashboardStats, error)
		GetTotalsByCategory(ctx context.Context) ([]GroupTotals, error)
		GetTotalsByCompany(ctx context.Context) ([]GroupTotals, error)
		CountByPriority(ctx context.Context) ([]domain.PriorityCount, error)
		GetIncidentTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error)
	}

	analyticsRepository struct {
		db *gorm.DB
	}
)

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetIncidentSummary(ctx context.Context) (domain.DashboardStats, error) {
	var row struct {
		TotalIncidents    int64
		ActiveComplaints  int64
		ResolvedIssues    int64
		AvgResolutionTime *float64
	}
	err := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Select(
			"COUNT(*) AS total_incidents, "+
				"COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0) AS active_complaints, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS resolved_issues, "+
				"AVG(resolution_time) AS avg_resolution_time",
			domain.IncidentStatusOpen, domain.IncidentStatusUnderInvestigation, domain.IncidentStatusResolved,
		).
		Scan(&row).Error
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{
		TotalIncidents:    row.TotalIncidents,
		ActiveComplaints:  row.ActiveComplaints,
		ResolvedIssues:    row.ResolvedIssues,
		AvgResolutionTime: row.AvgResolutionTime,
	}, nil
}

func (r *analyticsRepository) GetTotalsByCategory(ctx context.Context) ([]GroupTotals, error) {
	return r.totalsBy(ctx, "category")
}

func (r *analyticsRepository) GetTotalsByCompany(ctx context.Context) ([]GroupTotals, error) {
	return r.totalsBy(ctx, "company")
}

// totalsBy groups incidents by a fixed column name; column is never user input.
func (r *analyticsRepository) totalsBy(ctx context.Context, column string) ([]GroupTotals, error) {
	var rows []GroupTotals
	err := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Select(
			column+" AS group_key, COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS resolved",
			domain.IncidentStatusResolved,
		).
		Group(column).
		Order(column).
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) CountByPriority(ctx context.Context) ([]domain.PriorityCount, error) {
	var rows []domain.PriorityCount
	err := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Order("priority").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) GetIncidentTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.WithContext(ctx).Model(&entities.Incident{}).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Pluck("created_at", &stamps).Error
	return stamps, err
}
