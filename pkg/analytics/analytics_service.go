package analytics

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"foodsafety-backend/domain"
	"foodsafety-backend/internal/utils/cache"
	"foodsafety-backend/internal/utils/logger"
)

const dashboardCacheKey = "analytics:dashboard"

type (
	AnalyticsService interface {
		GetDashboard(ctx context.Context) (domain.DashboardResponse, error)
		GetTrends(ctx context.Context) ([]domain.TrendPoint, error)
	}

	analyticsService struct {
		analyticsRepository AnalyticsRepository
		cache               cache.Cache
		ttl                 time.Duration
		log                 *logger.Logger
		now                 func() time.Time
	}
)

// NewAnalyticsService builds the read-only rollup service. A nil cache or a
// zero ttl disables dashboard caching.
func NewAnalyticsService(analyticsRepository AnalyticsRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		analyticsRepository: analyticsRepository,
		cache:               c,
		ttl:                 ttl,
		log:                 log.With("service", "AnalyticsService"),
		now:                 time.Now,
	}
}

func (s *analyticsService) GetDashboard(ctx context.Context) (domain.DashboardResponse, error) {
	if cached, ok := s.cachedDashboard(ctx); ok {
		return cached, nil
	}

	stats, err := s.analyticsRepository.GetIncidentSummary(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	byCategory, err := s.analyticsRepository.GetTotalsByCategory(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	byPriority, err := s.analyticsRepository.CountByPriority(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	byCompany, err := s.analyticsRepository.GetTotalsByCompany(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	res := domain.DashboardResponse{
		Stats:               stats,
		CategoryPerformance: make([]domain.CategoryPerformance, 0, len(byCategory)),
		IssueDistribution:   append([]domain.PriorityCount{}, byPriority...),
		TopPerformers:       TopPerformers(byCompany, domain.TopPerformersMax),
	}
	for _, c := range byCategory {
		res.CategoryPerformance = append(res.CategoryPerformance, domain.CategoryPerformance{
			Category:    c.GroupKey,
			Total:       c.Total,
			Resolved:    c.Resolved,
			Performance: percentage(c.Resolved, c.Total),
		})
	}

	s.storeDashboard(ctx, res)
	return res, nil
}

// GetTrends returns per-day incident counts over the trailing window. Days
// without incidents are omitted.
func (s *analyticsService) GetTrends(ctx context.Context) ([]domain.TrendPoint, error) {
	since := s.now().AddDate(0, 0, -domain.TrendWindowDays)

	stamps, err := s.analyticsRepository.GetIncidentTimestampsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return BucketByDay(stamps), nil
}

// TopPerformers ranks companies by resolution rate, breaking ties by volume
// and then by name.
func TopPerformers(rows []GroupTotals, max int) []domain.CompanyPerformance {
	out := make([]domain.CompanyPerformance, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.CompanyPerformance{
			Company:        r.GroupKey,
			Total:          r.Total,
			Resolved:       r.Resolved,
			ResolutionRate: percentage(r.Resolved, r.Total),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ResolutionRate != out[j].ResolutionRate {
			return out[i].ResolutionRate > out[j].ResolutionRate
		}
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Company < out[j].Company
	})

	if len(out) > max {
		out = out[:max]
	}
	return out
}

// BucketByDay counts timestamps per UTC calendar day in ascending order.
func BucketByDay(stamps []time.Time) []domain.TrendPoint {
	counts := make(map[string]int64)
	for _, t := range stamps {
		counts[t.UTC().Format("2006-01-02")]++
	}

	points := make([]domain.TrendPoint, 0, len(counts))
	for day, n := range counts {
		points = append(points, domain.TrendPoint{Date: day, Count: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func (s *analyticsService) cachedDashboard(ctx context.Context) (domain.DashboardResponse, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return domain.DashboardResponse{}, false
	}

	raw, ok, err := s.cache.Get(ctx, dashboardCacheKey)
	if err != nil {
		s.log.Warn("dashboard cache read failed", "error", err)
		return domain.DashboardResponse{}, false
	}
	if !ok {
		return domain.DashboardResponse{}, false
	}

	var res domain.DashboardResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		s.log.Warn("dashboard cache entry unreadable", "error", err)
		return domain.DashboardResponse{}, false
	}
	return res, true
}

func (s *analyticsService) storeDashboard(ctx context.Context, res domain.DashboardResponse) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(res)
	if err != nil {
		s.log.Warn("dashboard cache encode failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.ttl); err != nil {
		s.log.Warn("dashboard cache write failed", "error", err)
	}
}
