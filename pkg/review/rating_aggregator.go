package review

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
)

type Ratings struct {
	Hygiene int
	Safety  int
	Quality int
}

// Fold adds one review's ratings to a running mean. ReportedIssues is the
// number of samples already in the mean. No rounding is applied.
func Fold(m entities.QualityMetrics, r Ratings) entities.QualityMetrics {
	n := float64(m.ReportedIssues)
	m.HygieneRating = (m.HygieneRating*n + float64(r.Hygiene)) / (n + 1)
	m.SafetyRating = (m.SafetyRating*n + float64(r.Safety)) / (n + 1)
	m.QualityRating = (m.QualityRating*n + float64(r.Quality)) / (n + 1)
	m.ReportedIssues++
	return m
}

// Replay rebuilds the running means from scratch. ResolvedIssues is not
// derived from ratings and is carried over unchanged.
func Replay(resolved int, log []Ratings) entities.QualityMetrics {
	m := entities.QualityMetrics{ResolvedIssues: resolved}
	for _, r := range log {
		m = Fold(m, r)
	}
	return m
}

// HasCriticalFinding reports whether a review must put its product under
// investigation.
func HasCriticalFinding(r *entities.Review) bool {
	if r.Observations.StorageConditions == domain.SeverityCritical ||
		r.Observations.HandlingPractices == domain.SeverityCritical {
		return true
	}
	for _, issue := range r.HygieneIssues {
		if issue.Severity == domain.SeverityCritical {
			return true
		}
	}
	return false
}
