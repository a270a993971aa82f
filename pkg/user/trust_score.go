package user

import (
	"math"

	"foodsafety-backend/entities"
)

const (
	trustBaseScore        = 50.0
	trustVerificationBand = 20.0
	trustHelpfulPerVote   = 0.5
	trustHelpfulCap       = 15.0
	trustActionBand       = 15.0
	trustMaxScore         = 100
)

// CalculateTrustScore derives a 0..100 reputation score from the raw
// activity counters. It never reads the previously stored score, so repeated
// calls with the same counters always return the same value.
func CalculateTrustScore(m entities.ActivityMetrics) int {
	score := trustBaseScore

	if m.ReportsSubmitted > 0 {
		score += float64(m.ReportsVerified) / float64(m.ReportsSubmitted) * trustVerificationBand
	}

	score += math.Min(float64(m.HelpfulVotesReceived)*trustHelpfulPerVote, trustHelpfulCap)

	// violations that led to action
	if m.ViolationsReported > 0 {
		score += float64(m.ReportsVerified) / float64(m.ViolationsReported) * trustActionBand
	}

	rounded := int(math.Round(score))
	if rounded > trustMaxScore {
		return trustMaxScore
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}
