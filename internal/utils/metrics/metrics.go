package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodsafety_reviews_created_total",
		Help: "Reviews folded into product quality metrics",
	})

	ProductEscalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsafety_product_escalations_total",
		Help: "Products moved to under-investigation, by trigger",
	}, []string{"trigger"})

	ComplaintsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsafety_complaints_submitted_total",
		Help: "Complaints submitted, by category",
	}, []string{"category"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsafety_status_transitions_total",
		Help: "Workflow status changes, by entity, target status and outcome",
	}, []string{"entity", "to", "outcome"})

	TrustRecomputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodsafety_trust_recomputations_total",
		Help: "Trust score recomputations persisted",
	})

	DownstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsafety_downstream_failures_total",
		Help: "Secondary writes that failed after the primary entity was persisted",
	}, []string{"operation"})
)
