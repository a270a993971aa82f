package review

import (
	"context"
	"errors"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/metrics"
	"foodsafety-backend/pkg/product"
	"foodsafety-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ReviewService interface {
		CreateReview(ctx context.Context, userID string, req domain.CreateReviewRequest) (domain.CreateReviewResponse, error)
		GetReviewsByProduct(ctx context.Context, productID string, sort string, page, limit int) ([]domain.ReviewResponse, int64, error)
		GetMyReviews(ctx context.Context, userID string) ([]domain.ReviewResponse, error)
		GetReviewByID(ctx context.Context, id string) (domain.ReviewResponse, error)
		UpdateReview(ctx context.Context, id string, userID string, req domain.UpdateReviewRequest) (domain.ReviewResponse, error)
		DeleteReview(ctx context.Context, id string, userID string, role string) error
		VoteHelpful(ctx context.Context, id string, voterID string) (domain.ReviewResponse, error)
		ReportReview(ctx context.Context, id string, req domain.ReportReviewRequest) (domain.ReviewResponse, error)
		VerifyReview(ctx context.Context, id string, req domain.VerifyReviewRequest) (domain.ReviewResponse, error)
		UpdateOutcome(ctx context.Context, id string, req domain.UpdateOutcomeRequest) (domain.ReviewResponse, error)
		RecomputeQualityMetrics(ctx context.Context, productID string) (domain.QualityMetrics, error)
	}

	reviewService struct {
		reviewRepository ReviewRepository
		userRepository   user.UserRepository
		log              *logger.Logger
	}
)

func NewReviewService(reviewRepository ReviewRepository, userRepository user.UserRepository, log *logger.Logger) ReviewService {
	return &reviewService{
		reviewRepository: reviewRepository,
		userRepository:   userRepository,
		log:              log.With("service", "ReviewService"),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID string, req domain.CreateReviewRequest) (domain.CreateReviewResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateReviewResponse{}, domain.ErrParseUUID
	}
	productUUID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return domain.CreateReviewResponse{}, domain.ErrParseUUID
	}

	review := &entities.Review{
		ProductID:     productUUID,
		UserID:        userUUID,
		HygieneRating: req.Ratings.Hygiene,
		SafetyRating:  req.Ratings.Safety,
		QualityRating: req.Ratings.Quality,
		Title:         req.Title,
		Content:       req.Content,
		Observations:  toObservations(req.Observations),

		VerificationStatus: domain.VerificationPending,
		ReportOutcome:      entities.ReportOutcome{Status: "open"},
	}
	for _, i := range req.HygieneIssues {
		review.HygieneIssues = append(review.HygieneIssues, entities.HygieneIssue(i))
	}
	for _, v := range req.ComplianceViolations {
		review.ComplianceViolations = append(review.ComplianceViolations, entities.ComplianceViolation(v))
	}
	for _, q := range req.QualityIssues {
		review.QualityIssues = append(review.QualityIssues, entities.QualityIssue(q))
	}

	escalate := HasCriticalFinding(review)

	p, err := s.reviewRepository.CreateReviewWithMetrics(ctx, review, escalate)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return domain.CreateReviewResponse{}, domain.ErrProductNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return domain.CreateReviewResponse{}, domain.ErrReviewAlreadyExists
		}
		return domain.CreateReviewResponse{}, err
	}

	metrics.ReviewsCreated.Inc()
	if escalate {
		metrics.ProductEscalations.WithLabelValues("review").Inc()
		s.log.Warn("product escalated to under-investigation", "product_id", p.ID, "review_id", review.ID, "trigger", "review")
	}

	s.bumpActivity(ctx, userID, user.ActivityReportsSubmitted, "review_reports_submitted")
	if len(review.ComplianceViolations) > 0 {
		s.bumpActivity(ctx, userID, user.ActivityViolationsReported, "review_violations_reported")
	}

	return domain.CreateReviewResponse{
		Review:         ToReviewResponse(review),
		ProductStatus:  p.Status,
		QualityMetrics: product.ToQualityMetrics(p.QualityMetrics),
	}, nil
}

func (s *reviewService) GetReviewsByProduct(ctx context.Context, productID string, sort string, page, limit int) ([]domain.ReviewResponse, int64, error) {
	reviews, count, err := s.reviewRepository.GetReviewsByProduct(ctx, productID, sort, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toReviewResponses(reviews), count, nil
}

func (s *reviewService) GetMyReviews(ctx context.Context, userID string) ([]domain.ReviewResponse, error) {
	reviews, err := s.reviewRepository.GetReviewsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toReviewResponses(reviews), nil
}

func (s *reviewService) GetReviewByID(ctx context.Context, id string) (domain.ReviewResponse, error) {
	review, err := s.getReview(ctx, id)
	if err != nil {
		return domain.ReviewResponse{}, err
	}
	return ToReviewResponse(review), nil
}

// UpdateReview edits descriptive fields only. The product aggregate keeps
// the ratings folded in at creation.
func (s *reviewService) UpdateReview(ctx context.Context, id string, userID string, req domain.UpdateReviewRequest) (domain.ReviewResponse, error) {
	review, err := s.getReview(ctx, id)
	if err != nil {
		return domain.ReviewResponse{}, err
	}

	if review.UserID.String() != userID {
		return domain.ReviewResponse{}, domain.ErrUnauthorizedReview
	}

	if req.Title != "" {
		review.Title = req.Title
	}
	if req.Content != "" {
		review.Content = req.Content
	}
	if req.Observations != nil {
		review.Observations = toObservations(*req.Observations)
	}

	if err := s.reviewRepository.UpdateReview(ctx, review); err != nil {
		return domain.ReviewResponse{}, err
	}
	return ToReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id string, userID string, role string) error {
	review, err := s.getReview(ctx, id)
	if err != nil {
		return err
	}

	if review.UserID.String() != userID && role != domain.RoleAdmin {
		return domain.ErrUnauthorizedReview
	}

	if err := s.reviewRepository.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) VoteHelpful(ctx context.Context, id string, voterID string) (domain.ReviewResponse, error) {
	review, err := s.getReview(ctx, id)
	if err != nil {
		return domain.ReviewResponse{}, err
	}

	if review.UserID.String() == voterID {
		return domain.ReviewResponse{}, domain.ErrSelfHelpfulVote
	}

	review, err = s.reviewRepository.AddHelpfulVote(ctx, id, voterID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return domain.ReviewResponse{}, domain.ErrReviewNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return domain.ReviewResponse{}, domain.ErrAlreadyVotedHelpful
		}
		return domain.ReviewResponse{}, err
	}

	s.bumpActivity(ctx, review.UserID.String(), user.ActivityHelpfulVotesReceived, "review_helpful_votes")

	return ToReviewResponse(review), nil
}

func (s *reviewService) ReportReview(ctx context.Context, id string, req domain.ReportReviewRequest) (domain.ReviewResponse, error) {
	review, err := s.reviewRepository.AddReportFlag(ctx, id, req.Flag)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReviewResponse{}, domain.ErrReviewNotFound
		}
		return domain.ReviewResponse{}, err
	}
	return ToReviewResponse(review), nil
}

func (s *reviewService) VerifyReview(ctx context.Context, id string, req domain.VerifyReviewRequest) (domain.ReviewResponse, error) {
	counted, err := s.reviewRepository.UpdateVerification(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReviewResponse{}, domain.ErrReviewNotFound
		}
		return domain.ReviewResponse{}, err
	}

	review, err := s.getReview(ctx, id)
	if err != nil {
		return domain.ReviewResponse{}, err
	}

	if counted {
		s.bumpActivity(ctx, review.UserID.String(), user.ActivityReportsVerified, "review_reports_verified")
	}

	return ToReviewResponse(review), nil
}

func (s *reviewService) UpdateOutcome(ctx context.Context, id string, req domain.UpdateOutcomeRequest) (domain.ReviewResponse, error) {
	review, err := s.reviewRepository.UpdateOutcome(ctx, id, entities.ReportOutcome{
		Status:            req.Status,
		ActionTaken:       req.ActionTaken,
		AuthorityResponse: req.AuthorityResponse,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReviewResponse{}, domain.ErrReviewNotFound
		}
		return domain.ReviewResponse{}, err
	}
	return ToReviewResponse(review), nil
}

func (s *reviewService) RecomputeQualityMetrics(ctx context.Context, productID string) (domain.QualityMetrics, error) {
	p, err := s.reviewRepository.ReplayQualityMetrics(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.QualityMetrics{}, domain.ErrProductNotFound
		}
		return domain.QualityMetrics{}, err
	}
	return product.ToQualityMetrics(p.QualityMetrics), nil
}

// bumpActivity runs after the primary write has committed. A failure here is
// logged and counted but does not fail the request.
func (s *reviewService) bumpActivity(ctx context.Context, userID string, column string, operation string) {
	if err := s.userRepository.IncrementActivity(ctx, userID, column, 1); err != nil {
		metrics.DownstreamFailures.WithLabelValues(operation).Inc()
		s.log.Error("activity counter update failed", "user_id", userID, "column", column, "error", err)
	}
}

func (s *reviewService) getReview(ctx context.Context, id string) (*entities.Review, error) {
	review, err := s.reviewRepository.GetReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func toObservations(o domain.ObservationsRequest) entities.FoodSafetyObservations {
	return entities.FoodSafetyObservations{
		StorageConditions:  o.StorageConditions,
		HandlingPractices:  o.HandlingPractices,
		PackagingCondition: o.PackagingCondition,
		Temperature:        o.Temperature,
		Comments:           o.Comments,
	}
}

func toReviewResponses(reviews []*entities.Review) []domain.ReviewResponse {
	response := make([]domain.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		response = append(response, ToReviewResponse(r))
	}
	return response
}

func ToReviewResponse(r *entities.Review) domain.ReviewResponse {
	res := domain.ReviewResponse{
		ID:        r.ID.String(),
		ProductID: r.ProductID.String(),
		UserID:    r.UserID.String(),
		Ratings: domain.RatingsRequest{
			Hygiene: r.HygieneRating,
			Safety:  r.SafetyRating,
			Quality: r.QualityRating,
		},
		OverallRating: float64(r.HygieneRating+r.SafetyRating+r.QualityRating) / 3,
		Title:         r.Title,
		Content:       r.Content,
		Observations: domain.ObservationsRequest{
			StorageConditions:  r.Observations.StorageConditions,
			HandlingPractices:  r.Observations.HandlingPractices,
			PackagingCondition: r.Observations.PackagingCondition,
			Temperature:        r.Observations.Temperature,
			Comments:           r.Observations.Comments,
		},
		HygieneIssues:        make([]domain.HygieneIssue, 0, len(r.HygieneIssues)),
		ComplianceViolations: make([]domain.ComplianceViolation, 0, len(r.ComplianceViolations)),
		QualityIssues:        make([]domain.QualityIssue, 0, len(r.QualityIssues)),
		VerificationStatus:   r.VerificationStatus,
		ReportOutcome: domain.ReportOutcome{
			Status:            r.ReportOutcome.Status,
			ActionTaken:       r.ReportOutcome.ActionTaken,
			ResolutionDate:    r.ReportOutcome.ResolutionDate,
			AuthorityResponse: r.ReportOutcome.AuthorityResponse,
		},
		HelpfulCount: r.HelpfulCount,
		ReportFlags:  append([]string{}, r.ReportFlags...),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.User != nil {
		res.Username = r.User.Username
	}
	for _, i := range r.HygieneIssues {
		res.HygieneIssues = append(res.HygieneIssues, domain.HygieneIssue(i))
	}
	for _, v := range r.ComplianceViolations {
		res.ComplianceViolations = append(res.ComplianceViolations, domain.ComplianceViolation(v))
	}
	for _, q := range r.QualityIssues {
		res.QualityIssues = append(res.QualityIssues, domain.QualityIssue(q))
	}
	return res
}
