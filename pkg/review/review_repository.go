package review

import (
	"context"
	"slices"
	"time"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ReviewRepository interface {
		CreateReviewWithMetrics(ctx context.Context, review *entities.Review, escalate bool) (*entities.Product, error)
		ReplayQualityMetrics(ctx context.Context, productID string) (*entities.Product, error)
		GetReviewByID(ctx context.Context, id string) (*entities.Review, error)
		GetReviewsByProduct(ctx context.Context, productID string, sort string, page, limit int) ([]*entities.Review, int64, error)
		GetReviewsByUser(ctx context.Context, userID string) ([]*entities.Review, error)
		UpdateReview(ctx context.Context, review *entities.Review) error
		DeleteReview(ctx context.Context, id string) error
		AddHelpfulVote(ctx context.Context, id string, voterID string) (*entities.Review, error)
		AddReportFlag(ctx context.Context, id string, flag string) (*entities.Review, error)
		UpdateVerification(ctx context.Context, id string, status string) (counted bool, err error)
		UpdateOutcome(ctx context.Context, id string, outcome entities.ReportOutcome) (*entities.Review, error)
	}

	reviewRepository struct {
		db *gorm.DB
	}
)

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// CreateReviewWithMetrics inserts the review and folds its ratings into the
// product's running means in one transaction. The fold is a single UPDATE
// evaluated against the stored row, so concurrent reviews of the same product
// cannot overwrite each other's contribution. A duplicate (product, user)
// pair yields gorm.ErrDuplicatedKey and leaves the product untouched.
func (r *reviewRepository) CreateReviewWithMetrics(ctx context.Context, review *entities.Review, escalate bool) (*entities.Product, error) {
	var product entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", review.ProductID).First(&product).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&entities.Review{}).
			Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return gorm.ErrDuplicatedKey
		}

		if err := tx.Omit(clause.Associations).Create(review).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"quality_hygiene_rating":  gorm.Expr("(quality_hygiene_rating * quality_reported_issues + ?) / (quality_reported_issues + 1)", review.HygieneRating),
			"quality_safety_rating":   gorm.Expr("(quality_safety_rating * quality_reported_issues + ?) / (quality_reported_issues + 1)", review.SafetyRating),
			"quality_quality_rating":  gorm.Expr("(quality_quality_rating * quality_reported_issues + ?) / (quality_reported_issues + 1)", review.QualityRating),
			"quality_reported_issues": gorm.Expr("quality_reported_issues + 1"),
		}
		if escalate {
			updates["status"] = domain.ProductStatusUnderInvestigation
		}

		if err := tx.Model(&entities.Product{}).
			Where("id = ?", review.ProductID).
			Updates(updates).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", review.ProductID).First(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplayQualityMetrics recomputes a product's means from the reviews that
// currently exist, in creation order.
func (r *reviewRepository) ReplayQualityMetrics(ctx context.Context, productID string) (*entities.Product, error) {
	var product entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", productID).
			First(&product).Error; err != nil {
			return err
		}

		var rows []struct {
			HygieneRating int
			SafetyRating  int
			QualityRating int
		}
		if err := tx.Model(&entities.Review{}).
			Select("hygiene_rating", "safety_rating", "quality_rating").
			Where("product_id = ?", productID).
			Order("created_at asc").
			Scan(&rows).Error; err != nil {
			return err
		}

		log := make([]Ratings, 0, len(rows))
		for _, row := range rows {
			log = append(log, Ratings{Hygiene: row.HygieneRating, Safety: row.SafetyRating, Quality: row.QualityRating})
		}
		product.QualityMetrics = Replay(product.QualityMetrics.ResolvedIssues, log)

		return tx.Model(&entities.Product{}).
			Where("id = ?", productID).
			Updates(map[string]interface{}{
				"quality_hygiene_rating":  product.QualityMetrics.HygieneRating,
				"quality_safety_rating":   product.QualityMetrics.SafetyRating,
				"quality_quality_rating":  product.QualityMetrics.QualityRating,
				"quality_reported_issues": product.QualityMetrics.ReportedIssues,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *reviewRepository) GetReviewByID(ctx context.Context, id string) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetReviewsByProduct(ctx context.Context, productID string, sort string, page, limit int) ([]*entities.Review, int64, error) {
	var reviews []*entities.Review
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Review{}).Where("product_id = ?", productID)

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at desc"
	if sort == "helpful" {
		order = "helpful_count desc, created_at desc"
	}

	offset := (page - 1) * limit
	if err := query.Preload("User").
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, count, nil
}

func (r *reviewRepository) GetReviewsByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	var reviews []*entities.Review
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) UpdateReview(ctx context.Context, review *entities.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error
}

// DeleteReview removes the row for good so the author may review the
// product again.
func (r *reviewRepository) DeleteReview(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&entities.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddHelpfulVote records voterID against the review and bumps its helpful
// count. A voter already on record yields gorm.ErrDuplicatedKey.
func (r *reviewRepository) AddHelpfulVote(ctx context.Context, id string, voterID string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&review).Error; err != nil {
			return err
		}

		if slices.Contains(review.HelpfulVoters, voterID) {
			return gorm.ErrDuplicatedKey
		}
		review.HelpfulVoters = append(review.HelpfulVoters, voterID)
		review.HelpfulCount++

		return tx.Model(&review).Select("helpful_voters", "helpful_count").Updates(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) AddReportFlag(ctx context.Context, id string, flag string) (*entities.Review, error) {
	var review entities.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&review).Error; err != nil {
			return err
		}

		review.ReportFlags = append(review.ReportFlags, flag)
		if len(review.ReportFlags) >= domain.ReportFlagDisputeThreshold {
			review.VerificationStatus = domain.VerificationDisputed
		}

		return tx.Model(&review).Select("report_flags", "verification_status").Updates(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateVerification sets the verification status. counted is true only the
// first time the review ever becomes verified.
func (r *reviewRepository) UpdateVerification(ctx context.Context, id string, status string) (bool, error) {
	var counted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review entities.Review
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&review).Error; err != nil {
			return err
		}

		review.VerificationStatus = status
		if status == domain.VerificationVerified && !review.VerifiedCounted {
			review.VerifiedCounted = true
			counted = true
		}

		return tx.Model(&review).Select("verification_status", "verified_counted").Updates(&review).Error
	})
	return counted, err
}

// UpdateOutcome stores the authority outcome. The first move into resolved
// counts towards the product's resolved issues.
func (r *reviewRepository) UpdateOutcome(ctx context.Context, id string, outcome entities.ReportOutcome) (*entities.Review, error) {
	var review entities.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&review).Error; err != nil {
			return err
		}

		newlyResolved := outcome.Status == "resolved" && review.ReportOutcome.Status != "resolved"

		if outcome.ResolutionDate == nil && (outcome.Status == "resolved" || outcome.Status == "dismissed") {
			now := time.Now()
			outcome.ResolutionDate = &now
		}
		review.ReportOutcome = outcome

		if err := tx.Model(&review).
			Select("outcome_status", "outcome_action_taken", "outcome_resolution_date", "outcome_authority_response").
			Updates(&review).Error; err != nil {
			return err
		}

		if newlyResolved {
			return tx.Model(&entities.Product{}).
				Where("id = ?", review.ProductID).
				UpdateColumn("quality_resolved_issues", gorm.Expr("quality_resolved_issues + 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
