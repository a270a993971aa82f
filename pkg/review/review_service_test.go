package review_test

import (
	"context"
	"errors"
	"testing"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/testutil"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/pkg/review"
	"foodsafety-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failingUserRepository wraps the real repository and fails every counter
// increment.
type failingUserRepository struct {
	user.UserRepository
	mock.Mock
}

func (m *failingUserRepository) IncrementActivity(ctx context.Context, id string, column string, delta int) error {
	args := m.Called(id, column, delta)
	return args.Error(0)
}

type fixture struct {
	db      *gorm.DB
	service review.ReviewService
	product *entities.Product
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewTestDB(t)
	svc := review.NewReviewService(review.NewReviewRepository(db), user.NewUserRepository(db), logger.NewNop())
	p := testutil.SeedProduct(t, db, "Masala Oats", "60000000000001")
	return fixture{db: db, service: svc, product: p}
}

func reviewRequest(productID uuid.UUID, hygiene, safety, quality int) domain.CreateReviewRequest {
	return domain.CreateReviewRequest{
		ProductID: productID.String(),
		Ratings:   domain.RatingsRequest{Hygiene: hygiene, Safety: safety, Quality: quality},
		Title:     "Store visit",
		Content:   "Checked the shelf and storage area.",
	}
}

func TestCreateReview_FoldsRunningMean(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	ratings := [][3]int{{5, 2, 1}, {3, 4, 5}, {4, 3, 3}}

	// Act
	var last domain.CreateReviewResponse
	for i, r := range ratings {
		u := testutil.SeedUser(t, f.db, "reviewer"+string(rune('a'+i)), domain.RoleConsumer)
		res, err := f.service.CreateReview(ctx, u.ID.String(), reviewRequest(f.product.ID, r[0], r[1], r[2]))
		require.NoError(t, err)
		last = res
	}

	// Assert
	assert.InDelta(t, 4.0, last.QualityMetrics.HygieneRating, 1e-9)
	assert.InDelta(t, 3.0, last.QualityMetrics.SafetyRating, 1e-9)
	assert.InDelta(t, 3.0, last.QualityMetrics.QualityRating, 1e-9)
	assert.Equal(t, 3, last.QualityMetrics.ReportedIssues)
	assert.Equal(t, domain.ProductStatusActive, last.ProductStatus)

	var stored entities.Product
	require.NoError(t, f.db.First(&stored, "id = ?", f.product.ID).Error)
	assert.InDelta(t, 4.0, stored.QualityMetrics.HygieneRating, 1e-9)
	assert.Equal(t, 3, stored.QualityMetrics.ReportedIssues)
}

func TestCreateReview_DuplicateLeavesMetricsUntouched(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "repeat", domain.RoleConsumer)
	_, err := f.service.CreateReview(ctx, u.ID.String(), reviewRequest(f.product.ID, 5, 5, 5))
	require.NoError(t, err)

	// Act
	_, err = f.service.CreateReview(ctx, u.ID.String(), reviewRequest(f.product.ID, 1, 1, 1))

	// Assert
	assert.ErrorIs(t, err, domain.ErrReviewAlreadyExists)

	var stored entities.Product
	require.NoError(t, f.db.First(&stored, "id = ?", f.product.ID).Error)
	assert.InDelta(t, 5.0, stored.QualityMetrics.HygieneRating, 1e-9)
	assert.Equal(t, 1, stored.QualityMetrics.ReportedIssues)

	var count int64
	require.NoError(t, f.db.Model(&entities.Review{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateReview_CriticalHygieneIssueEscalates(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "inspector", domain.RoleFoodInspector)

	req := reviewRequest(f.product.ID, 1, 2, 2)
	req.HygieneIssues = []domain.HygieneIssue{{Type: "pest-control", Severity: domain.SeverityCritical}}

	res, err := f.service.CreateReview(context.Background(), u.ID.String(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusUnderInvestigation, res.ProductStatus)
}

func TestCreateReview_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "lost", domain.RoleConsumer)

	_, err := f.service.CreateReview(context.Background(), u.ID.String(), reviewRequest(uuid.New(), 3, 3, 3))

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateReview_IncrementsAuthorCounters(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "watchdog", domain.RoleConsumer)

	req := reviewRequest(f.product.ID, 2, 2, 2)
	req.ComplianceViolations = []domain.ComplianceViolation{{Type: "improper-labeling"}}

	_, err := f.service.CreateReview(context.Background(), u.ID.String(), req)
	require.NoError(t, err)

	var stored entities.User
	require.NoError(t, f.db.First(&stored, "id = ?", u.ID).Error)
	assert.Equal(t, 1, stored.ActivityMetrics.ReportsSubmitted)
	assert.Equal(t, 1, stored.ActivityMetrics.ViolationsReported)
}

func TestCreateReview_CounterFailureDoesNotFailRequest(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	p := testutil.SeedProduct(t, db, "Tea", "60000000000002")
	u := testutil.SeedUser(t, db, "author", domain.RoleConsumer)

	users := &failingUserRepository{UserRepository: user.NewUserRepository(db)}
	users.On("IncrementActivity", u.ID.String(), user.ActivityReportsSubmitted, 1).Return(errors.New("connection reset"))
	svc := review.NewReviewService(review.NewReviewRepository(db), users, logger.NewNop())

	// Act
	res, err := svc.CreateReview(context.Background(), u.ID.String(), reviewRequest(p.ID, 4, 4, 4))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, res.QualityMetrics.ReportedIssues)
	users.AssertExpectations(t)
}

func TestVoteHelpful(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, f.db, "author", domain.RoleConsumer)
	voter := testutil.SeedUser(t, f.db, "voter", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 4, 4, 4))
	require.NoError(t, err)

	_, err = f.service.VoteHelpful(ctx, created.Review.ID, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfHelpfulVote)

	res, err := f.service.VoteHelpful(ctx, created.Review.ID, voter.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, res.HelpfulCount)

	var stored entities.User
	require.NoError(t, f.db.First(&stored, "id = ?", author.ID).Error)
	assert.Equal(t, 1, stored.ActivityMetrics.HelpfulVotesReceived)
}

func TestVoteHelpful_OncePerVoter(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, f.db, "author", domain.RoleConsumer)
	voter := testutil.SeedUser(t, f.db, "voter", domain.RoleConsumer)
	other := testutil.SeedUser(t, f.db, "other", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 4, 4, 4))
	require.NoError(t, err)

	// Act
	_, err = f.service.VoteHelpful(ctx, created.Review.ID, voter.ID.String())
	require.NoError(t, err)
	_, repeatErr := f.service.VoteHelpful(ctx, created.Review.ID, voter.ID.String())
	res, err := f.service.VoteHelpful(ctx, created.Review.ID, other.ID.String())

	// Assert
	assert.ErrorIs(t, repeatErr, domain.ErrAlreadyVotedHelpful)
	require.NoError(t, err)
	assert.Equal(t, 2, res.HelpfulCount)

	var stored entities.User
	require.NoError(t, f.db.First(&stored, "id = ?", author.ID).Error)
	assert.Equal(t, 2, stored.ActivityMetrics.HelpfulVotesReceived)

	var review entities.Review
	require.NoError(t, f.db.First(&review, "id = ?", created.Review.ID).Error)
	assert.Equal(t, 2, review.HelpfulCount)
	assert.ElementsMatch(t, []string{voter.ID.String(), other.ID.String()}, []string(review.HelpfulVoters))
}

func TestReportReview_DisputedAfterThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, f.db, "author", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 1, 1, 1))
	require.NoError(t, err)

	var res domain.ReviewResponse
	for i := 0; i < domain.ReportFlagDisputeThreshold; i++ {
		res, err = f.service.ReportReview(ctx, created.Review.ID, domain.ReportReviewRequest{Flag: "spam"})
		require.NoError(t, err)
		if i < domain.ReportFlagDisputeThreshold-1 {
			assert.Equal(t, domain.VerificationPending, res.VerificationStatus)
		}
	}

	assert.Equal(t, domain.VerificationDisputed, res.VerificationStatus)
	assert.Len(t, res.ReportFlags, domain.ReportFlagDisputeThreshold)
}

func TestVerifyReview_CountsOnlyFirstVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, f.db, "author", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 3, 3, 3))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := f.service.VerifyReview(ctx, created.Review.ID, domain.VerifyReviewRequest{Status: domain.VerificationVerified})
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationVerified, res.VerificationStatus)
	}

	var stored entities.User
	require.NoError(t, f.db.First(&stored, "id = ?", author.ID).Error)
	assert.Equal(t, 1, stored.ActivityMetrics.ReportsVerified)
}

func TestVerifyReview_TogglingCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, f.db, "author", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 3, 3, 3))
	require.NoError(t, err)

	steps := []string{
		domain.VerificationVerified,
		domain.VerificationPending,
		domain.VerificationVerified,
		domain.VerificationDisputed,
		domain.VerificationVerified,
	}
	for _, status := range steps {
		res, err := f.service.VerifyReview(ctx, created.Review.ID, domain.VerifyReviewRequest{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, res.VerificationStatus)
	}

	var stored entities.User
	require.NoError(t, f.db.First(&stored, "id = ?", author.ID).Error)
	assert.Equal(t, 1, stored.ActivityMetrics.ReportsVerified)
}

func TestUpdateAndDeleteReview_DoNotTouchAggregate(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedUser(t, f.db, "author", domain.RoleConsumer)
	other := testutil.SeedUser(t, f.db, "other", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 2, 2, 2))
	require.NoError(t, err)

	// Act
	_, err = f.service.UpdateReview(ctx, created.Review.ID, other.ID.String(), domain.UpdateReviewRequest{Title: "hijack"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedReview)

	updated, err := f.service.UpdateReview(ctx, created.Review.ID, author.ID.String(), domain.UpdateReviewRequest{Title: "Revisited"})
	require.NoError(t, err)
	assert.Equal(t, "Revisited", updated.Title)

	require.NoError(t, f.service.DeleteReview(ctx, created.Review.ID, author.ID.String(), domain.RoleConsumer))

	// Assert
	var stored entities.Product
	require.NoError(t, f.db.First(&stored, "id = ?", f.product.ID).Error)
	assert.Equal(t, 1, stored.QualityMetrics.ReportedIssues)
	assert.InDelta(t, 2.0, stored.QualityMetrics.HygieneRating, 1e-9)

	_, err = f.service.CreateReview(ctx, author.ID.String(), reviewRequest(f.product.ID, 4, 4, 4))
	assert.NoError(t, err)
}

func TestRecomputeQualityMetrics_ReplaysCurrentReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, f.db, "a", domain.RoleConsumer)
	b := testutil.SeedUser(t, f.db, "b", domain.RoleConsumer)

	first, err := f.service.CreateReview(ctx, a.ID.String(), reviewRequest(f.product.ID, 1, 1, 1))
	require.NoError(t, err)
	_, err = f.service.CreateReview(ctx, b.ID.String(), reviewRequest(f.product.ID, 5, 5, 5))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteReview(ctx, first.Review.ID, a.ID.String(), domain.RoleConsumer))

	m, err := f.service.RecomputeQualityMetrics(ctx, f.product.ID.String())

	require.NoError(t, err)
	assert.InDelta(t, 5.0, m.HygieneRating, 1e-9)
	assert.Equal(t, 1, m.ReportedIssues)
}

func TestUpdateOutcome_ResolvedCountsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, f.db, "a", domain.RoleConsumer)
	created, err := f.service.CreateReview(ctx, a.ID.String(), reviewRequest(f.product.ID, 2, 2, 2))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := f.service.UpdateOutcome(ctx, created.Review.ID, domain.UpdateOutcomeRequest{Status: "resolved", ActionTaken: "Notice issued"})
		require.NoError(t, err)
		assert.NotNil(t, res.ReportOutcome.ResolutionDate)
	}

	var stored entities.Product
	require.NoError(t, f.db.First(&stored, "id = ?", f.product.ID).Error)
	assert.Equal(t, 1, stored.QualityMetrics.ResolvedIssues)
}
