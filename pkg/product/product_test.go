package product_test

import (
	"context"
	"testing"
	"time"

	"foodsafety-backend/domain"
	"foodsafety-backend/internal/testutil"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/pkg/product"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreateRequest(name, license string) domain.CreateProductRequest {
	return domain.CreateProductRequest{
		Name:         name,
		FSSAILicense: license,
		Category:     "dairy-products",
		Establishment: domain.EstablishmentRequest{
			Name: name + " Dairy",
			Type: "manufacturer",
			Address: domain.AddressRequest{
				City:  "Pune",
				State: "Maharashtra",
			},
		},
		FSSAIExpiryDate: time.Now().AddDate(2, 0, 0).Format("2006-01-02"),
	}
}

func TestCreateProduct_DuplicateLicense(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	svc := product.NewProductService(product.NewProductRepository(db), logger.NewNop())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, newCreateRequest("Amul Taaza", "10012345678901"))
	require.NoError(t, err)

	// Act
	_, err = svc.CreateProduct(ctx, newCreateRequest("Taaza Copy", "10012345678901"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrFSSAILicenseExists)
}

func TestCreateProduct_InvalidExpiry(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := product.NewProductService(product.NewProductRepository(db), logger.NewNop())

	req := newCreateRequest("Paneer", "10012345678902")
	req.FSSAIExpiryDate = "next year"

	_, err := svc.CreateProduct(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidExpiryDate)
}

func TestGetProducts_SearchAndPaginate(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedProduct(t, db, "Masala Chips", "20000000000001")
	testutil.SeedProduct(t, db, "Salted Chips", "20000000000002")
	testutil.SeedProduct(t, db, "Mango Juice", "20000000000003")
	repo := product.NewProductRepository(db)

	products, total, err := repo.GetProducts(context.Background(), domain.ProductQuery{
		Page:   1,
		Limit:  1,
		Search: "CHIPS",
		Sort:   "name",
		Order:  "asc",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Masala Chips", products[0].Name)
}

func TestAddViolation_CriticalOverridesStatus(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	p := testutil.SeedProduct(t, db, "Street Samosa", "30000000000001")
	require.NoError(t, db.Model(p).Update("status", domain.ProductStatusBlacklisted).Error)
	svc := product.NewProductService(product.NewProductRepository(db), logger.NewNop())

	// Act
	res, err := svc.AddViolation(context.Background(), p.ID.String(), domain.AddViolationRequest{
		Date:        "2024-03-01",
		Description: "Rodent activity in storage",
		Severity:    domain.SeverityCritical,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusUnderInvestigation, res.Status)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "pending", res.Violations[0].Status)
}

func TestAddViolation_MinorKeepsStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	p := testutil.SeedProduct(t, db, "Cola", "30000000000002")
	svc := product.NewProductService(product.NewProductRepository(db), logger.NewNop())

	res, err := svc.AddViolation(context.Background(), p.ID.String(), domain.AddViolationRequest{
		Description: "Label font too small",
		Severity:    domain.SeverityLow,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusActive, res.Status)
}

func TestAddViolation_UnknownProduct(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := product.NewProductService(product.NewProductRepository(db), logger.NewNop())

	_, err := svc.AddViolation(context.Background(), uuid.NewString(), domain.AddViolationRequest{
		Description: "n/a",
		Severity:    domain.SeverityLow,
	})

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestVerifyLicense(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedProduct(t, db, "Ghee", "40000000000001")
	svc := product.NewProductService(product.NewProductRepository(db), logger.NewNop())

	res, err := svc.VerifyLicense(context.Background(), "40000000000001")
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "Ghee Pvt Ltd", res.Manufacturer)

	res, err = svc.VerifyLicense(context.Background(), "49999999999999")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.False(t, res.Verified)
}

func TestToProductResponse_DerivedFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	p := testutil.SeedProduct(t, db, "Bread", "50000000000001")
	p.QualityMetrics.HygieneRating = 3
	p.QualityMetrics.SafetyRating = 4
	p.QualityMetrics.QualityRating = 5

	res := product.ToProductResponse(p, time.Now().AddDate(5, 0, 0))

	assert.InDelta(t, 4.0, res.OverallRating, 1e-9)
	assert.True(t, res.FSSAIExpired)
}
