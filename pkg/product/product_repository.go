package product

import (
	"context"
	"strings"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var sortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"hygiene":    "quality_hygiene_rating",
	"safety":     "quality_safety_rating",
	"quality":    "quality_quality_rating",
	"reported":   "quality_reported_issues",
}

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, product *entities.Product) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		GetProductByLicense(ctx context.Context, license string) (*entities.Product, error)
		UpdateProduct(ctx context.Context, product *entities.Product) error
		DeleteProduct(ctx context.Context, id string) error
		GetProducts(ctx context.Context, query domain.ProductQuery) ([]*entities.Product, int64, error)
		AddViolation(ctx context.Context, id string, violation entities.Violation) (*entities.Product, error)
		ListProductIDs(ctx context.Context) ([]string, error)
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProductByLicense(ctx context.Context, license string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("fssai_license = ?", license).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) GetProducts(ctx context.Context, q domain.ProductQuery) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Product{})

	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(establishment_name) LIKE ?", like, like)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.Sort]
	if !ok {
		column = "created_at"
	}
	desc := !strings.EqualFold(q.Order, "asc")

	offset := (q.Page - 1) * q.Limit
	if err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Offset(offset).
		Limit(q.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

// AddViolation appends to the violation list under a row lock. A critical
// violation moves the product to under-investigation regardless of its
// current status.
func (r *productRepository) AddViolation(ctx context.Context, id string, violation entities.Violation) (*entities.Product, error) {
	var product entities.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&product).Error; err != nil {
			return err
		}

		product.RegulatoryCompliance.Violations = append(product.RegulatoryCompliance.Violations, violation)
		if violation.Severity == domain.SeverityCritical {
			product.Status = domain.ProductStatusUnderInvestigation
		}

		return tx.Model(&product).Select("compliance_violations", "status").Updates(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListProductIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&entities.Product{}).
		Order("created_at asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
