package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodsafety-backend/domain"
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/metrics"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type (
	ProductService interface {
		CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error)
		GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error)
		GetProducts(ctx context.Context, query domain.ProductQuery) ([]domain.ProductResponse, int64, error)
		UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.ProductResponse, error)
		DeleteProduct(ctx context.Context, id string) error
		VerifyLicense(ctx context.Context, license string) (domain.VerifyLicenseResponse, error)
		AddViolation(ctx context.Context, id string, req domain.AddViolationRequest) (domain.ProductResponse, error)
	}

	productService struct {
		productRepository ProductRepository
		log               *logger.Logger
		now               func() time.Time
	}
)

func NewProductService(productRepository ProductRepository, log *logger.Logger) ProductService {
	return &productService{
		productRepository: productRepository,
		log:               log.With("service", "ProductService"),
		now:               time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error) {
	expiry, err := time.Parse(dateLayout, req.FSSAIExpiryDate)
	if err != nil {
		return domain.ProductResponse{}, domain.ErrInvalidExpiryDate
	}

	license := strings.TrimSpace(req.FSSAILicense)
	if _, err := s.productRepository.GetProductByLicense(ctx, license); err == nil {
		return domain.ProductResponse{}, domain.ErrFSSAILicenseExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ProductResponse{}, err
	}

	product := &entities.Product{
		Name:          strings.TrimSpace(req.Name),
		FSSAILicense:  license,
		Category:      req.Category,
		Status:        domain.ProductStatusActive,
		Establishment: toEstablishment(req.Establishment),
		RegulatoryCompliance: entities.RegulatoryCompliance{
			FSSAIExpiryDate: expiry,
		},
	}

	if err := s.productRepository.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ProductResponse{}, domain.ErrFSSAILicenseExists
		}
		return domain.ProductResponse{}, err
	}

	return s.toResponse(product), nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return domain.ProductResponse{}, err
	}
	return s.toResponse(product), nil
}

func (s *productService) GetProducts(ctx context.Context, query domain.ProductQuery) ([]domain.ProductResponse, int64, error) {
	products, count, err := s.productRepository.GetProducts(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, s.toResponse(p))
	}
	return response, count, nil
}

// UpdateProduct never touches quality metrics; those are only written by
// the review fold and the replay command.
func (s *productService) UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (domain.ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return domain.ProductResponse{}, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Establishment != nil {
		product.Establishment = toEstablishment(*req.Establishment)
	}
	if req.FSSAIExpiryDate != "" {
		expiry, err := time.Parse(dateLayout, req.FSSAIExpiryDate)
		if err != nil {
			return domain.ProductResponse{}, domain.ErrInvalidExpiryDate
		}
		product.RegulatoryCompliance.FSSAIExpiryDate = expiry
	}
	if req.InspectionRating != nil {
		now := s.now()
		product.RegulatoryCompliance.InspectionRating = *req.InspectionRating
		product.RegulatoryCompliance.LastInspectionDate = &now
	}
	if req.Status != "" {
		product.Status = req.Status
	}

	if err := s.productRepository.UpdateProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}
	return s.toResponse(product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepository.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}
	return nil
}

func (s *productService) VerifyLicense(ctx context.Context, license string) (domain.VerifyLicenseResponse, error) {
	product, err := s.productRepository.GetProductByLicense(ctx, strings.TrimSpace(license))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.VerifyLicenseResponse{Verified: false}, domain.ErrProductNotFound
		}
		return domain.VerifyLicenseResponse{}, err
	}

	return domain.VerifyLicenseResponse{
		Verified:     true,
		Name:         product.Name,
		Category:     product.Category,
		Manufacturer: product.Establishment.Name,
		FSSAILicense: product.FSSAILicense,
	}, nil
}

func (s *productService) AddViolation(ctx context.Context, id string, req domain.AddViolationRequest) (domain.ProductResponse, error) {
	date := s.now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return domain.ProductResponse{}, domain.ErrInvalidViolationDate
		}
		date = parsed
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}

	product, err := s.productRepository.AddViolation(ctx, id, entities.Violation{
		Date:        date,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProductResponse{}, domain.ErrProductNotFound
		}
		return domain.ProductResponse{}, err
	}

	if req.Severity == domain.SeverityCritical {
		metrics.ProductEscalations.WithLabelValues("violation").Inc()
		s.log.Warn("product escalated to under-investigation", "product_id", id, "trigger", "violation")
	}

	return s.toResponse(product), nil
}

func (s *productService) getProduct(ctx context.Context, id string) (*entities.Product, error) {
	product, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) toResponse(p *entities.Product) domain.ProductResponse {
	return ToProductResponse(p, s.now())
}

// ToProductResponse flattens a product and derives overall rating and
// license expiry relative to now.
func ToProductResponse(p *entities.Product, now time.Time) domain.ProductResponse {
	violations := make([]domain.Violation, 0, len(p.RegulatoryCompliance.Violations))
	for _, v := range p.RegulatoryCompliance.Violations {
		violations = append(violations, domain.Violation{
			Date:        v.Date,
			Description: v.Description,
			Severity:    v.Severity,
			Status:      v.Status,
		})
	}

	return domain.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		FSSAILicense: p.FSSAILicense,
		Category:     p.Category,
		Status:       p.Status,
		Establishment: domain.EstablishmentRequest{
			Name: p.Establishment.Name,
			Type: p.Establishment.Type,
			Address: domain.AddressRequest{
				Street:  p.Establishment.Street,
				City:    p.Establishment.City,
				State:   p.Establishment.State,
				Pincode: p.Establishment.Pincode,
				Country: p.Establishment.Country,
			},
			ContactNumber: p.Establishment.ContactNumber,
		},
		FSSAIExpiryDate:    p.RegulatoryCompliance.FSSAIExpiryDate,
		FSSAIExpired:       p.RegulatoryCompliance.FSSAIExpiryDate.Before(now),
		LastInspectionDate: p.RegulatoryCompliance.LastInspectionDate,
		InspectionRating:   p.RegulatoryCompliance.InspectionRating,
		Violations:         violations,
		QualityMetrics:     ToQualityMetrics(p.QualityMetrics),
		OverallRating:      OverallRating(p.QualityMetrics),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func ToQualityMetrics(m entities.QualityMetrics) domain.QualityMetrics {
	return domain.QualityMetrics{
		HygieneRating:  m.HygieneRating,
		SafetyRating:   m.SafetyRating,
		QualityRating:  m.QualityRating,
		ReportedIssues: m.ReportedIssues,
		ResolvedIssues: m.ResolvedIssues,
	}
}

func OverallRating(m entities.QualityMetrics) float64 {
	return (m.HygieneRating + m.SafetyRating + m.QualityRating) / 3
}

func toEstablishment(req domain.EstablishmentRequest) entities.Establishment {
	return entities.Establishment{
		Name:          req.Name,
		Type:          req.Type,
		Street:        req.Address.Street,
		City:          req.Address.City,
		State:         req.Address.State,
		Pincode:       req.Address.Pincode,
		Country:       req.Address.Country,
		ContactNumber: req.ContactNumber,
	}
}
