package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"index;not null" json:"name"`
	FSSAILicense string    `gorm:"uniqueIndex;not null" json:"fssai_license"`
	Category     string    `gorm:"index" json:"category"`
	Status       string    `gorm:"index;default:active" json:"status"` // active, suspended, blacklisted, under-investigation

	Establishment        Establishment        `gorm:"embedded;embeddedPrefix:establishment_" json:"establishment"`
	RegulatoryCompliance RegulatoryCompliance `gorm:"embedded;embeddedPrefix:compliance_" json:"regulatory_compliance"`
	QualityMetrics       QualityMetrics       `gorm:"embedded;embeddedPrefix:quality_" json:"quality_metrics"`

	Timestamp
}

type Establishment struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Country       string `json:"country"`
	ContactNumber string `json:"contact_number"`
}

type RegulatoryCompliance struct {
	FSSAIExpiryDate    time.Time                      `json:"fssai_expiry_date"`
	LastInspectionDate *time.Time                     `json:"last_inspection_date,omitempty"`
	InspectionRating   float64                        `json:"inspection_rating"`
	Violations         datatypes.JSONSlice[Violation] `json:"violations"`
}

type Violation struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"` // pending, resolved, under-review
}

// QualityMetrics holds running means over every review ever created for the
// product. ReportedIssues is the sample count used as the mean's denominator.
type QualityMetrics struct {
	HygieneRating  float64 `gorm:"default:0" json:"hygiene_rating"`
	SafetyRating   float64 `gorm:"default:0" json:"safety_rating"`
	QualityRating  float64 `gorm:"default:0" json:"quality_rating"`
	ReportedIssues int     `gorm:"default:0" json:"reported_issues"`
	ResolvedIssues int     `gorm:"default:0" json:"resolved_issues"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
