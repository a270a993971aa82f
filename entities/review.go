package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_product_user;not null" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_product_user;not null" json:"user_id"`

	HygieneRating int    `json:"hygiene_rating"`
	SafetyRating  int    `json:"safety_rating"`
	QualityRating int    `json:"quality_rating"`
	Title         string `json:"title"`
	Content       string `gorm:"type:text" json:"content"`

	Observations         FoodSafetyObservations                   `gorm:"embedded;embeddedPrefix:observation_" json:"food_safety_observations"`
	HygieneIssues        datatypes.JSONSlice[HygieneIssue]        `json:"hygiene_issues"`
	ComplianceViolations datatypes.JSONSlice[ComplianceViolation] `json:"compliance_violations"`
	QualityIssues        datatypes.JSONSlice[QualityIssue]        `json:"quality_issues"`

	VerificationStatus string        `gorm:"index;default:pending" json:"verification_status"`
	VerifiedCounted    bool          `gorm:"default:false" json:"-"`
	ReportOutcome      ReportOutcome `gorm:"embedded;embeddedPrefix:outcome_" json:"report_outcome"`

	HelpfulCount  int                         `gorm:"default:0" json:"helpful_count"`
	HelpfulVoters datatypes.JSONSlice[string] `json:"-"`
	ReportFlags   datatypes.JSONSlice[string] `json:"report_flags"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Timestamp
}

type FoodSafetyObservations struct {
	StorageConditions  string `json:"storage_conditions"`
	HandlingPractices  string `json:"handling_practices"`
	PackagingCondition string `json:"packaging_condition"`
	Temperature        string `json:"temperature"`
	Comments           string `json:"comments"`
}

type HygieneIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type ComplianceViolation struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
}

type QualityIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	BatchNumber string `json:"batch_number"`
}

type ReportOutcome struct {
	Status            string     `gorm:"default:open" json:"status"` // open, under-investigation, resolved, dismissed
	ActionTaken       string     `json:"action_taken"`
	ResolutionDate    *time.Time `json:"resolution_date,omitempty"`
	AuthorityResponse string     `json:"authority_response"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
