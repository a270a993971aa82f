package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Complaint struct {
	ID            uuid.UUID                         `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID                         `gorm:"type:uuid;index;not null" json:"user_id"`
	ProductName   string                            `gorm:"not null" json:"product_name"`
	BatchNumber   string                            `json:"batch_number"`
	PurchaseDate  time.Time                         `json:"purchase_date"`
	Category      string                            `gorm:"index" json:"category"`
	IssueType     string                            `json:"issue_type"`
	Description   string                            `gorm:"type:text" json:"description"`
	EvidenceFiles datatypes.JSONSlice[EvidenceFile] `json:"evidence_files"`
	FSSAINumber   string                            `json:"fssai_number,omitempty"`
	Status        string                            `gorm:"index;default:Pending" json:"status"` // Pending, Under Review, Resolved, Rejected

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

type EvidenceFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	MimeType string `json:"mimetype"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
