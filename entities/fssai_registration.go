package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FSSAIRegistration struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Business            string    `gorm:"not null" json:"business"`
	Email               string    `gorm:"index;not null" json:"email"`
	CertificateFileName string    `json:"certificate_file_name"`
	CertificatePath     string    `json:"certificate_path"`
	RegistrationDate    time.Time `json:"registration_date"`
	Verified            bool      `gorm:"default:false" json:"verified"`
	Status              string    `gorm:"index;default:Pending" json:"status"` // Pending, Approved, Rejected
	FSSAINumber         *string   `gorm:"uniqueIndex" json:"fssai_number"`

	Timestamp
}

func (f *FSSAIRegistration) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.RegistrationDate.IsZero() {
		f.RegistrationDate = time.Now()
	}
	return nil
}
