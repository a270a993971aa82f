package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Incident struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ComplaintID    *uuid.UUID `gorm:"type:uuid;index" json:"complaint_id,omitempty"`
	Product        string     `gorm:"not null" json:"product"`
	Company        string     `gorm:"index;not null" json:"company"`
	Description    string     `gorm:"type:text" json:"description"`
	Priority       string     `gorm:"index" json:"priority"` // High, Medium, Low
	Status         string     `gorm:"index;default:Open" json:"status"`
	Category       string     `gorm:"index" json:"category"`
	ReportedBy     uuid.UUID  `gorm:"type:uuid;index;not null" json:"reported_by"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid" json:"assigned_to,omitempty"`
	ResolutionTime *float64   `json:"resolution_time,omitempty"`

	Reporter *User `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Timestamp
}

func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
