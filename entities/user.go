package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"index;default:consumer" json:"role"`
	Company  string    `json:"company"`
	Status   string    `gorm:"default:active" json:"status"` // active, suspended, pending-verification, inactive

	Profile         UserProfile     `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	ActivityMetrics ActivityMetrics `gorm:"embedded;embeddedPrefix:activity_" json:"activity_metrics"`

	Timestamp
}

type UserProfile struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Designation  string `json:"designation"`
	Organization string `json:"organization"`
}

// ActivityMetrics are raw counters; TrustScore is derived from them and is
// only written by the trust score recomputation.
type ActivityMetrics struct {
	ReportsSubmitted     int `gorm:"default:0" json:"reports_submitted"`
	ReportsVerified      int `gorm:"default:0" json:"reports_verified"`
	ViolationsReported   int `gorm:"default:0" json:"violations_reported"`
	HelpfulVotesReceived int `gorm:"default:0" json:"helpful_votes_received"`
	TrustScore           int `gorm:"default:50" json:"trust_score"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
