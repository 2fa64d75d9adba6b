// internal/models/match.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchInvite is a brand outreach an athlete can accept or decline. A
// declined invite can be reconsidered once, inside the configured window.
type MatchInvite struct {
	BaseModel
	AthleteID     uuid.UUID         `json:"athlete_id" gorm:"type:uuid;not null;index"`
	BrandName     string            `json:"brand_name" gorm:"size:255;not null"`
	CampaignTitle string            `json:"campaign_title" gorm:"size:255"`
	Message       string            `json:"message,omitempty" gorm:"type:text"`
	Status        MatchInviteStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	DeclinedAt     *time.Time `json:"declined_at"`
	DeclineReason  string     `json:"decline_reason,omitempty" gorm:"type:text"`
	ReconsideredAt *time.Time `json:"reconsidered_at"`

	// Relationships
	Athlete *User `json:"athlete,omitempty" gorm:"foreignKey:AthleteID"`
}
