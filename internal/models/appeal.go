// internal/models/appeal.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type AppealRecord struct {
	BaseModel
	DealID    uuid.UUID `json:"deal_id" gorm:"type:uuid;not null;index"`
	AthleteID uuid.UUID `json:"athlete_id" gorm:"type:uuid;not null;index"`

	// Snapshot of the decision being appealed
	OriginalDecision   ComplianceDecision `json:"original_decision" gorm:"type:varchar(30);not null"`
	OriginalDecisionAt *time.Time         `json:"original_decision_at"`

	Reason            string     `json:"reason" gorm:"type:text;not null"`
	AdditionalContext string     `json:"additional_context,omitempty" gorm:"type:text"`
	AppealDocuments   StringList `json:"appeal_documents" gorm:"type:text"`
	SubmittedAt       time.Time  `json:"submitted_at" gorm:"not null;index"`

	Status                  AppealStatus        `json:"status" gorm:"type:varchar(20);default:'submitted';index"`
	Resolution              *AppealResolution   `json:"resolution" gorm:"type:varchar(20)"`
	NewDecision             *ComplianceDecision `json:"new_decision" gorm:"type:varchar(30)"`
	ResolutionNotes         string              `json:"resolution_notes,omitempty" gorm:"type:text"`
	ResolutionInternalNotes string              `json:"-" gorm:"type:text"`
	ResolvedBy              *uuid.UUID          `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt              *time.Time          `json:"resolved_at"`

	// Relationships
	Deal    *Deal `json:"deal,omitempty" gorm:"foreignKey:DealID"`
	Athlete *User `json:"athlete,omitempty" gorm:"foreignKey:AthleteID"`
}

// DaysOpen is derived for queue views, never stored.
func (a *AppealRecord) DaysOpen(now time.Time) int {
	if a.Status == AppealStatusResolved && a.ResolvedAt != nil {
		now = *a.ResolvedAt
	}
	d := int(now.Sub(a.SubmittedAt).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
