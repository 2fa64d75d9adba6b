// internal/models/score.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ComplianceScore struct {
	BaseModel
	DealID uuid.UUID `json:"deal_id" gorm:"type:uuid;not null;uniqueIndex"`

	PolicyScore          int `json:"policy_score" gorm:"not null"`
	DocumentScore        int `json:"document_score" gorm:"not null"`
	FMVScore             int `json:"fmv_score" gorm:"not null"`
	TaxScore             int `json:"tax_score" gorm:"not null"`
	BrandSafetyScore     int `json:"brand_safety_score" gorm:"not null"`
	GuardianConsentScore int `json:"guardian_consent_score" gorm:"not null"`

	PolicyNotes          string `json:"policy_notes,omitempty" gorm:"type:text"`
	DocumentNotes        string `json:"document_notes,omitempty" gorm:"type:text"`
	FMVNotes             string `json:"fmv_notes,omitempty" gorm:"type:text"`
	TaxNotes             string `json:"tax_notes,omitempty" gorm:"type:text"`
	BrandSafetyNotes     string `json:"brand_safety_notes,omitempty" gorm:"type:text"`
	GuardianConsentNotes string `json:"guardian_consent_notes,omitempty" gorm:"type:text"`

	TotalScore      int         `json:"total_score" gorm:"not null"`
	Status          ScoreStatus `json:"status" gorm:"type:varchar(10);not null;index"`
	ReasonCodes     StringList  `json:"reason_codes" gorm:"type:text"`
	Recommendations StringList  `json:"recommendations" gorm:"type:text"`

	OverrideScore         *int       `json:"override_score"`
	OverrideJustification string     `json:"override_justification,omitempty" gorm:"type:text"`
	OverrideBy            *uuid.UUID `json:"override_by" gorm:"type:uuid"`
	OverrideAt            *time.Time `json:"override_at"`

	ScoredAt     time.Time  `json:"scored_at" gorm:"not null"`
	ScoredBy     *uuid.UUID `json:"scored_by" gorm:"type:uuid"`
	ScoreVersion int        `json:"score_version" gorm:"default:1"`

	// Relationships
	Deal *Deal `json:"deal,omitempty" gorm:"foreignKey:DealID"`
}

// EffectiveScore returns the override when present, the computed total
// otherwise.
func (s *ComplianceScore) EffectiveScore() int {
	if s.OverrideScore != nil {
		return *s.OverrideScore
	}
	return s.TotalScore
}
