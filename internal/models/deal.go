// internal/models/deal.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Deal struct {
	BaseModel
	AthleteID      uuid.UUID      `json:"athlete_id" gorm:"type:uuid;not null;index"`
	DealTitle      string         `json:"deal_title" gorm:"size:255;not null"`
	ThirdPartyName string         `json:"third_party_name" gorm:"size:255;not null"`
	ThirdPartyType ThirdPartyType `json:"third_party_type" gorm:"type:varchar(20);default:'unknown'"`
	DealType       DealType       `json:"deal_type" gorm:"type:varchar(30);not null"`
	BrandCategory  string         `json:"brand_category" gorm:"size:60"`

	CompensationAmount float64    `json:"compensation_amount" gorm:"not null"`
	Deliverables       StringList `json:"deliverables" gorm:"type:text"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	ContractURL        string     `json:"contract_url" gorm:"size:512"`

	// Risk factors supplied at submission
	SchoolAffiliated bool `json:"school_affiliated" gorm:"default:false"`
	BoosterConnected bool `json:"booster_connected" gorm:"default:false"`
	PerformanceBased bool `json:"performance_based" gorm:"default:false"`
	EnrollmentTied   bool `json:"enrollment_tied" gorm:"default:false"`

	// Paperwork state
	W9Submitted     bool `json:"w9_submitted" gorm:"default:false"`
	DisclosureFiled bool `json:"disclosure_filed" gorm:"default:false"`
	SchoolApproved  bool `json:"school_approved" gorm:"default:false"`

	Status             DealStatus          `json:"status" gorm:"type:varchar(30);default:'draft';index"`
	ComplianceDecision *ComplianceDecision `json:"compliance_decision" gorm:"type:varchar(30)"`
	DecisionAt         *time.Time          `json:"decision_at"`
	DecisionBy         *uuid.UUID          `json:"decision_by" gorm:"type:uuid"`
	AthleteNotes       string              `json:"athlete_notes,omitempty" gorm:"type:text"`
	InternalNotes      string              `json:"-" gorm:"type:text"`

	HasActiveAppeal    bool       `json:"has_active_appeal" gorm:"default:false"`
	AppealCount        int        `json:"appeal_count" gorm:"default:0"`
	SupersededByDealID *uuid.UUID `json:"superseded_by_deal_id" gorm:"type:uuid"`
	ResubmittedFromID  *uuid.UUID `json:"resubmitted_from_id" gorm:"type:uuid"`

	// Optimistic lock; every state mutation bumps it
	Version int `json:"-" gorm:"default:1;not null"`

	// Relationships
	Athlete      User                `json:"athlete,omitempty" gorm:"foreignKey:AthleteID"`
	Score        *ComplianceScore    `json:"score,omitempty" gorm:"foreignKey:DealID"`
	Appeals      []AppealRecord      `json:"appeals,omitempty" gorm:"foreignKey:DealID"`
	InfoRequests []InfoRequestRecord `json:"info_requests,omitempty" gorm:"foreignKey:DealID"`
}

// IsTerminal reports whether the deal sits in a decided state that only an
// appeal or resubmission can move it out of.
func (d *Deal) IsTerminal() bool {
	switch d.Status {
	case DealStatusApproved, DealStatusApprovedConditional, DealStatusRejected, DealStatusSuperseded:
		return true
	}
	return false
}

// Appealable reports whether the current decision admits an appeal at all
// (window and active-appeal checks live in the appeal service).
func (d *Deal) Appealable() bool {
	if d.ComplianceDecision == nil {
		return false
	}
	switch *d.ComplianceDecision {
	case DecisionApprovedWithConditions, DecisionRejected:
		return true
	}
	return false
}
