// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the UUID in-process so the same models work on
// postgres and on the sqlite driver used by the test suites.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL (stored as serialized JSON elsewhere)
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, j)
}

// StringList is a JSON-serialized string slice (deliverables, document URLs,
// reason codes). Stored as text so it round-trips on every dialect.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, l)
}

// Enums
type UserRole string

const (
	UserRoleAthlete           UserRole = "athlete"
	UserRoleComplianceOfficer UserRole = "compliance_officer"
	UserRoleAdmin             UserRole = "admin"
)

type SchoolLevel string

const (
	SchoolLevelHighSchool SchoolLevel = "high_school"
	SchoolLevelCollege    SchoolLevel = "college"
)

type ConsentStatus string

const (
	ConsentNotRequired ConsentStatus = "not_required"
	ConsentPending     ConsentStatus = "pending"
	ConsentApproved    ConsentStatus = "approved"
	ConsentDenied      ConsentStatus = "denied"
)

type DealType string

const (
	DealTypeSocialPost      DealType = "social_post"
	DealTypeAppearance      DealType = "appearance"
	DealTypeEndorsement     DealType = "endorsement"
	DealTypeBrandAmbassador DealType = "brand_ambassador"
	DealTypeMerchandise     DealType = "merchandise"
	DealTypeOther           DealType = "other"
)

type ThirdPartyType string

const (
	ThirdPartyBrand         ThirdPartyType = "brand"
	ThirdPartyAgency        ThirdPartyType = "agency"
	ThirdPartyLocalBusiness ThirdPartyType = "local_business"
	ThirdPartyIndividual    ThirdPartyType = "individual"
	ThirdPartyUnknown       ThirdPartyType = "unknown"
)

type DealStatus string

const (
	DealStatusDraft               DealStatus = "draft"
	DealStatusPendingReview       DealStatus = "pending_review"
	DealStatusApproved            DealStatus = "approved"
	DealStatusApprovedConditional DealStatus = "approved_conditional"
	DealStatusRejected            DealStatus = "rejected"
	DealStatusInfoRequested       DealStatus = "info_requested"
	DealStatusResponseSubmitted   DealStatus = "response_submitted"
	DealStatusSuperseded          DealStatus = "superseded"
)

type ComplianceDecision string

const (
	DecisionApproved               ComplianceDecision = "approved"
	DecisionApprovedWithConditions ComplianceDecision = "approved_with_conditions"
	DecisionRejected               ComplianceDecision = "rejected"
	DecisionInfoRequested          ComplianceDecision = "info_requested"
	DecisionResponseSubmitted      ComplianceDecision = "response_submitted"
)

type ScoreStatus string

const (
	ScoreStatusGreen  ScoreStatus = "green"
	ScoreStatusYellow ScoreStatus = "yellow"
	ScoreStatusRed    ScoreStatus = "red"
)

type AppealStatus string

const (
	AppealStatusSubmitted   AppealStatus = "submitted"
	AppealStatusUnderReview AppealStatus = "under_review"
	AppealStatusResolved    AppealStatus = "resolved"
)

type AppealResolution string

const (
	AppealResolutionUpheld   AppealResolution = "upheld"
	AppealResolutionModified AppealResolution = "modified"
	AppealResolutionReversed AppealResolution = "reversed"
)

type InfoRequestStatus string

const (
	InfoRequestStatusPending   InfoRequestStatus = "pending"
	InfoRequestStatusResponded InfoRequestStatus = "responded"
	InfoRequestStatusResolved  InfoRequestStatus = "resolved"
)

type MatchInviteStatus string

const (
	MatchInviteStatusPending  MatchInviteStatus = "pending"
	MatchInviteStatusAccepted MatchInviteStatus = "accepted"
	MatchInviteStatusDeclined MatchInviteStatus = "declined"
)
