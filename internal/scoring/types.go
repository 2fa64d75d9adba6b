// internal/scoring/types.go
package scoring

import (
	"github.com/chatnil/compliance-backend/internal/models"
)

// Dimension weights. Must sum to 1.0.
const (
	WeightPolicy          = 0.30
	WeightDocumentation   = 0.20
	WeightFMV             = 0.15
	WeightTax             = 0.15
	WeightBrandSafety     = 0.10
	WeightGuardianConsent = 0.10
)

// Color thresholds on the weighted total.
const (
	GreenFloor  = 80
	YellowFloor = 60
)

// DealFacts is everything the calculator needs about the deal itself.
// Plain values only; the calculator never touches storage.
type DealFacts struct {
	DealType           models.DealType
	ThirdPartyType     models.ThirdPartyType
	BrandCategory      string
	CompensationAmount float64
	Deliverables       []string
	HasContract        bool
	W9Submitted        bool
	DisclosureFiled    bool
	SchoolApproved     bool
	SchoolAffiliated   bool
	BoosterConnected   bool
	PerformanceBased   bool
	EnrollmentTied     bool
}

// AthleteFacts carries the athlete context the dimensions depend on.
type AthleteFacts struct {
	State                     string
	SchoolLevel               models.SchoolLevel
	IsMinor                   bool
	ConsentStatus             models.ConsentStatus
	FollowerCount             int64
	EngagementRate            float64
	Sport                     string
	UnderstandsTaxObligations bool
	HasTaxProfessional        bool
	TotalEarningsYTD          float64
}

// StateRules is the jurisdiction policy the calculator evaluates against.
type StateRules struct {
	State                   string
	HighSchoolAllowed       bool
	GuardianConsentRequired bool
	SchoolApprovalRequired  bool
	DisclosureRequired      bool
	ContractRequired        bool
	ProhibitedCategories    []string
	MarketMultiplier        float64
}

// Dimension is one scored axis, clipped to [0,100].
type Dimension struct {
	Name   string  `json:"name"`
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
	Notes  string  `json:"notes,omitempty"`
}

// Weighted returns the dimension's contribution to the total.
func (d Dimension) Weighted() float64 {
	return float64(d.Score) * d.Weight
}

// Result is the full calculator output. Identical inputs always produce an
// identical Result.
type Result struct {
	Policy          Dimension `json:"policy"`
	Documentation   Dimension `json:"documentation"`
	FMV             Dimension `json:"fmv"`
	Tax             Dimension `json:"tax"`
	BrandSafety     Dimension `json:"brand_safety"`
	GuardianConsent Dimension `json:"guardian_consent"`

	TotalScore      int                `json:"total_score"`
	Status          models.ScoreStatus `json:"status"`
	ReasonCodes     []string           `json:"reason_codes"`
	Recommendations []string           `json:"recommendations"`

	// Blocking marks a hard failure (state ban, missing guardian consent,
	// prohibited category) that forces red regardless of the total.
	Blocking bool `json:"blocking"`

	// FMVEstimate is the compensation the FMV dimension compared against.
	FMVEstimate float64 `json:"fmv_estimate"`
}

// Dimensions returns the six axes in weight order.
func (r *Result) Dimensions() []Dimension {
	return []Dimension{
		r.Policy, r.Documentation, r.FMV, r.Tax, r.BrandSafety, r.GuardianConsent,
	}
}

// StatusFor maps a 0-100 score to its color band.
func StatusFor(score int) models.ScoreStatus {
	switch {
	case score >= GreenFloor:
		return models.ScoreStatusGreen
	case score >= YellowFloor:
		return models.ScoreStatusYellow
	default:
		return models.ScoreStatusRed
	}
}

func clip(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
