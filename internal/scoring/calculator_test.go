// internal/scoring/calculator_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatnil/compliance-backend/internal/models"
)

func cleanDeal() DealFacts {
	return DealFacts{
		DealType:           models.DealTypeSocialPost,
		ThirdPartyType:     models.ThirdPartyBrand,
		BrandCategory:      "apparel",
		CompensationAmount: 200,
		Deliverables:       []string{"2 instagram posts", "1 story"},
		HasContract:        true,
		W9Submitted:        true,
		DisclosureFiled:    true,
		SchoolApproved:     true,
	}
}

func collegeAthlete() AthleteFacts {
	return AthleteFacts{
		State:                     "CA",
		SchoolLevel:               models.SchoolLevelCollege,
		FollowerCount:             50000,
		EngagementRate:            4.0,
		Sport:                     "football",
		UnderstandsTaxObligations: true,
		HasTaxProfessional:        false,
		TotalEarningsYTD:          300,
	}
}

func TestComputeCleanDealIsGreen(t *testing.T) {
	res := Compute(cleanDeal(), collegeAthlete(), RulesFor("CA"))

	assert.Equal(t, 100, res.TotalScore)
	assert.Equal(t, models.ScoreStatusGreen, res.Status)
	assert.False(t, res.Blocking)
	assert.Empty(t, res.ReasonCodes)
	for _, d := range res.Dimensions() {
		assert.Equal(t, 100, d.Score, d.Name)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	deal, athlete, rules := cleanDeal(), collegeAthlete(), RulesFor("CA")
	deal.BoosterConnected = true
	deal.W9Submitted = false

	first := Compute(deal, athlete, rules)
	second := Compute(deal, athlete, rules)
	assert.Equal(t, first, second)
}

func TestComputeBoosterDeduction(t *testing.T) {
	deal := cleanDeal()
	deal.BoosterConnected = true

	res := Compute(deal, collegeAthlete(), RulesFor("CA"))

	assert.Equal(t, 50, res.Policy.Score)
	assert.Equal(t, 85, res.TotalScore) // 50*0.30 + 100*0.70
	assert.Equal(t, models.ScoreStatusGreen, res.Status)
	assert.Contains(t, res.ReasonCodes, "policy.booster_connected")
}

func TestComputePayForPlayLandsYellow(t *testing.T) {
	deal := cleanDeal()
	deal.BoosterConnected = true
	deal.PerformanceBased = true

	res := Compute(deal, collegeAthlete(), RulesFor("CA"))

	assert.Equal(t, 15, res.Policy.Score)
	assert.Equal(t, 75, res.TotalScore)
	assert.Equal(t, models.ScoreStatusYellow, res.Status)
}

func TestComputePolicyScoreClipsAtZero(t *testing.T) {
	deal := DealFacts{
		DealType:           models.DealTypeOther,
		ThirdPartyType:     models.ThirdPartyUnknown,
		CompensationAmount: 500,
		BoosterConnected:   true,
		PerformanceBased:   true,
		EnrollmentTied:     true,
	}
	athlete := collegeAthlete()
	athlete.State = "ZZ"

	res := Compute(deal, athlete, RulesFor("ZZ"))

	assert.Equal(t, 0, res.Policy.Score)
	assert.Equal(t, models.ScoreStatusRed, res.Status)
}

func TestComputeMinorWithoutConsentForcesRed(t *testing.T) {
	deal := cleanDeal()
	athlete := collegeAthlete()
	athlete.SchoolLevel = models.SchoolLevelHighSchool
	athlete.IsMinor = true
	athlete.ConsentStatus = models.ConsentPending

	res := Compute(deal, athlete, RulesFor("CA"))

	assert.True(t, res.Blocking)
	assert.Equal(t, models.ScoreStatusRed, res.Status)
	assert.Equal(t, 40, res.GuardianConsent.Score)
	assert.Contains(t, res.ReasonCodes, "consent.pending")
}

func TestComputeMinorWithApprovedConsentNotBlocked(t *testing.T) {
	deal := cleanDeal()
	athlete := collegeAthlete()
	athlete.SchoolLevel = models.SchoolLevelHighSchool
	athlete.IsMinor = true
	athlete.ConsentStatus = models.ConsentApproved

	res := Compute(deal, athlete, RulesFor("CA"))

	assert.False(t, res.Blocking)
	assert.Equal(t, 100, res.GuardianConsent.Score)
	assert.Equal(t, models.ScoreStatusGreen, res.Status)
}

func TestComputeHighSchoolProhibitedState(t *testing.T) {
	deal := cleanDeal()
	athlete := collegeAthlete()
	athlete.State = "TX"
	athlete.SchoolLevel = models.SchoolLevelHighSchool

	res := Compute(deal, athlete, RulesFor("TX"))

	assert.True(t, res.Blocking)
	assert.Equal(t, 0, res.Policy.Score)
	assert.Equal(t, models.ScoreStatusRed, res.Status)
	assert.Contains(t, res.ReasonCodes, "policy.state_prohibits_hs_nil")
}

func TestComputeProhibitedCategory(t *testing.T) {
	deal := cleanDeal()
	deal.BrandCategory = "alcohol"

	// Adult college athlete: restricted but not blocking
	res := Compute(deal, collegeAthlete(), RulesFor("CA"))
	assert.False(t, res.Blocking)
	assert.Equal(t, 20, res.BrandSafety.Score)

	// Minor: hard block
	minor := collegeAthlete()
	minor.IsMinor = true
	minor.ConsentStatus = models.ConsentApproved
	res = Compute(deal, minor, RulesFor("CA"))
	assert.True(t, res.Blocking)
	assert.Equal(t, 0, res.BrandSafety.Score)
	assert.Equal(t, models.ScoreStatusRed, res.Status)
}

func TestComputeFMVBands(t *testing.T) {
	athlete := collegeAthlete()
	rules := RulesFor("CA")
	// estimate = 50000 * 0.04 * 0.05 * 1.5 * 1.3 = 195

	cases := []struct {
		name  string
		comp  float64
		score int
	}{
		{"at market", 200, 100},
		{"above market", 500, 70},
		{"well above market", 900, 40},
		{"extreme premium", 5000, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deal := cleanDeal()
			deal.CompensationAmount = tc.comp
			res := Compute(deal, athlete, rules)
			assert.Equal(t, tc.score, res.FMV.Score)
			assert.InDelta(t, 195, res.FMVEstimate, 0.01)
		})
	}
}

func TestEstimateCompensationFloors(t *testing.T) {
	assert.Equal(t, 100.0, EstimateCompensation(0, 0, "", 0))
	assert.Equal(t, 100.0, EstimateCompensation(-5, 3, "golf", 1))
}

func TestStatusForThresholds(t *testing.T) {
	assert.Equal(t, models.ScoreStatusGreen, StatusFor(100))
	assert.Equal(t, models.ScoreStatusGreen, StatusFor(80))
	assert.Equal(t, models.ScoreStatusYellow, StatusFor(79))
	assert.Equal(t, models.ScoreStatusYellow, StatusFor(60))
	assert.Equal(t, models.ScoreStatusRed, StatusFor(59))
	assert.Equal(t, models.ScoreStatusRed, StatusFor(0))
}

func TestRulesForUnknownStateIsConservative(t *testing.T) {
	r := RulesFor("zz")
	assert.Equal(t, "ZZ", r.State)
	assert.False(t, r.HighSchoolAllowed)
	assert.True(t, r.GuardianConsentRequired)
	assert.True(t, r.ContractRequired)
}

func TestTaxDimension(t *testing.T) {
	deal := cleanDeal()
	deal.W9Submitted = false
	deal.DisclosureFiled = true
	athlete := collegeAthlete()
	athlete.UnderstandsTaxObligations = false
	athlete.TotalEarningsYTD = 500

	res := Compute(deal, athlete, RulesFor("CA"))

	// -30 missing W9, -25 education, -15 over-threshold without W9
	assert.Equal(t, 30, res.Tax.Score)
	assert.Contains(t, res.ReasonCodes, "tax.1099_threshold_without_w9")
}
