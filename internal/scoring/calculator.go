// internal/scoring/calculator.go
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/chatnil/compliance-backend/internal/models"
)

// Compute scores a deal across the six compliance dimensions and rolls them
// into a weighted total with a green/yellow/red status. Pure function: no
// storage, no clock, no randomness.
func Compute(deal DealFacts, athlete AthleteFacts, rules StateRules) Result {
	res := Result{}
	var reasons, recs []string

	res.Policy = scorePolicy(deal, athlete, rules, &reasons, &recs, &res.Blocking)
	res.Documentation = scoreDocumentation(deal, athlete, rules, &reasons, &recs)
	res.FMV, res.FMVEstimate = scoreFMV(deal, athlete, rules, &reasons, &recs)
	res.Tax = scoreTax(deal, athlete, &reasons, &recs)
	res.BrandSafety = scoreBrandSafety(deal, athlete, rules, &reasons, &recs, &res.Blocking)
	res.GuardianConsent = scoreGuardianConsent(athlete, rules, &reasons, &recs, &res.Blocking)

	total := 0.0
	for _, d := range res.Dimensions() {
		total += d.Weighted()
	}
	res.TotalScore = clip(int(math.Round(total)))

	res.Status = StatusFor(res.TotalScore)
	if res.Blocking {
		res.Status = models.ScoreStatusRed
	}

	res.ReasonCodes = reasons
	res.Recommendations = recs
	return res
}

func scorePolicy(deal DealFacts, athlete AthleteFacts, rules StateRules, reasons, recs *[]string, blocking *bool) Dimension {
	score := 100
	var notes []string

	if athlete.SchoolLevel == models.SchoolLevelHighSchool && !rules.HighSchoolAllowed {
		score = 0
		*blocking = true
		*reasons = append(*reasons, "policy.state_prohibits_hs_nil")
		notes = append(notes, fmt.Sprintf("%s does not permit high school NIL activity", rules.State))
	}
	if rules.SchoolApprovalRequired && !deal.SchoolApproved {
		score -= 40
		*reasons = append(*reasons, "policy.school_approval_missing")
		*recs = append(*recs, "Obtain school approval before the deal starts")
	}
	if rules.DisclosureRequired && !deal.DisclosureFiled {
		score -= 30
		*reasons = append(*reasons, "policy.disclosure_not_filed")
		*recs = append(*recs, "File the required NIL disclosure with the institution")
	}
	if deal.BoosterConnected {
		score -= 50
		*reasons = append(*reasons, "policy.booster_connected")
		notes = append(notes, "booster-connected compensation draws recruiting-inducement scrutiny")
	}
	if deal.PerformanceBased {
		score -= 35
		*reasons = append(*reasons, "policy.performance_based")
		notes = append(notes, "pay tied to athletic performance is barred as pay-for-play")
	}
	if deal.EnrollmentTied {
		score -= 45
		*reasons = append(*reasons, "policy.enrollment_tied")
		notes = append(notes, "compensation contingent on enrollment is barred as an inducement")
	}
	if len(deal.Deliverables) == 0 {
		score -= 25
		*reasons = append(*reasons, "policy.no_deliverables")
		*recs = append(*recs, "Specify concrete deliverables so payment maps to real work")
	}
	if deal.ThirdPartyType == models.ThirdPartyUnknown {
		score -= 10
		*reasons = append(*reasons, "policy.unknown_third_party")
	}

	return Dimension{Name: "policy", Score: clip(score), Weight: WeightPolicy, Notes: strings.Join(notes, "; ")}
}

func scoreDocumentation(deal DealFacts, athlete AthleteFacts, rules StateRules, reasons, recs *[]string) Dimension {
	score := 100
	var notes []string

	if !deal.HasContract {
		if rules.ContractRequired {
			score -= 50
			*reasons = append(*reasons, "docs.contract_required_missing")
			notes = append(notes, fmt.Sprintf("%s requires a written contract", rules.State))
		} else {
			score -= 40
			*reasons = append(*reasons, "docs.no_written_contract")
		}
		*recs = append(*recs, "Upload a signed written agreement")
	}
	if !deal.W9Submitted {
		score -= 20
		*reasons = append(*reasons, "docs.w9_missing")
		*recs = append(*recs, "Submit a W-9 so the payer can issue a 1099")
	}
	if rules.DisclosureRequired && !deal.DisclosureFiled {
		score -= 25
		*reasons = append(*reasons, "docs.disclosure_missing")
	}
	if athlete.IsMinor && athlete.ConsentStatus != models.ConsentApproved {
		score -= 30
		*reasons = append(*reasons, "docs.guardian_consent_doc_missing")
	}

	return Dimension{Name: "documentation", Score: clip(score), Weight: WeightDocumentation, Notes: strings.Join(notes, "; ")}
}

func scoreFMV(deal DealFacts, athlete AthleteFacts, rules StateRules, reasons, recs *[]string) (Dimension, float64) {
	estimate := EstimateCompensation(athlete.FollowerCount, athlete.EngagementRate, athlete.Sport, rules.MarketMultiplier)
	ratio := deal.CompensationAmount / estimate

	var score int
	var note string
	switch {
	case ratio <= 1.5:
		score = 100
	case ratio <= 3:
		score = 70
		*reasons = append(*reasons, "fmv.above_market")
		note = fmt.Sprintf("compensation is %.1fx the estimated fair market value of $%.0f", ratio, estimate)
	case ratio <= 5:
		score = 40
		*reasons = append(*reasons, "fmv.well_above_market")
		*recs = append(*recs, "Document the business rationale for above-market compensation")
		note = fmt.Sprintf("compensation is %.1fx the estimated fair market value of $%.0f", ratio, estimate)
	default:
		score = 10
		*reasons = append(*reasons, "fmv.extreme_premium")
		*recs = append(*recs, "Document the business rationale for above-market compensation")
		note = fmt.Sprintf("compensation is %.1fx the estimated fair market value of $%.0f", ratio, estimate)
	}

	return Dimension{Name: "fmv", Score: score, Weight: WeightFMV, Notes: note}, estimate
}

// Payers must issue a 1099 once payments reach this amount in a tax year.
const form1099Threshold = 600

func scoreTax(deal DealFacts, athlete AthleteFacts, reasons, recs *[]string) Dimension {
	score := 100

	if !deal.W9Submitted {
		score -= 30
		*reasons = append(*reasons, "tax.w9_missing")
	}
	if !athlete.UnderstandsTaxObligations {
		score -= 25
		*reasons = append(*reasons, "tax.education_incomplete")
		*recs = append(*recs, "Complete the tax obligations module before accepting payment")
	}
	if athlete.TotalEarningsYTD+deal.CompensationAmount >= form1099Threshold && !deal.W9Submitted {
		score -= 15
		*reasons = append(*reasons, "tax.1099_threshold_without_w9")
	}
	if athlete.TotalEarningsYTD > 10000 && !athlete.HasTaxProfessional {
		score -= 10
		*recs = append(*recs, "Engage a tax professional given year-to-date NIL earnings")
	}

	return Dimension{Name: "tax", Score: clip(score), Weight: WeightTax}
}

// Categories that are legal but reputationally risky for student athletes.
var riskyCategories = map[string]bool{
	"supplements":   true,
	"energy_drinks": true,
	"crypto":        true,
	"weight_loss":   true,
}

func scoreBrandSafety(deal DealFacts, athlete AthleteFacts, rules StateRules, reasons, recs *[]string, blocking *bool) Dimension {
	category := strings.ToLower(strings.TrimSpace(deal.BrandCategory))

	if rules.CategoryProhibited(category) {
		if athlete.SchoolLevel == models.SchoolLevelHighSchool || athlete.IsMinor {
			*blocking = true
			*reasons = append(*reasons, "brand.prohibited_category")
			return Dimension{Name: "brand_safety", Score: 0, Weight: WeightBrandSafety,
				Notes: fmt.Sprintf("category %q is prohibited for this athlete", category)}
		}
		*reasons = append(*reasons, "brand.prohibited_category")
		*recs = append(*recs, "Confirm the category is permitted under institutional policy")
		return Dimension{Name: "brand_safety", Score: 20, Weight: WeightBrandSafety,
			Notes: fmt.Sprintf("category %q is restricted", category)}
	}

	if riskyCategories[category] {
		*reasons = append(*reasons, "brand.elevated_risk_category")
		return Dimension{Name: "brand_safety", Score: 60, Weight: WeightBrandSafety,
			Notes: fmt.Sprintf("category %q carries elevated reputational risk", category)}
	}

	return Dimension{Name: "brand_safety", Score: 100, Weight: WeightBrandSafety}
}

func scoreGuardianConsent(athlete AthleteFacts, rules StateRules, reasons, recs *[]string, blocking *bool) Dimension {
	if !athlete.IsMinor {
		return Dimension{Name: "guardian_consent", Score: 100, Weight: WeightGuardianConsent, Notes: "not required"}
	}

	switch athlete.ConsentStatus {
	case models.ConsentApproved:
		return Dimension{Name: "guardian_consent", Score: 100, Weight: WeightGuardianConsent}
	case models.ConsentPending:
		if rules.GuardianConsentRequired {
			*blocking = true
		}
		*reasons = append(*reasons, "consent.pending")
		*recs = append(*recs, "Obtain guardian consent before the deal is executed")
		return Dimension{Name: "guardian_consent", Score: 40, Weight: WeightGuardianConsent, Notes: "guardian consent pending"}
	default: // denied or never requested
		if rules.GuardianConsentRequired {
			*blocking = true
		}
		*reasons = append(*reasons, "consent.missing")
		*recs = append(*recs, "Obtain guardian consent before the deal is executed")
		return Dimension{Name: "guardian_consent", Score: 0, Weight: WeightGuardianConsent, Notes: "guardian consent missing or denied"}
	}
}
