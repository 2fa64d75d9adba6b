// internal/scoring/rules.go
package scoring

import "strings"

// defaultProhibited applies in every state unless a state entry overrides it.
var defaultProhibited = []string{
	"alcohol", "tobacco", "vaping", "gambling", "cannabis", "adult_entertainment",
}

// stateRules holds per-state NIL policy. Entries reflect the broad strokes
// of current state law; unlisted states fall back to conservativeDefault.
var stateRules = map[string]StateRules{
	"CA": {
		State:                   "CA",
		HighSchoolAllowed:       true,
		GuardianConsentRequired: true,
		SchoolApprovalRequired:  false,
		DisclosureRequired:      true,
		ContractRequired:        true,
		ProhibitedCategories:    defaultProhibited,
		MarketMultiplier:        1.5,
	},
	"NY": {
		State:                   "NY",
		HighSchoolAllowed:       true,
		GuardianConsentRequired: true,
		SchoolApprovalRequired:  false,
		DisclosureRequired:      true,
		ContractRequired:        true,
		ProhibitedCategories:    defaultProhibited,
		MarketMultiplier:        1.5,
	},
	"TX": {
		State:                   "TX",
		HighSchoolAllowed:       false,
		GuardianConsentRequired: true,
		SchoolApprovalRequired:  true,
		DisclosureRequired:      true,
		ContractRequired:        true,
		ProhibitedCategories:    defaultProhibited,
		MarketMultiplier:        1.2,
	},
	"FL": {
		State:                   "FL",
		HighSchoolAllowed:       true,
		GuardianConsentRequired: true,
		SchoolApprovalRequired:  true,
		DisclosureRequired:      true,
		ContractRequired:        true,
		ProhibitedCategories:    defaultProhibited,
		MarketMultiplier:        1.2,
	},
	"OH": {
		State:                   "OH",
		HighSchoolAllowed:       true,
		GuardianConsentRequired: true,
		SchoolApprovalRequired:  true,
		DisclosureRequired:      true,
		ContractRequired:        false,
		ProhibitedCategories:    defaultProhibited,
		MarketMultiplier:        1.0,
	},
	"AL": {
		State:                   "AL",
		HighSchoolAllowed:       false,
		GuardianConsentRequired: true,
		SchoolApprovalRequired:  true,
		DisclosureRequired:      true,
		ContractRequired:        true,
		ProhibitedCategories:    defaultProhibited,
		MarketMultiplier:        0.9,
	},
}

var conservativeDefault = StateRules{
	HighSchoolAllowed:       false,
	GuardianConsentRequired: true,
	SchoolApprovalRequired:  true,
	DisclosureRequired:      true,
	ContractRequired:        true,
	ProhibitedCategories:    defaultProhibited,
	MarketMultiplier:        1.0,
}

// RulesFor returns the jurisdiction rules for a two-letter state code.
// Unknown states get the conservative default.
func RulesFor(state string) StateRules {
	code := strings.ToUpper(strings.TrimSpace(state))
	if r, ok := stateRules[code]; ok {
		return r
	}
	r := conservativeDefault
	r.State = code
	return r
}

// CategoryProhibited checks a brand category against the rule set's list.
func (r StateRules) CategoryProhibited(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return false
	}
	for _, p := range r.ProhibitedCategories {
		if c == p {
			return true
		}
	}
	return false
}
