// internal/scoring/fmv.go
package scoring

import "strings"

// Per-engaged-follower dollar value used as the base of the estimate.
const engagedFollowerValue = 0.05

// EstimateCompensation produces a fair-market-value estimate for a deal from
// the athlete's reach. Deterministic; floors at 100 so small accounts still
// get a sane comparison point.
func EstimateCompensation(followers int64, engagementRate float64, sport string, marketMultiplier float64) float64 {
	if followers < 0 {
		followers = 0
	}
	if engagementRate <= 0 {
		// Platform-typical default when the rate is unknown
		engagementRate = 2.0
	}
	if marketMultiplier <= 0 {
		marketMultiplier = 1.0
	}

	engaged := float64(followers) * (engagementRate / 100)
	estimate := engaged * engagedFollowerValue * marketMultiplier * sportMultiplier(sport)

	if estimate < 100 {
		return 100
	}
	return estimate
}

func sportMultiplier(sport string) float64 {
	switch strings.ToLower(strings.TrimSpace(sport)) {
	case "football", "basketball":
		return 1.3
	case "baseball", "soccer", "gymnastics", "volleyball":
		return 1.1
	default:
		return 1.0
	}
}
