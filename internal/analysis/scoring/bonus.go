package scoring

import "github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"

// Market-velocity step bonus. Faster turnover earns more; the bonus is
// bounded so a hot market alone cannot dominate the demographic base.
const (
	velocityFastDays   = 30
	velocityMediumDays = 60
	velocitySlowDays   = 90

	velocityFastBonus   = 10.0
	velocityMediumBonus = 5.0
	velocitySlowBonus   = 2.0
)

// VelocityBonus maps days-on-market to a bounded additive bonus. A missing
// signal contributes exactly zero; absence of data never penalizes a tract.
func VelocityBonus(daysOnMarket *int) float64 {
	if daysOnMarket == nil || *daysOnMarket < 0 {
		return 0
	}
	switch dom := *daysOnMarket; {
	case dom < velocityFastDays:
		return velocityFastBonus
	case dom <= velocityMediumDays:
		return velocityMediumBonus
	case dom <= velocitySlowDays:
		return velocitySlowBonus
	default:
		return 0
	}
}

// Neighborhood bonus thresholds and point values, per the enrichment mapper
// calibration. Each contribution is an independent step function applied
// additively.
const (
	schoolGreatRating = 7.0
	schoolGoodRating  = 5.0
	schoolGreatBonus  = 3.0
	schoolGoodBonus   = 1.0

	safetyHighScore  = 80.0
	safetyOkScore    = 60.0
	safetyLowScore   = 40.0
	safetyHighBonus  = 2.0
	safetyOkBonus    = 1.0
	safetyLowPenalty = -2.0

	walkHighScore = 70.0
	walkOkScore   = 50.0
	walkHighBonus = 2.0
	walkOkBonus   = 1.0

	amenityHighScore = 70.0
	amenityOkScore   = 40.0
	amenityHighBonus = 2.0
	amenityOkBonus   = 1.0

	notableRetailBonus = 3.0
)

// NeighborhoodBonus sums the enrichment contributions for a tract's
// neighborhood. A nil profile (neighborhood absent from the table) is worth
// exactly zero, never an error.
func NeighborhoodBonus(p *domain.NeighborhoodProfile) float64 {
	if p == nil {
		return 0
	}

	total := 0.0

	switch {
	case p.SchoolRating >= schoolGreatRating:
		total += schoolGreatBonus
	case p.SchoolRating >= schoolGoodRating:
		total += schoolGoodBonus
	}

	switch {
	case p.SafetyScore >= safetyHighScore:
		total += safetyHighBonus
	case p.SafetyScore >= safetyOkScore:
		total += safetyOkBonus
	case p.SafetyScore < safetyLowScore:
		total += safetyLowPenalty
	}

	switch {
	case p.WalkScore >= walkHighScore:
		total += walkHighBonus
	case p.WalkScore >= walkOkScore:
		total += walkOkBonus
	}

	switch {
	case p.AmenityScore >= amenityHighScore:
		total += amenityHighBonus
	case p.AmenityScore >= amenityOkScore:
		total += amenityOkBonus
	}

	if p.NotableRetail {
		total += notableRetailBonus
	}

	return total
}
