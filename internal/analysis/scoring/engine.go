package scoring

import (
	"math"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

// Factor weights for the base score. Heuristic constants, tunable; the
// clamping and step-function structure around them is the contract.
var (
	weightBandFit = 0.40
	weightIncome  = 0.25
	weightVacancy = 0.20
	weightOwner   = 0.15
)

// idealGapRatio is the median-home-value to budget-ceiling ratio that leaves
// the best flip margin.
const (
	idealGapRatio = 1.35
	gapTolerance  = 0.25
)

type rangeStat struct {
	min, max float64
}

func (r *rangeStat) observe(v float64) {
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}
}

// norm rescales v into [0,1] against the observed range. A degenerate range
// (every tract identical) normalizes to 0.5 so the factor neither helps nor
// hurts anyone.
func (r rangeStat) norm(v float64) float64 {
	if r.max <= r.min {
		return 0.5
	}
	return (v - r.min) / (r.max - r.min)
}

// RegionStats holds the per-factor value ranges of the currently fetched
// tract set. Base-score factors are normalized against these ranges, never
// against absolute constants, so scores are always relative to visible data.
type RegionStats struct {
	bandFit rangeStat
	income  rangeStat
	vacancy rangeStat
	owner   rangeStat
}

// rawFactors are the unnormalized per-tract inputs to the base score.
type rawFactors struct {
	bandFit  float64
	income   float64
	vacancy  float64
	owner    float64
	gapRatio float64
}

func factorsFor(t domain.Tract, band domain.PriceBand) rawFactors {
	f := rawFactors{
		vacancy: -t.VacancyPct, // inverted: lower vacancy scores higher
		owner:   t.OwnerOccupancy,
	}

	if t.MedianHomeVal > 0 {
		if band.Max > 0 {
			f.gapRatio = float64(t.MedianHomeVal) / float64(band.Max)
		}
		f.bandFit = bandFitScore(f.gapRatio)
		if t.MedianIncome > 0 {
			f.income = float64(t.MedianIncome) / float64(t.MedianHomeVal)
		}
	}

	return f
}

// bandFitScore measures how close a tract's median home value sits to the
// ideal flip gap over the budget ceiling. 1.0 at the ideal ratio, falling off
// linearly, 0 where the median is at or below the budget.
func bandFitScore(gapRatio float64) float64 {
	switch {
	case gapRatio < 1.1:
		return 0.0
	case gapRatio <= 1.6:
		return clamp01(1.0 - math.Abs(gapRatio-idealGapRatio)/gapTolerance)
	default:
		return clamp01(1.0 - (gapRatio-1.6)*0.5)
	}
}

// BuildRegionStats scans every fetched tract once to establish the factor
// ranges scores are normalized against.
func BuildRegionStats(tracts []domain.Tract, band domain.PriceBand) RegionStats {
	stats := RegionStats{
		bandFit: rangeStat{min: math.Inf(1), max: math.Inf(-1)},
		income:  rangeStat{min: math.Inf(1), max: math.Inf(-1)},
		vacancy: rangeStat{min: math.Inf(1), max: math.Inf(-1)},
		owner:   rangeStat{min: math.Inf(1), max: math.Inf(-1)},
	}
	for _, t := range tracts {
		f := factorsFor(t, band)
		stats.bandFit.observe(f.bandFit)
		stats.income.observe(f.income)
		stats.vacancy.observe(f.vacancy)
		stats.owner.observe(f.owner)
	}
	return stats
}

// Score combines the normalized demographic base, the market-velocity bonus
// and the neighborhood bonus into one composite result for a tract.
// daysOnMarket is nil when no market signal is available; profile is nil when
// the tract's neighborhood has no enrichment record.
func Score(t domain.Tract, stats RegionStats, daysOnMarket *int, profile *domain.NeighborhoodProfile, band domain.PriceBand) domain.ScoreResult {
	f := factorsFor(t, band)

	bandFitN := stats.bandFit.norm(f.bandFit)
	incomeN := stats.income.norm(f.income)
	vacancyN := stats.vacancy.norm(f.vacancy)
	ownerN := stats.owner.norm(f.owner)

	base := 100 * (weightBandFit*bandFitN +
		weightIncome*incomeN +
		weightVacancy*vacancyN +
		weightOwner*ownerN)

	velocity := VelocityBonus(daysOnMarket)
	neighborhood := NeighborhoodBonus(profile)

	final, label := finalize(base, velocity, neighborhood)

	res := domain.ScoreResult{
		Tract:        t,
		FinalScore:   final,
		Label:        label,
		DaysOnMarket: daysOnMarket,
		Factors: domain.FactorBreakdown{
			BandFitScore:      round1(bandFitN * 100),
			IncomeScore:       round1(incomeN * 100),
			VacancyScore:      round1(vacancyN * 100),
			OwnerScore:        round1(ownerN * 100),
			BaseScore:         round1(base),
			VelocityBonus:     velocity,
			NeighborhoodBonus: neighborhood,
			GapRatio:          round2(f.gapRatio),
		},
	}
	res.Insights, res.Warnings = annotate(t, f, daysOnMarket)
	return res
}

// finalize applies the clamp and rounding rules: whatever the bonus
// magnitudes, the final score stays inside [0,100].
func finalize(base, velocity, neighborhood float64) (float64, string) {
	final := base + velocity + neighborhood
	if final > 100 {
		final = 100
	}
	if final < 0 {
		final = 0
	}
	final = round1(final)
	return final, LabelFor(final)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
