package scoring

import (
	"fmt"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

// annotate derives the human-readable insight and warning strings attached to
// a score result.
func annotate(t domain.Tract, f rawFactors, daysOnMarket *int) (insights, warnings []string) {
	switch {
	case f.gapRatio >= 1.3 && f.gapRatio <= 1.4:
		insights = append(insights, "Perfect buy-sell gap for profitable flips")
	case f.gapRatio > 0 && f.gapRatio < 1.1:
		warnings = append(warnings, "Limited profit potential - median too close to budget")
	case f.gapRatio > 1.7:
		warnings = append(warnings, "Median significantly above budget - verify distressed inventory exists")
	}

	switch {
	case t.VacancyPct >= 10 && t.VacancyPct <= 13:
		insights = append(insights, "Healthy inventory levels")
	case t.VacancyPct < 5:
		warnings = append(warnings, "Very low vacancy - limited deal flow")
	case t.VacancyPct > 20:
		warnings = append(warnings, "High vacancy may indicate declining area")
	}

	if t.MedianHomeVal > 0 {
		if float64(t.MedianIncome) >= float64(t.MedianHomeVal)/3.5 {
			insights = append(insights, "Strong buyer income for resale")
		} else if float64(t.MedianIncome) < float64(t.MedianHomeVal)/4.5 {
			warnings = append(warnings, "Buyer income may limit resale market")
		}
	}

	if daysOnMarket != nil {
		if dom := *daysOnMarket; dom > 0 && dom < 40 {
			insights = append(insights, fmt.Sprintf("Fast-moving market (%d days)", dom))
		} else if dom > 90 {
			warnings = append(warnings, fmt.Sprintf("Slower market (%d days to sell)", dom))
		}
	}

	return insights, warnings
}
