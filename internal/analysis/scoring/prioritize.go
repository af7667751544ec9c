package scoring

import (
	"sort"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

// Prioritize orders results richest first. The sort is stable: tracts with
// equal final scores keep their original input order, so ranked output is
// deterministic run to run.
func Prioritize(results []domain.ScoreResult) []domain.ScoreResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}
