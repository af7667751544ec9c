package service

import (
	"math"
	"sort"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/enrichment"
)

// MemberTract identifies one tract inside a neighborhood rollup.
type MemberTract struct {
	TractID string  `json:"tract_id"`
	ZipCode string  `json:"zip_code,omitempty"`
	Score   float64 `json:"score"`
}

// NeighborhoodSummary is the population-weighted aggregation of the scored
// tracts sharing a neighborhood label.
type NeighborhoodSummary struct {
	CountyName      string        `json:"county_name"`
	Neighborhood    string        `json:"neighborhood"`
	MedianHomeValue float64       `json:"median_home_value"`
	MedianIncome    float64       `json:"median_income"`
	VacancyPct      float64       `json:"vacancy_pct"`
	DaysOnMarket    *int          `json:"days_on_market,omitempty"`
	GapRatio        float64       `json:"gap_ratio"`
	TotalPop        int           `json:"total_pop"`
	Score           float64       `json:"score"`
	Insights        []string      `json:"insights,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
	MemberTracts    []MemberTract `json:"member_tracts"`
	TractsCount     int           `json:"tracts_count"`
	ZipGuess        string        `json:"zip_guess,omitempty"`
	ZipConfidence   float64       `json:"zip_confidence,omitempty"`
}

// GroupByNeighborhood rolls scored tracts up into neighborhood summaries,
// ordered by aggregate score descending. Grouping preserves the input
// ordering inside each group, so the output is deterministic.
func GroupByNeighborhood(results []domain.ScoreResult) []NeighborhoodSummary {
	type groupKey struct {
		county       string
		neighborhood string
	}

	groups := make(map[groupKey][]domain.ScoreResult)
	var keys []groupKey
	for _, r := range results {
		k := groupKey{county: r.Tract.CountyName, neighborhood: r.Tract.Neighborhood}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}

	summaries := make([]NeighborhoodSummary, 0, len(keys))
	for _, k := range keys {
		s := aggregateGroup(groups[k])
		s.CountyName = k.county
		s.Neighborhood = k.neighborhood
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Score > summaries[j].Score
	})
	return summaries
}

func aggregateGroup(rows []domain.ScoreResult) NeighborhoodSummary {
	s := NeighborhoodSummary{TractsCount: len(rows)}

	var homeVal, income, vacancy, gap, score, dom popWeighted
	for _, r := range rows {
		w := r.Tract.TotalPop
		s.TotalPop += w
		if r.Tract.MedianHomeVal > 0 {
			homeVal.add(float64(r.Tract.MedianHomeVal), w)
		}
		if r.Tract.MedianIncome > 0 {
			income.add(float64(r.Tract.MedianIncome), w)
		}
		vacancy.add(r.Tract.VacancyPct, w)
		if r.Factors.GapRatio > 0 {
			gap.add(r.Factors.GapRatio, w)
		}
		score.add(r.FinalScore, w)
		if r.DaysOnMarket != nil {
			dom.add(float64(*r.DaysOnMarket), w)
		}

		s.MemberTracts = append(s.MemberTracts, MemberTract{
			TractID: r.Tract.TractID,
			ZipCode: r.ZipCode,
			Score:   r.FinalScore,
		})
	}

	s.MedianHomeValue = round1(homeVal.avg())
	s.MedianIncome = round1(income.avg())
	s.VacancyPct = round1(vacancy.avg())
	s.GapRatio = math.Round(gap.avg()*100) / 100
	s.Score = round1(score.avg())
	if dom.weight > 0 {
		d := int(dom.avg())
		s.DaysOnMarket = &d
	}

	s.Insights = dedupeCapped(rows, func(r domain.ScoreResult) []string { return r.Insights })
	s.Warnings = dedupeCapped(rows, func(r domain.ScoreResult) []string { return r.Warnings })
	s.ZipGuess, s.ZipConfidence = guessZip(rows)
	return s
}

type popWeighted struct {
	sum    float64
	weight int
}

func (p *popWeighted) add(v float64, w int) {
	p.sum += v * float64(w)
	p.weight += w
}

func (p popWeighted) avg() float64 {
	if p.weight == 0 {
		return 0
	}
	return p.sum / float64(p.weight)
}

const maxGroupNotes = 3

// dedupeCapped keeps the first occurrence of each note across the group's
// tracts, capped to a handful per rollup.
func dedupeCapped(rows []domain.ScoreResult, pick func(domain.ScoreResult) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		for _, note := range pick(r) {
			if seen[note] {
				continue
			}
			seen[note] = true
			out = append(out, note)
			if len(out) == maxGroupNotes {
				return out
			}
		}
	}
	return out
}

// guessZip picks the most common zip guess among the group's tracts. Ties go
// to the lexicographically smallest zip so repeated runs agree.
func guessZip(rows []domain.ScoreResult) (string, float64) {
	for _, r := range rows {
		if r.ZipCode != "" {
			// At least one tract has a confirmed market zip; no guessing.
			return "", 0
		}
	}

	counts := make(map[string]int)
	total := 0
	for _, r := range rows {
		if zip, ok := enrichment.ZipForTract(r.Tract.CountyFIPS, r.Tract.TractCode); ok {
			counts[zip]++
			total++
		}
	}
	if total == 0 {
		return "", 0
	}

	best := ""
	for zip, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && zip < best) {
			best = zip
		}
	}
	return best, math.Round(float64(counts[best])/float64(total)*1000) / 1000
}

func summarizeGroups(groups []NeighborhoodSummary) Summary {
	s := Summary{TotalMeetingCriteria: len(groups)}
	if len(groups) == 0 {
		return s
	}
	s.TopScore = groups[0].Score
	total := 0.0
	for _, g := range groups {
		total += g.Score
	}
	s.AvgScore = round1(total / float64(len(groups)))
	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
