package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

func scored(tract domain.Tract, score float64) domain.ScoreResult {
	return domain.ScoreResult{Tract: tract, FinalScore: score}
}

func TestGroupByNeighborhoodWeightsByPopulation(t *testing.T) {
	rows := []domain.ScoreResult{
		scored(domain.Tract{
			CountyName: "Marion", Neighborhood: "Indianapolis - Eastside",
			TotalPop: 1000, MedianHomeVal: 100000, MedianIncome: 40000, VacancyPct: 10,
		}, 60),
		scored(domain.Tract{
			CountyName: "Marion", Neighborhood: "Indianapolis - Eastside",
			TotalPop: 3000, MedianHomeVal: 200000, MedianIncome: 60000, VacancyPct: 6,
		}, 40),
	}

	groups := GroupByNeighborhood(rows)
	require.Len(t, groups, 1)
	g := groups[0]

	assert.Equal(t, 4000, g.TotalPop)
	assert.Equal(t, 2, g.TractsCount)
	// (100000*1000 + 200000*3000) / 4000
	assert.Equal(t, 175000.0, g.MedianHomeValue)
	assert.Equal(t, 55000.0, g.MedianIncome)
	assert.Equal(t, 7.0, g.VacancyPct)
	// (60*1000 + 40*3000) / 4000
	assert.Equal(t, 45.0, g.Score)
}

func TestGroupByNeighborhoodSkipsMissingValues(t *testing.T) {
	rows := []domain.ScoreResult{
		scored(domain.Tract{
			CountyName: "Marion", Neighborhood: "Indianapolis - Eastside",
			TotalPop: 1000, MedianHomeVal: 100000, MedianIncome: 40000,
		}, 50),
		// Missing home value and income must not drag the averages to zero.
		scored(domain.Tract{
			CountyName: "Marion", Neighborhood: "Indianapolis - Eastside",
			TotalPop: 1000,
		}, 50),
	}

	groups := GroupByNeighborhood(rows)
	require.Len(t, groups, 1)
	assert.Equal(t, 100000.0, groups[0].MedianHomeValue)
	assert.Equal(t, 40000.0, groups[0].MedianIncome)
}

func TestGroupByNeighborhoodOrdersByScore(t *testing.T) {
	rows := []domain.ScoreResult{
		scored(domain.Tract{CountyName: "Marion", Neighborhood: "A", TotalPop: 100}, 30),
		scored(domain.Tract{CountyName: "Marion", Neighborhood: "B", TotalPop: 100}, 70),
		scored(domain.Tract{CountyName: "Marion", Neighborhood: "C", TotalPop: 100}, 50),
	}

	groups := GroupByNeighborhood(rows)
	require.Len(t, groups, 3)
	assert.Equal(t, "B", groups[0].Neighborhood)
	assert.Equal(t, "C", groups[1].Neighborhood)
	assert.Equal(t, "A", groups[2].Neighborhood)
}

func TestGuessZipMajorityWithDeterministicTie(t *testing.T) {
	rows := []domain.ScoreResult{
		scored(domain.Tract{CountyFIPS: "097", TractCode: "120100", TotalPop: 100}, 50), // 46219
		scored(domain.Tract{CountyFIPS: "097", TractCode: "220300", TotalPop: 100}, 50), // 46227
	}

	zip, confidence := guessZip(rows)
	// Tie between 46219 and 46227 resolves to the smaller zip.
	assert.Equal(t, "46219", zip)
	assert.Equal(t, 0.5, confidence)
}

func TestGuessZipSkippedWhenConfirmedZipPresent(t *testing.T) {
	rows := []domain.ScoreResult{
		{Tract: domain.Tract{CountyFIPS: "097", TractCode: "120100"}, ZipCode: "46219"},
	}

	zip, confidence := guessZip(rows)
	assert.Empty(t, zip)
	assert.Zero(t, confidence)
}

func TestDedupeCappedKeepsFirstThree(t *testing.T) {
	rows := []domain.ScoreResult{
		{Insights: []string{"a", "b"}},
		{Insights: []string{"b", "c", "d", "e"}},
	}

	got := dedupeCapped(rows, func(r domain.ScoreResult) []string { return r.Insights })
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
