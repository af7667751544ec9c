package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/enrichment"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/scoring"
)

// DemographicFetcher supplies cached per-county demographic snapshots.
type DemographicFetcher interface {
	CountyData(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, error)
}

// MarketFetcher supplies listings and per-listing market-velocity signals.
type MarketFetcher interface {
	Search(ctx context.Context, zipCode string, priceMin, priceMax int) ([]domain.Listing, error)
	DaysOnMarket(ctx context.Context, listingID string) (int, bool)
}

// Options bounds one analysis run.
type Options struct {
	MaxMarketLookups int
	Timeout          time.Duration
}

const maxMarketLookupsCap = 50

// Analyzer drives fetch, score, rank and top-N selection across the supported
// region. Partial failures for one county or listing never abort the batch.
type Analyzer struct {
	demo   DemographicFetcher
	market MarketFetcher
	opts   Options
}

func NewAnalyzer(demo DemographicFetcher, market MarketFetcher, opts Options) *Analyzer {
	if opts.MaxMarketLookups <= 0 {
		opts.MaxMarketLookups = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Analyzer{demo: demo, market: market, opts: opts}
}

// Request is one analysis invocation.
type Request struct {
	PriceMin            int
	PriceMax            int
	TopN                int
	MinScore            float64
	WithMarketData      bool
	GroupByNeighborhood bool
	MaxMarketLookups    int
}

// Summary condenses a ranked result set.
type Summary struct {
	TopScore             float64 `json:"top_score"`
	AvgScore             float64 `json:"avg_score"`
	TotalMeetingCriteria int     `json:"total_meeting_criteria"`
}

// Result is the outcome of one analysis: a best-effort ranked list plus the
// tracts that could not be scored and why.
type Result struct {
	AnalysisID            string                 `json:"analysis_id"`
	TotalTractsAnalyzed   int                    `json:"total_tracts_analyzed"`
	Opportunities         []domain.ScoreResult   `json:"opportunities,omitempty"`
	Neighborhoods         []NeighborhoodSummary  `json:"neighborhoods,omitempty"`
	GroupedByNeighborhood bool                   `json:"grouped_by_neighborhood,omitempty"`
	Summary               Summary                `json:"summary"`
	PriceBand             domain.PriceBand       `json:"price_band_used"`
	MarketDataEnabled     bool                   `json:"market_data_enabled"`
	Failures              []domain.TractFailure  `json:"errors,omitempty"`
}

// Analyze runs the full pipeline under the configured overall deadline.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	logger := NewLogger(ctx)
	defer recordAnalysis()

	band := domain.PriceBand{Min: req.PriceMin, Max: req.PriceMax}
	if band.Min > band.Max {
		band.Min, band.Max = band.Max, band.Min
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	snaps, failures := a.fetchCounties(ctx, logger)

	// County order is fixed, so the tract list (and therefore tie order in
	// the ranked output) is deterministic regardless of fetch completion
	// order.
	var tracts []domain.Tract
	for _, fips := range domain.SupportedCountyFIPS() {
		if snap, ok := snaps[fips]; ok {
			tracts = append(tracts, snap.Tracts...)
		}
	}

	stats := scoring.BuildRegionStats(tracts, band)

	results := make([]domain.ScoreResult, 0, len(tracts))
	for _, t := range tracts {
		results = append(results, scoring.Score(t, stats, nil, profileFor(t), band))
	}

	if req.WithMarketData {
		a.applyMarketData(ctx, logger, results, stats, band, lookupBudget(req, a.opts))
	}

	ranked := make([]domain.ScoreResult, len(results))
	copy(ranked, results)
	scoring.Prioritize(ranked)

	filtered := ranked[:0:0]
	for _, r := range ranked {
		if r.FinalScore >= req.MinScore {
			filtered = append(filtered, r)
		}
	}

	res := &Result{
		AnalysisID:          uuid.New().String(),
		TotalTractsAnalyzed: len(tracts),
		Summary:             summarize(filtered),
		PriceBand:           band,
		MarketDataEnabled:   req.WithMarketData,
		Failures:            failures,
	}

	topN := req.TopN
	if topN <= 0 || topN > len(filtered) {
		topN = len(filtered)
	}

	if req.GroupByNeighborhood {
		groups := GroupByNeighborhood(filtered)
		res.Summary = summarizeGroups(groups)
		if topN < len(groups) {
			groups = groups[:topN]
		}
		res.Neighborhoods = groups
		res.GroupedByNeighborhood = true
	} else {
		res.Opportunities = filtered[:topN]
	}

	logger.LogInfof("analyze", "tracts=%d failures=%d market_data=%t",
		len(tracts), len(failures), req.WithMarketData)
	return res, nil
}

// fetchCounties pulls every supported county concurrently. A failed county is
// recorded and skipped; its siblings still score.
func (a *Analyzer) fetchCounties(ctx context.Context, logger *Logger) (map[string]*domain.DemographicSnapshot, []domain.TractFailure) {
	var (
		mu       sync.Mutex
		snaps    = make(map[string]*domain.DemographicSnapshot)
		failures []domain.TractFailure
	)

	var g errgroup.Group
	for _, fips := range domain.SupportedCountyFIPS() {
		fips := fips
		g.Go(func() error {
			start := time.Now()
			snap, err := a.demo.CountyData(ctx, fips)
			recordCensusCall(time.Since(start), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				name, _ := domain.CountyName(fips)
				logger.LogWarnf("fetch_county", "county=%s error=%v", fips, err)
				failures = append(failures, domain.TractFailure{
					CountyFIPS: fips,
					CountyName: name,
					Reason:     err.Error(),
				})
				return nil
			}
			snaps[fips] = snap
			return nil
		})
	}
	g.Wait()

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].CountyFIPS < failures[j].CountyFIPS
	})
	return snaps, failures
}

// applyMarketData enriches the strongest candidates with a market-velocity
// signal and re-scores them. Lookups are capped by budget; one search runs
// per distinct zip; any failure leaves the affected tracts at zero velocity.
func (a *Analyzer) applyMarketData(ctx context.Context, logger *Logger, results []domain.ScoreResult, stats scoring.RegionStats, band domain.PriceBand, budget int) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return results[order[i]].FinalScore > results[order[j]].FinalScore
	})

	type target struct {
		idx int
		zip string
	}
	var targets []target
	var zips []string
	seen := make(map[string]bool)
	for _, idx := range order {
		if len(targets) >= budget {
			break
		}
		t := results[idx].Tract
		zip, ok := enrichment.ZipForTract(t.CountyFIPS, t.TractCode)
		if !ok {
			continue
		}
		targets = append(targets, target{idx: idx, zip: zip})
		if !seen[zip] {
			seen[zip] = true
			zips = append(zips, zip)
		}
	}

	var mu sync.Mutex
	doms := make(map[string]int)
	var g errgroup.Group
	for _, zip := range zips {
		zip := zip
		g.Go(func() error {
			dom, ok := a.medianDOM(ctx, logger, zip, band)
			if ok {
				mu.Lock()
				doms[zip] = dom
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	for _, tg := range targets {
		dom, ok := doms[tg.zip]
		if !ok {
			continue
		}
		d := dom
		t := results[tg.idx].Tract
		rescored := scoring.Score(t, stats, &d, profileFor(t), band)
		rescored.ZipCode = tg.zip
		results[tg.idx] = rescored
	}
}

// medianDOM searches a zip's in-band listings and reduces their per-listing
// days-on-market values to a median signal.
func (a *Analyzer) medianDOM(ctx context.Context, logger *Logger, zip string, band domain.PriceBand) (int, bool) {
	recordMarketSearch()
	listings, err := a.market.Search(ctx, zip, band.Min, band.Max)
	if err != nil {
		logger.LogWarnf("market_search", "zip=%s error=%v", zip, err)
		return 0, false
	}

	var days []int
	for _, l := range listings {
		if l.DaysOnMarket != nil && *l.DaysOnMarket >= 0 {
			days = append(days, *l.DaysOnMarket)
			continue
		}
		recordMarketLookup()
		if dom, ok := a.market.DaysOnMarket(ctx, l.ID); ok {
			days = append(days, dom)
		}
	}
	if len(days) == 0 {
		return 0, false
	}
	sort.Ints(days)
	return days[len(days)/2], true
}

func profileFor(t domain.Tract) *domain.NeighborhoodProfile {
	p, ok := enrichment.Profile(t.Neighborhood)
	if !ok {
		return nil
	}
	return &p
}

func lookupBudget(req Request, opts Options) int {
	budget := req.MaxMarketLookups
	if budget <= 0 {
		budget = opts.MaxMarketLookups
	}
	if budget > maxMarketLookupsCap {
		budget = maxMarketLookupsCap
	}
	return budget
}

func summarize(results []domain.ScoreResult) Summary {
	s := Summary{TotalMeetingCriteria: len(results)}
	if len(results) == 0 {
		return s
	}
	s.TopScore = results[0].FinalScore
	total := 0.0
	for _, r := range results {
		total += r.FinalScore
	}
	s.AvgScore = round1(total / float64(len(results)))
	return s
}
