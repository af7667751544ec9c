package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks upstream call counts for the two external data sources.
type Metrics struct {
	censusCalls    int64
	censusErrors   int64
	censusLatency  int64 // total nanoseconds
	marketSearches int64
	marketLookups  int64
	analyses       int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		censusCalls:    atomic.LoadInt64(&globalMetrics.censusCalls),
		censusErrors:   atomic.LoadInt64(&globalMetrics.censusErrors),
		censusLatency:  atomic.LoadInt64(&globalMetrics.censusLatency),
		marketSearches: atomic.LoadInt64(&globalMetrics.marketSearches),
		marketLookups:  atomic.LoadInt64(&globalMetrics.marketLookups),
		analyses:       atomic.LoadInt64(&globalMetrics.analyses),
	}
}

// ResetMetrics resets all metrics (useful for testing)
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.censusCalls, 0)
	atomic.StoreInt64(&globalMetrics.censusErrors, 0)
	atomic.StoreInt64(&globalMetrics.censusLatency, 0)
	atomic.StoreInt64(&globalMetrics.marketSearches, 0)
	atomic.StoreInt64(&globalMetrics.marketLookups, 0)
	atomic.StoreInt64(&globalMetrics.analyses, 0)
}

func recordCensusCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.censusCalls, 1)
	atomic.AddInt64(&globalMetrics.censusLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.censusErrors, 1)
	}
}

func recordMarketSearch() {
	atomic.AddInt64(&globalMetrics.marketSearches, 1)
}

func recordMarketLookup() {
	atomic.AddInt64(&globalMetrics.marketLookups, 1)
}

func recordAnalysis() {
	atomic.AddInt64(&globalMetrics.analyses, 1)
}

// CensusCalls reports how many county fetches reached the upstream.
func (m Metrics) CensusCalls() int64 { return m.censusCalls }

// CensusErrorRate returns the error rate as a percentage.
func (m Metrics) CensusErrorRate() float64 {
	if m.censusCalls == 0 {
		return 0
	}
	return float64(m.censusErrors) / float64(m.censusCalls) * 100
}

// AverageCensusLatency returns the average latency in milliseconds.
func (m Metrics) AverageCensusLatency() float64 {
	if m.censusCalls == 0 {
		return 0
	}
	return float64(m.censusLatency) / float64(m.censusCalls) / 1e6
}

// MarketSearches reports zip-level listing searches issued.
func (m Metrics) MarketSearches() int64 { return m.marketSearches }

// MarketLookups reports per-listing days-on-market lookups issued.
func (m Metrics) MarketLookups() int64 { return m.marketLookups }

// Analyses reports completed analysis requests.
func (m Metrics) Analyses() int64 { return m.analyses }
