package domain

import "time"

// Tract is one census tract with the demographic attributes used for scoring.
type Tract struct {
	StateFIPS      string  `json:"state"`
	CountyFIPS     string  `json:"county"`
	TractCode      string  `json:"tract"`
	TractID        string  `json:"tract_id"` // human form, e.g. "3419.02"
	CountyName     string  `json:"county_name"`
	Neighborhood   string  `json:"neighborhood"`
	TotalPop       int     `json:"total_pop"`
	HousingUnits   int     `json:"housing_units"`
	HousingVacant  int     `json:"housing_vacant"`
	VacancyPct     float64 `json:"vacancy_pct"`
	MedianHomeVal  int     `json:"median_home_value"`
	MedianIncome   int     `json:"median_income"`
	MedianRent     int     `json:"median_gross_rent"`
	OwnerOccupancy float64 `json:"owner_occupancy_pct"`
}

// Key returns the identity of a tract: county FIPS plus tract code.
func (t Tract) Key() string {
	return t.CountyFIPS + ":" + t.TractCode
}

// DemographicSnapshot holds the demographic variables for all tracts in one
// county, as fetched from the statistics API. Shared read-only by all tract
// computations in that county.
type DemographicSnapshot struct {
	CountyFIPS string    `json:"county_fips"`
	CountyName string    `json:"county_name"`
	Tracts     []Tract   `json:"tracts"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Listing is one for-sale property returned by the listings API. DaysOnMarket
// is nil when the market lookup failed or the upstream omitted the field.
type Listing struct {
	ID           string `json:"id"`
	Price        int    `json:"price"`
	Address      string `json:"address"`
	ZipCode      string `json:"zip_code"`
	DaysOnMarket *int   `json:"days_on_market,omitempty"`
	TractKey     string `json:"tract_key,omitempty"`
}

// NeighborhoodProfile is the precomputed enrichment record for one
// neighborhood. Loaded once at process start, read-only afterwards.
type NeighborhoodProfile struct {
	WalkScore     float64
	SchoolRating  float64
	SafetyScore   float64
	AmenityScore  float64
	NotableRetail bool
}

// FactorBreakdown records the contribution of each signal to a final score.
type FactorBreakdown struct {
	BandFitScore      float64 `json:"band_fit_score"`
	IncomeScore       float64 `json:"income_score"`
	VacancyScore      float64 `json:"vacancy_score"`
	OwnerScore        float64 `json:"owner_score"`
	BaseScore         float64 `json:"base_score"`
	VelocityBonus     float64 `json:"velocity_bonus"`
	NeighborhoodBonus float64 `json:"neighborhood_bonus"`
	GapRatio          float64 `json:"gap_ratio"`
}

// ScoreResult is the composite flip-potential score for one tract. Recomputed
// on every analysis request, never persisted.
type ScoreResult struct {
	Tract        Tract           `json:"tract"`
	FinalScore   float64         `json:"final_score"`
	Label        string          `json:"label"`
	Factors      FactorBreakdown `json:"factors"`
	DaysOnMarket *int            `json:"days_on_market,omitempty"`
	ZipCode      string          `json:"zip_code,omitempty"`
	Insights     []string        `json:"insights,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// TractFailure records why a tract (or a whole county of tracts) could not be
// scored. Failures are reported alongside results, never abort the batch.
type TractFailure struct {
	CountyFIPS string `json:"county_fips"`
	CountyName string `json:"county_name"`
	TractCode  string `json:"tract_code,omitempty"`
	Reason     string `json:"reason"`
}

// PriceBand is the buy-side budget window an analysis is run against.
type PriceBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
