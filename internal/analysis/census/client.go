package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/enrichment"
)

// ACS 5-year variables fetched per tract.
const (
	varTotalPop      = "B01003_001E"
	varHousingUnits  = "B25001_001E"
	varHousingVacant = "B25002_003E"
	varMedianValue   = "B25077_001E"
	varMedianIncome  = "B19013_001E"
	varMedianRent    = "B25064_001E"
	varOccupiedUnits = "B25003_001E"
	varOwnerOccupied = "B25003_002E"
)

var acsVars = []string{
	varTotalPop, varHousingUnits, varHousingVacant,
	varMedianValue, varMedianIncome, varMedianRent,
	varOccupiedUnits, varOwnerOccupied,
}

const (
	requestTimeout  = 30 * time.Second
	maxFetchRetries = 3
	initialBackoff  = 500 * time.Millisecond
	maxBackoff      = 5 * time.Second
)

// Client fetches per-tract demographic variables from the public ACS API.
// No credential is required by the upstream.
type Client struct {
	baseURL    string
	year       string
	httpClient *http.Client
}

func NewClient(baseURL, year string) *Client {
	return &Client{
		baseURL: baseURL,
		year:    year,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// FetchCounty issues one GET for all tracts of a county and parses the
// response into a snapshot. Transient upstream trouble (429, 5xx) is retried
// with backoff; anything still failing maps to domain.ErrUpstreamData.
func (c *Client) FetchCounty(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, error) {
	countyName, ok := domain.CountyName(countyFIPS)
	if !ok {
		return nil, fmt.Errorf("county %s: %w", countyFIPS, domain.ErrInvalidRegion)
	}

	reqURL := c.buildURL(countyFIPS)

	backoff := initialBackoff
	var lastStatus int
	for attempt := 0; attempt < maxFetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
			case <-ctx.Done():
				return nil, fmt.Errorf("census fetch for county %s: %w", countyFIPS, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("census fetch for county %s: %w", countyFIPS, ctx.Err())
			}
			lastStatus = 0
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastStatus = resp.StatusCode
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("census API status %d for county %s: %w",
				resp.StatusCode, countyFIPS, domain.ErrUpstreamData)
		}

		snap, err := parseSnapshot(resp.Body, countyFIPS, countyName)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		return snap, nil
	}

	return nil, fmt.Errorf("census API unavailable for county %s (last status %d): %w",
		countyFIPS, lastStatus, domain.ErrUpstreamData)
}

func (c *Client) buildURL(countyFIPS string) string {
	q := url.Values{}
	get := ""
	for i, v := range acsVars {
		if i > 0 {
			get += ","
		}
		get += v
	}
	q.Set("get", get)
	q.Set("for", "tract:*")
	q.Set("in", fmt.Sprintf("state:%s county:%s", domain.StateFIPS, countyFIPS))
	return fmt.Sprintf("%s/data/%s/acs/acs5?%s", c.baseURL, c.year, q.Encode())
}

// parseSnapshot decodes the ACS array-of-arrays payload: the first row is the
// header, every following row is one tract.
func parseSnapshot(r io.Reader, countyFIPS, countyName string) (*domain.DemographicSnapshot, error) {
	var rows [][]string
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode census payload for county %s: %w", countyFIPS, domain.ErrUpstreamData)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("census payload for county %s has no tract rows: %w", countyFIPS, domain.ErrUpstreamData)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[h] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	snap := &domain.DemographicSnapshot{
		CountyFIPS: countyFIPS,
		CountyName: countyName,
		FetchedAt:  time.Now().UTC(),
	}

	for _, row := range rows[1:] {
		tractCode := field(row, "tract")
		housingUnits := safeInt(field(row, varHousingUnits))
		vacant := safeInt(field(row, varHousingVacant))

		vacancyPct := 0.0
		if housingUnits > 0 && vacant >= 0 {
			vacancyPct = float64(vacant) / float64(housingUnits) * 100.0
		}

		occupied := safeInt(field(row, varOccupiedUnits))
		ownerOccupied := safeInt(field(row, varOwnerOccupied))
		ownerPct := 0.0
		if occupied > 0 && ownerOccupied >= 0 {
			ownerPct = float64(ownerOccupied) / float64(occupied) * 100.0
		}

		snap.Tracts = append(snap.Tracts, domain.Tract{
			StateFIPS:      field(row, "state"),
			CountyFIPS:     countyFIPS,
			TractCode:      tractCode,
			TractID:        enrichment.HumanTractID(tractCode),
			CountyName:     countyName,
			Neighborhood:   enrichment.Label(countyName, tractCode),
			TotalPop:       safeInt(field(row, varTotalPop)),
			HousingUnits:   housingUnits,
			HousingVacant:  vacant,
			VacancyPct:     round1(vacancyPct),
			MedianHomeVal:  safeInt(field(row, varMedianValue)),
			MedianIncome:   safeInt(field(row, varMedianIncome)),
			MedianRent:     safeInt(field(row, varMedianRent)),
			OwnerOccupancy: round1(ownerPct),
		})
	}

	return snap, nil
}

// safeInt mirrors the upstream's habit of sending numbers as strings, floats,
// or sentinel negatives. Unparseable values come back as 0.
func safeInt(s string) int {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
