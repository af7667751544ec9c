package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

const (
	requestTimeout = 30 * time.Second
	searchLimit    = 25
)

// apiError carries the upstream status so the fetcher can tell transient
// failures (retry) from permanent ones (don't).
type apiError struct {
	status int
}

func (e *apiError) Error() string {
	return fmt.Sprintf("listings API status %d", e.status)
}

func (e *apiError) transient() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// Client talks to the paid listings API. Every request carries the RapidAPI
// credential headers.
type Client struct {
	apiKey     string
	apiHost    string
	listURL    string
	detailURL  string
	httpClient *http.Client
}

func NewClient(apiKey, apiHost, listURL string) *Client {
	return &Client{
		apiKey:    apiKey,
		apiHost:   apiHost,
		listURL:   listURL,
		detailURL: strings.TrimSuffix(listURL, "/list") + "/detail",
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type searchRequest struct {
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
	PostalCode string         `json:"postal_code"`
	Status     []string       `json:"status"`
	ListPrice  *priceFilter   `json:"list_price,omitempty"`
	Sort       map[string]any `json:"sort"`
}

type priceFilter struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type listingPayload struct {
	PropertyID       string `json:"property_id"`
	ListPrice        int    `json:"list_price"`
	DaysOnMarket     *int   `json:"days_on_market"`
	ListDaysOnMarket *int   `json:"list_days_on_market"`
	Location         struct {
		Address struct {
			Line       string `json:"line"`
			PostalCode string `json:"postal_code"`
		} `json:"address"`
	} `json:"location"`
}

type searchResponse struct {
	Data struct {
		HomeSearch struct {
			Results []listingPayload `json:"results"`
		} `json:"home_search"`
	} `json:"data"`
}

type detailResponse struct {
	Data struct {
		Home listingPayload `json:"home"`
	} `json:"data"`
}

// Search lists active and under-contract properties for a zip code within the
// price band, newest listings first.
func (c *Client) Search(ctx context.Context, zipCode string, priceMin, priceMax int) ([]domain.Listing, error) {
	payload := searchRequest{
		Limit:      searchLimit,
		Offset:     0,
		PostalCode: zipCode,
		Status:     []string{"for_sale", "under_contract"},
		Sort:       map[string]any{"direction": "desc", "field": "list_date"},
	}
	if priceMax > 0 {
		payload.ListPrice = &priceFilter{Min: priceMin, Max: priceMax}
	}

	var out searchResponse
	if err := c.post(ctx, c.listURL, payload, &out); err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(out.Data.HomeSearch.Results))
	for _, rec := range out.Data.HomeSearch.Results {
		if rec.PropertyID == "" {
			continue
		}
		listings = append(listings, domain.Listing{
			ID:           rec.PropertyID,
			Price:        rec.ListPrice,
			Address:      rec.Location.Address.Line,
			ZipCode:      rec.Location.Address.PostalCode,
			DaysOnMarket: rec.dom(),
		})
	}
	return listings, nil
}

// LookupDOM fetches days-on-market for one listing id. nil means the upstream
// has no usable figure for the listing.
func (c *Client) LookupDOM(ctx context.Context, listingID string) (*int, error) {
	var out detailResponse
	url := c.detailURL + "?property_id=" + listingID
	if err := c.get(ctx, url, &out); err != nil {
		return nil, err
	}
	return out.Data.Home.dom(), nil
}

func (p listingPayload) dom() *int {
	for _, v := range []*int{p.DaysOnMarket, p.ListDaysOnMarket} {
		if v != nil && *v >= 0 {
			return v
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal listings request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("listings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &apiError{status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode listings response: %w", err)
	}
	return nil
}
