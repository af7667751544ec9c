package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSendsCredentialsAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/properties/v3/list", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "realty.example.com", r.Header.Get("x-rapidapi-host"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "46219", body["postal_code"])
		price := body["list_price"].(map[string]any)
		assert.Equal(t, float64(100000), price["min"])
		assert.Equal(t, float64(200000), price["max"])

		w.Write([]byte(`{"data":{"home_search":{"results":[
			{"property_id":"P1","list_price":150000,"days_on_market":21,
			 "location":{"address":{"line":"123 Main St","postal_code":"46219"}}},
			{"property_id":"","list_price":1},
			{"property_id":"P2","list_price":180000,"list_days_on_market":40,
			 "location":{"address":{"line":"9 Oak Ave","postal_code":"46219"}}}
		]}}}`))
	}))
	defer server.Close()

	c := NewClient("test-key", "realty.example.com", server.URL+"/properties/v3/list")

	listings, err := c.Search(context.Background(), "46219", 100000, 200000)
	require.NoError(t, err)
	require.Len(t, listings, 2) // record with no id is dropped

	assert.Equal(t, "P1", listings[0].ID)
	assert.Equal(t, 150000, listings[0].Price)
	require.NotNil(t, listings[0].DaysOnMarket)
	assert.Equal(t, 21, *listings[0].DaysOnMarket)

	// list_days_on_market is the fallback field.
	require.NotNil(t, listings[1].DaysOnMarket)
	assert.Equal(t, 40, *listings[1].DaysOnMarket)
}

func TestLookupDOMParsesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties/v3/detail", r.URL.Path)
		assert.Equal(t, "P1", r.URL.Query().Get("property_id"))
		w.Write([]byte(`{"data":{"home":{"property_id":"P1","days_on_market":33}}}`))
	}))
	defer server.Close()

	c := NewClient("test-key", "realty.example.com", server.URL+"/properties/v3/list")

	dom, err := c.LookupDOM(context.Background(), "P1")
	require.NoError(t, err)
	require.NotNil(t, dom)
	assert.Equal(t, 33, *dom)
}

func TestLookupDOMNegativeValueIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"home":{"property_id":"P1","days_on_market":-1}}}`))
	}))
	defer server.Close()

	c := NewClient("test-key", "realty.example.com", server.URL+"/properties/v3/list")

	dom, err := c.LookupDOM(context.Background(), "P1")
	require.NoError(t, err)
	assert.Nil(t, dom)
}

func TestClientSurfacesUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient("test-key", "realty.example.com", server.URL+"/properties/v3/list")

	_, err := c.LookupDOM(context.Background(), "P1")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.status)
	assert.True(t, apiErr.transient())
}
