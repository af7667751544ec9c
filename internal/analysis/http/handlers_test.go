package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/service"
)

type stubDemo struct{}

func (stubDemo) CountyData(_ context.Context, fips string) (*domain.DemographicSnapshot, error) {
	name, _ := domain.CountyName(fips)
	snap := &domain.DemographicSnapshot{CountyFIPS: fips, CountyName: name}
	if fips == "097" {
		snap.Tracts = []domain.Tract{
			{
				CountyFIPS: "097", CountyName: "Marion", TractCode: "350200",
				TotalPop: 4200, MedianHomeVal: 150000, MedianIncome: 52000,
				VacancyPct: 10, OwnerOccupancy: 68,
			},
			{
				CountyFIPS: "097", CountyName: "Marion", TractCode: "350100",
				TotalPop: 3000, MedianHomeVal: 120000, MedianIncome: 38000,
				VacancyPct: 14, OwnerOccupancy: 48,
			},
		}
	}
	return snap, nil
}

type stubMarket struct{}

func (stubMarket) Search(context.Context, string, int, int) ([]domain.Listing, error) {
	return nil, nil
}

func (stubMarket) DaysOnMarket(context.Context, string) (int, bool) {
	return 0, false
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	analyzer := service.NewAnalyzer(stubDemo{}, stubMarket{}, service.Options{})
	h := NewHandler(analyzer, Defaults{PriceMin: 100000, PriceMax: 250000, MaxMarketLookups: 10})
	r := gin.New()
	Register(r, h)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := setupRouter()

	w, body := doRequest(t, r, http.MethodGet, "/analyze")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["analysis_id"])
	assert.Equal(t, float64(2), body["total_tracts_analyzed"])

	opportunities := body["opportunities"].([]any)
	assert.Len(t, opportunities, 2)
}

func TestAnalyzeEndpointAcceptsPost(t *testing.T) {
	r := setupRouter()

	w, body := doRequest(t, r, http.MethodPost, "/analyze?top=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["opportunities"].([]any), 1)
}

func TestAnalyzeEndpointBadParam(t *testing.T) {
	r := setupRouter()

	w, body := doRequest(t, r, http.MethodGet, "/analyze?price_min=cheap")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "price_min")
}

func TestAnalyzeEndpointGroupedResponse(t *testing.T) {
	r := setupRouter()

	w, body := doRequest(t, r, http.MethodGet, "/analyze?group=neighborhood")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, true, body["grouped_by_neighborhood"])
	assert.NotContains(t, body, "opportunities")
	assert.NotEmpty(t, body["neighborhoods"])
}

func TestAnalyzeEndpointMinScoreFilter(t *testing.T) {
	r := setupRouter()

	w, body := doRequest(t, r, http.MethodGet, "/analyze?min_score=101")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, body, "opportunities")

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(0), summary["total_meeting_criteria"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouter()

	w, body := doRequest(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "census_calls")
	assert.Contains(t, body, "market_searches")
	assert.Contains(t, body, "analyses")
}
