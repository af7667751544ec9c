package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/service"
)

// Defaults are the request parameter fallbacks supplied by configuration.
type Defaults struct {
	PriceMin         int
	PriceMax         int
	MaxMarketLookups int
}

type Handler struct {
	analyzer *service.Analyzer
	defaults Defaults
}

func NewHandler(analyzer *service.Analyzer, defaults Defaults) *Handler {
	return &Handler{analyzer: analyzer, defaults: defaults}
}

// Analyze runs a flip-potential analysis across the supported region.
func (h *Handler) Analyze(c *gin.Context) {
	req, err := h.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Status: "success",
		Result: result,
	})
}

// Metrics reports upstream call counters for debugging.
func (h *Handler) Metrics(c *gin.Context) {
	m := service.GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"analyses":               m.Analyses(),
		"census_calls":           m.CensusCalls(),
		"census_error_rate_pct":  m.CensusErrorRate(),
		"census_avg_latency_ms":  m.AverageCensusLatency(),
		"market_searches":        m.MarketSearches(),
		"market_listing_lookups": m.MarketLookups(),
	})
}

func (h *Handler) parseRequest(c *gin.Context) (service.Request, error) {
	req := service.Request{
		PriceMin: h.defaults.PriceMin,
		PriceMax: h.defaults.PriceMax,
	}

	var err error
	if req.PriceMin, err = intParam(c, "price_min", req.PriceMin); err != nil {
		return req, err
	}
	if req.PriceMax, err = intParam(c, "price_max", req.PriceMax); err != nil {
		return req, err
	}
	if req.TopN, err = intParam(c, "top", 0); err != nil {
		return req, err
	}
	if req.MaxMarketLookups, err = intParam(c, "max_market_lookups", h.defaults.MaxMarketLookups); err != nil {
		return req, err
	}
	if req.MinScore, err = floatParam(c, "min_score", 0); err != nil {
		return req, err
	}

	req.WithMarketData = strings.EqualFold(c.Query("market_data"), "true")
	req.GroupByNeighborhood = strings.EqualFold(c.Query("group"), "neighborhood")
	return req, nil
}

func intParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name}
	}
	return v, nil
}

func floatParam(c *gin.Context, name string, fallback float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &paramError{name: name}
	}
	return v, nil
}

type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "invalid value for " + e.name
}
