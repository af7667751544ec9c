package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

const acsPayload = `[
["B01003_001E","B25001_001E","B25002_003E","B25077_001E","B19013_001E","B25064_001E","B25003_001E","B25003_002E","state","county","tract"],
["4200","1800","180","150000","52000","900","1620","1100","18","097","350200"],
["2100","900","45","210000","61000","1050","855","600","18","097","360100"]
]`

func newACSServer(t *testing.T, calls *int64, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		if r.URL.Path != "/data/2023/acs/acs5" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestCountyDataParsesTracts(t *testing.T) {
	var calls int64
	server := newACSServer(t, &calls, http.StatusOK, acsPayload)
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	snap, err := f.CountyData(context.Background(), "097")
	require.NoError(t, err)
	require.Len(t, snap.Tracts, 2)

	tr := snap.Tracts[0]
	assert.Equal(t, "Marion", tr.CountyName)
	assert.Equal(t, "3502.00", tr.TractID)
	assert.Equal(t, 4200, tr.TotalPop)
	assert.Equal(t, 150000, tr.MedianHomeVal)
	assert.Equal(t, 52000, tr.MedianIncome)
	assert.Equal(t, 10.0, tr.VacancyPct)
	assert.Equal(t, 67.9, tr.OwnerOccupancy)
	assert.Equal(t, "Indianapolis - Near Eastside/Downtown", tr.Neighborhood)
}

func TestCountyDataCacheHitSkipsUpstream(t *testing.T) {
	var calls int64
	server := newACSServer(t, &calls, http.StatusOK, acsPayload)
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	_, err := f.CountyData(context.Background(), "097")
	require.NoError(t, err)
	_, err = f.CountyData(context.Background(), "097")
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestCountyDataExpiredEntryRefetches(t *testing.T) {
	var calls int64
	server := newACSServer(t, &calls, http.StatusOK, acsPayload)
	defer server.Close()

	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	f := NewFetcher(NewClient(server.URL, "2023"), store, time.Hour)

	_, err := f.CountyData(context.Background(), "097")
	require.NoError(t, err)

	// Entry is past its TTL; the next call must go upstream again.
	now = now.Add(2 * time.Hour)
	_, err = f.CountyData(context.Background(), "097")
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCountyDataInvalidRegion(t *testing.T) {
	var calls int64
	server := newACSServer(t, &calls, http.StatusOK, acsPayload)
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	_, err := f.CountyData(context.Background(), "999")
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestCountyDataFailureNotCached(t *testing.T) {
	var calls int64
	server := newACSServer(t, &calls, http.StatusNotFound, "no such dataset")
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	_, err := f.CountyData(context.Background(), "097")
	assert.ErrorIs(t, err, domain.ErrUpstreamData)

	// The failure must not populate the cache: the next call retries upstream.
	_, err = f.CountyData(context.Background(), "097")
	assert.ErrorIs(t, err, domain.ErrUpstreamData)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCountyDataMalformedPayload(t *testing.T) {
	var calls int64
	server := newACSServer(t, &calls, http.StatusOK, "{not the array format}")
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	_, err := f.CountyData(context.Background(), "097")
	assert.ErrorIs(t, err, domain.ErrUpstreamData)
}

func TestCountyDataRetriesRateLimit(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(acsPayload))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	snap, err := f.CountyData(context.Background(), "097")
	require.NoError(t, err)
	assert.Len(t, snap.Tracts, 2)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCountyDataSingleFlight(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(acsPayload))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, "2023"), NewMemoryStore(), time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := f.CountyData(context.Background(), "097")
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	// Concurrent callers for the same county must join one upstream call.
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}
