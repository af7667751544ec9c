package market

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

const (
	defaultBackoff = 250 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

type domClient interface {
	Search(ctx context.Context, zipCode string, priceMin, priceMax int) ([]domain.Listing, error)
	LookupDOM(ctx context.Context, listingID string) (*int, error)
}

// FetchConfig bounds the fetcher's appetite for the paid upstream.
type FetchConfig struct {
	MaxConcurrent  int
	MaxRetries     int
	RequestsPerSec float64
	BackoffInitial time.Duration
}

// Fetcher front-ends the listings API with a process-lifetime per-listing
// cache, a rate limiter, and a bounded in-flight count. A failed lookup
// degrades to "no signal"; it never fails an analysis.
type Fetcher struct {
	client  domClient
	cfg     FetchConfig
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	group   singleflight.Group

	mu    sync.RWMutex
	cache map[string]*int
}

func NewFetcher(client domClient, cfg FetchConfig) *Fetcher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = defaultBackoff
	}
	return &Fetcher{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.MaxConcurrent*2),
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		cache:   make(map[string]*int),
	}
}

// Search lists in-band properties for a zip code, subject to the same
// in-flight bound and rate limit as per-listing lookups.
func (f *Fetcher) Search(ctx context.Context, zipCode string, priceMin, priceMax int) ([]domain.Listing, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return f.client.Search(ctx, zipCode, priceMin, priceMax)
}

// DaysOnMarket resolves the market-velocity signal for one listing. The
// second return is false when no signal is available; callers must treat that
// as zero velocity, not as an error.
func (f *Fetcher) DaysOnMarket(ctx context.Context, listingID string) (int, bool) {
	if listingID == "" {
		return 0, false
	}

	f.mu.RLock()
	cached, hit := f.cache[listingID]
	f.mu.RUnlock()
	if hit {
		return deref(cached)
	}

	v, err, _ := f.group.Do(listingID, func() (interface{}, error) {
		f.mu.RLock()
		cached, hit := f.cache[listingID]
		f.mu.RUnlock()
		if hit {
			return cached, nil
		}
		return f.lookup(ctx, listingID)
	})
	if err != nil {
		return 0, false
	}
	return deref(v.(*int))
}

// lookup runs the retry loop for one listing and records the outcome in the
// cache. Permanent upstream answers (2xx without a figure, 4xx) are cached;
// exhausted transient failures are not, so a later analysis may try again.
func (f *Fetcher) lookup(ctx context.Context, listingID string) (*int, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)

	backoff := f.cfg.BackoffInitial
	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		dom, err := f.client.LookupDOM(ctx, listingID)
		if err == nil {
			f.put(listingID, dom)
			return dom, nil
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) && !apiErr.transient() {
			// 4xx is permanent for this listing.
			f.put(listingID, nil)
			return nil, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt >= f.cfg.MaxRetries {
			log.Printf("[warn] operation=days_on_market listing=%s giving up after %d attempts: %v",
				listingID, attempt+1, err)
			return nil, err
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (f *Fetcher) put(listingID string, dom *int) {
	f.mu.Lock()
	f.cache[listingID] = dom
	f.mu.Unlock()
}

func deref(v *int) (int, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
