package census

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

// DefaultTTL is how long a county snapshot stays valid without a refetch.
const DefaultTTL = 24 * time.Hour

type upstream interface {
	FetchCounty(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, error)
}

// Fetcher serves county snapshots from the store, populating it from the ACS
// API on miss. Population is single-flighted per county key: concurrent
// callers for the same county join one upstream call instead of issuing
// duplicates. Failed fetches are never cached, so the next caller retries.
type Fetcher struct {
	client upstream
	store  SnapshotStore
	ttl    time.Duration
	group  singleflight.Group
}

func NewFetcher(client upstream, store SnapshotStore, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Fetcher{
		client: client,
		store:  store,
		ttl:    ttl,
	}
}

// CountyData returns the demographic snapshot for a supported county,
// from cache when the entry is younger than the TTL.
func (f *Fetcher) CountyData(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, error) {
	if _, ok := domain.CountyName(countyFIPS); !ok {
		return nil, fmt.Errorf("county %s: %w", countyFIPS, domain.ErrInvalidRegion)
	}

	if snap, hit, err := f.store.Get(ctx, countyFIPS); err == nil && hit {
		return snap, nil
	} else if err != nil {
		log.Printf("[warn] operation=county_data snapshot store read failed for county %s: %v", countyFIPS, err)
	}

	v, err, _ := f.group.Do(countyFIPS, func() (interface{}, error) {
		// A caller that queued behind the winning flight may find the store
		// already populated.
		if snap, hit, err := f.store.Get(ctx, countyFIPS); err == nil && hit {
			return snap, nil
		}
		return f.fetchAndStore(ctx, countyFIPS)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.DemographicSnapshot), nil
}

// Refresh bypasses the cache and repopulates the store for one county. Used
// by the nightly pre-warm job.
func (f *Fetcher) Refresh(ctx context.Context, countyFIPS string) error {
	if _, ok := domain.CountyName(countyFIPS); !ok {
		return fmt.Errorf("county %s: %w", countyFIPS, domain.ErrInvalidRegion)
	}
	_, err := f.fetchAndStore(ctx, countyFIPS)
	return err
}

func (f *Fetcher) fetchAndStore(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, error) {
	snap, err := f.client.FetchCounty(ctx, countyFIPS)
	if err != nil {
		return nil, err
	}
	if err := f.store.Set(ctx, snap, f.ttl); err != nil {
		// A write failure degrades to refetching next time; the snapshot we
		// already hold is still good.
		log.Printf("[warn] operation=county_data snapshot store write failed for county %s: %v", countyFIPS, err)
	}
	return snap, nil
}
