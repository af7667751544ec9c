package census

import (
	"context"
	"sync"
	"time"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

// SnapshotStore is the cache backend for county snapshots. Implementations
// must expire entries after the TTL passed to Set; Get never returns an entry
// past its TTL.
type SnapshotStore interface {
	Get(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, bool, error)
	Set(ctx context.Context, snap *domain.DemographicSnapshot, ttl time.Duration) error
}

type memoryEntry struct {
	snap      *domain.DemographicSnapshot
	expiresAt time.Time
}

// MemoryStore is the default in-process snapshot store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swappable for TTL tests.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, countyFIPS string) (*domain.DemographicSnapshot, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[countyFIPS]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.snap, true, nil
}

func (s *MemoryStore) Set(_ context.Context, snap *domain.DemographicSnapshot, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[snap.CountyFIPS] = memoryEntry{
		snap:      snap,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}
