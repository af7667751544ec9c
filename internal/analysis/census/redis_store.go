package census

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/domain"
)

const snapshotKeyPrefix = "acs:snapshot:" // acs:snapshot:{county_fips}

// RedisStore keeps county snapshots in Redis so multiple instances share one
// 24h fetch window per county. TTL enforcement is delegated to Redis key
// expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(countyFIPS string) string {
	return snapshotKeyPrefix + countyFIPS
}

func (s *RedisStore) Get(ctx context.Context, countyFIPS string) (*domain.DemographicSnapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key(countyFIPS)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap domain.DemographicSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, true, nil
}

func (s *RedisStore) Set(ctx context.Context, snap *domain.DemographicSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snap.CountyFIPS), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}
