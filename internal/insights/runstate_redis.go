package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// runStateTTL matches the freshness ceiling; an expired key just means
// the next request triggers a refresh.
const runStateTTL = 24 * time.Hour

// RedisRunStateStore shares run states across instances through Redis.
type RedisRunStateStore struct {
	client *redis.Client
}

// NewRedisRunStateStore creates a Redis-backed run state store.
func NewRedisRunStateStore(client *redis.Client) *RedisRunStateStore {
	return &RedisRunStateStore{client: client}
}

func runStateKey(userID string) string {
	return fmt.Sprintf("insights:%s:last_run", userID)
}

func (s *RedisRunStateStore) Get(ctx context.Context, userID string) (*RunState, error) {
	data, err := s.client.Get(ctx, runStateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run state: %w", err)
	}

	var state RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode run state: %w", err)
	}
	return &state, nil
}

func (s *RedisRunStateStore) Set(ctx context.Context, userID string, state RunState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}
	if err := s.client.Set(ctx, runStateKey(userID), data, runStateTTL).Err(); err != nil {
		return fmt.Errorf("failed to set run state: %w", err)
	}
	return nil
}
