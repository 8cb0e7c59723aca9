package cursor

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "allocation:cursor:"

// advanceScript runs GET, wrap and SET as one atomic step on the server.
var advanceScript = redis.NewScript(`
local last = tonumber(redis.call('GET', KEYS[1]) or '0') or 0
local size = tonumber(ARGV[1])
local nextIndex = (last + 1) % size
redis.call('SET', KEYS[1], nextIndex)
return nextIndex
`)

// RedisStore keeps cursors as plain integer keys.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func Key(projectID, roleID string) string {
	return keyPrefix + projectID + ":" + roleID
}

func (s *RedisStore) Next(ctx context.Context, projectID, roleID string, poolSize int) (int, error) {
	if poolSize <= 0 {
		return 0, ErrNoRecruitersAvailable
	}
	if err := validateKey(projectID, roleID); err != nil {
		return 0, err
	}

	next, err := advanceScript.Run(ctx, s.client, []string{Key(projectID, roleID)}, poolSize).Int()
	if err != nil {
		return 0, fmt.Errorf("cursor %s/%s: %w", projectID, roleID, err)
	}
	return next, nil
}

func (s *RedisStore) Reset(ctx context.Context, projectID, roleID string) error {
	if err := validateKey(projectID, roleID); err != nil {
		return err
	}
	if err := s.client.Set(ctx, Key(projectID, roleID), 0, 0).Err(); err != nil {
		return fmt.Errorf("reset cursor %s/%s: %w", projectID, roleID, err)
	}
	return nil
}
