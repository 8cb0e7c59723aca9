package matching

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/models"

	"github.com/redis/go-redis/v9"
)

const roleCachePrefix = "allocation:role:"

// CachedRoleSource serves role requirements from Redis and falls back to the
// wrapped source on a miss. Cache failures are logged, never returned.
type CachedRoleSource struct {
	next   RoleSource
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRoleSource(next RoleSource, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedRoleSource {
	return &CachedRoleSource{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "role-cache"}),
	}
}

func roleCacheKey(projectID, roleID string) string {
	return roleCachePrefix + projectID + ":" + roleID
}

func (c *CachedRoleSource) LoadRole(ctx context.Context, projectID, roleID string) (*models.RoleRequirement, error) {
	key := roleCacheKey(projectID, roleID)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var role models.RoleRequirement
		if jsonErr := json.Unmarshal([]byte(val), &role); jsonErr == nil {
			return &role, nil
		}
		c.logger.Warn("discarding unreadable cached role", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("role cache read failed", map[string]interface{}{"key": key, "error": err})
	}

	role, err := c.next.LoadRole(ctx, projectID, roleID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(role)
	if err != nil {
		return role, nil
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("role cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return role, nil
}

// Invalidate drops a cached role, e.g. after its requirements change.
func (c *CachedRoleSource) Invalidate(ctx context.Context, projectID, roleID string) error {
	return c.redis.Del(ctx, roleCacheKey(projectID, roleID)).Err()
}
