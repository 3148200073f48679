package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

const keyPrefix = "pulse:session:"

type cachedClassification struct {
	Role      string `json:"role"`
	CoachName string `json:"coach_name"`
}

// RedisCache is the session cache for role + coach display name. A Redis
// failure is a cache miss, never a request failure.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, email string) (roles.Classification, bool) {
	raw, err := c.rdb.Get(ctx, keyPrefix+email).Bytes()
	if err != nil {
		return roles.Classification{}, false
	}
	var cached cachedClassification
	if err := json.Unmarshal(raw, &cached); err != nil {
		return roles.Classification{}, false
	}
	return roles.Classification{
		Role:      roles.Parse(cached.Role),
		CoachName: cached.CoachName,
	}, true
}

func (c *RedisCache) Set(ctx context.Context, email string, cl roles.Classification) {
	raw, err := json.Marshal(cachedClassification{
		Role:      cl.Role.String(),
		CoachName: cl.CoachName,
	})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+email, raw, c.ttl).Err(); err != nil {
		slog.Warn("session cache set failed", "user_email", email, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, email string) {
	if err := c.rdb.Del(ctx, keyPrefix+email).Err(); err != nil {
		slog.Warn("session cache invalidate failed", "user_email", email, "error", err)
	}
}
