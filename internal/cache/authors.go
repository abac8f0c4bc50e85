// Package cache holds the redis snapshot cache for author profiles on
// the feed read path. The cache is best-effort: every miss or redis
// failure just falls through to the primary store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/newsfeed/internal/model"
)

type AuthorCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAuthorCache(rdb *redis.Client, ttl time.Duration) *AuthorCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AuthorCache{rdb: rdb, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("author:%s", id) }

// GetProfiles returns whatever snapshots are cached for ids; absent or
// undecodable entries are simply missing from the map.
func (c *AuthorCache) GetProfiles(ctx context.Context, ids []string) map[string]*model.UserProfile {
	out := make(map[string]*model.UserProfile, len(ids))
	if len(ids) == 0 {
		return out
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return out
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var p model.UserProfile
		if err := json.Unmarshal([]byte(str), &p); err == nil {
			out[ids[i]] = &p
		}
	}
	return out
}

func (c *AuthorCache) SetProfiles(ctx context.Context, profiles []*model.UserProfile) {
	if len(profiles) == 0 {
		return
	}
	pipe := c.rdb.Pipeline()
	for _, p := range profiles {
		if payload, err := json.Marshal(p); err == nil {
			pipe.Set(ctx, key(p.ID), payload, c.ttl)
		}
	}
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops cached snapshots after a profile update.
func (c *AuthorCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
