package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

const keyPrefix = "eligibility:result:"

// RedisCache stores one hash per user: field = target id, value = JSON
// result. The key expires with the TTL and each entry's EvaluatedAt is
// checked on read, so a hash refreshed by one target cannot keep another
// target's result alive.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func userKey(userID id.UserID) string {
	return keyPrefix + userID.String()
}

func (c *RedisCache) Get(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error) {
	raw, err := c.client.HGet(ctx, userKey(userID), string(targetID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read cached eligibility: %w", err)
	}
	var res models.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode cached eligibility: %w", err)
	}
	if stale(res, c.ttl, requestcontext.Now(ctx)) {
		return nil, sentinel.ErrNotFound
	}
	return &res, nil
}

func (c *RedisCache) Set(ctx context.Context, res *models.Result) error {
	if c.ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode eligibility: %w", err)
	}
	key := userKey(res.UserID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, string(res.TargetID), payload)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write cached eligibility: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userID id.UserID) error {
	if err := c.client.Del(ctx, userKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached eligibility: %w", err)
	}
	return nil
}

// InvalidateTarget drops the target's field from every user hash.
func (c *RedisCache) InvalidateTarget(ctx context.Context, targetID id.TargetID) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.HDel(ctx, iter.Val(), string(targetID)).Err(); err != nil {
			return fmt.Errorf("invalidate target %s: %w", targetID, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached eligibility: %w", err)
	}
	return nil
}
