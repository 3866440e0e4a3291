package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

const jtiKeyPrefix = "eligibility:jti:"

// RedisLedger marks token ids with SET NX; the key lives until the token
// would have expired anyway.
type RedisLedger struct {
	client redis.Cmdable
}

func NewRedisLedger(client redis.Cmdable) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) MarkUsed(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(requestcontext.Now(ctx))
	if ttl < time.Second {
		ttl = time.Second
	}
	ok, err := l.client.SetNX(ctx, jtiKeyPrefix+jti, 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: mark token used: %v", sentinel.ErrUnavailable, err)
	}
	if !ok {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}
