//go:build integration

package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"impulsa/internal/token"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
	"impulsa/pkg/testutil"
	"impulsa/pkg/testutil/containers"
)

type RedisLedgerSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	ledger *token.RedisLedger
}

func TestRedisLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLedgerSuite))
}

func (s *RedisLedgerSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.ledger = token.NewRedisLedger(s.redis.Client)
}

func (s *RedisLedgerSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisLedgerSuite) TestReplayRejected() {
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Minute)

	s.Require().NoError(s.ledger.MarkUsed(ctx, "jti-1", expiresAt))
	s.ErrorIs(s.ledger.MarkUsed(ctx, "jti-1", expiresAt), sentinel.ErrAlreadyUsed)
	s.NoError(s.ledger.MarkUsed(ctx, "jti-2", expiresAt))
}

func (s *RedisLedgerSuite) TestKeyExpiresWithToken() {
	ctx := requestcontext.WithTime(context.Background(), testutil.FixedNow)
	s.Require().NoError(s.ledger.MarkUsed(ctx, "jti-1", testutil.FixedNow.Add(10*time.Minute)))

	ttl, err := s.redis.Client.TTL(ctx, "eligibility:jti:jti-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 9*time.Minute)
	s.LessOrEqual(ttl, 10*time.Minute)
}

func (s *RedisLedgerSuite) TestConcurrentRedemption() {
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Minute)

	result := testutil.RunConcurrent(25, func(int) error {
		return s.ledger.MarkUsed(ctx, "jti-race", expiresAt)
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(24), result.Errors)
}
