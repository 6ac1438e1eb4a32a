package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLedger stores revoked tokens as individual Redis keys with a TTL
// equal to the token window. Redis evicts each key natively, so the ledger
// never grows past one window's worth of logouts.
type RedisLedger struct {
	rdb    *redis.Client
	window time.Duration
	prefix string
}

// NewRedisLedger wraps an existing Redis client. The window must match the
// token validity window used by the issuer.
func NewRedisLedger(rdb *redis.Client, window time.Duration) *RedisLedger {
	return &RedisLedger{rdb: rdb, window: window, prefix: "revoked:"}
}

// Revoke inserts the token with the window TTL. SET overwrites an existing
// key, which also refreshes its TTL; that is harmless because a second
// revocation can only happen while the token is still inside its window.
func (l *RedisLedger) Revoke(ctx context.Context, tokenValue string) error {
	return l.rdb.Set(ctx, l.prefix+tokenValue, 1, l.window).Err()
}

// IsRevoked is a point lookup on the token's key.
func (l *RedisLedger) IsRevoked(ctx context.Context, tokenValue string) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.prefix+tokenValue).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
