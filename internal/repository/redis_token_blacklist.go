package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

const blacklistKeyPrefix = "blacklist:"

// RedisTokenBlacklist implements TokenBlacklist using Redis.
// Entries carry a TTL equal to the token's remaining lifetime, so a
// marker expires at the same wall-clock time its token would anyway
// become invalid.
type RedisTokenBlacklist struct {
	client *pkgredis.Client
}

// NewRedisTokenBlacklist creates a new RedisTokenBlacklist
func NewRedisTokenBlacklist(client *pkgredis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Add writes a blacklist marker for the token with the given TTL
func (b *RedisTokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.blacklist.add")
	defer span.End()

	if err := b.client.Set(ctx, blacklistKeyPrefix+token, "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to write blacklist entry: %w", err)
	}
	return nil
}

// Contains reports whether the token has been blacklisted
func (b *RedisTokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.blacklist.contains")
	defer span.End()

	_, err := b.client.Get(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read blacklist entry: %w", err)
	}
	return true, nil
}
