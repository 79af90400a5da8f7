package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

const adminFlagKey = "adminRole"

// RedisStatusCache implements StatusCache using Redis. Snapshots are
// JSON-encoded under user:<role>:<id>; staleness is bounded by the TTL.
type RedisStatusCache struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisStatusCache creates a new RedisStatusCache
func NewRedisStatusCache(client *pkgredis.Client, ttl time.Duration) *RedisStatusCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &RedisStatusCache{client: client, ttl: ttl}
}

func statusKey(role domain.Role, userID string) string {
	return fmt.Sprintf("user:%s:%s", role, userID)
}

// GetSnapshot returns the cached status snapshot, or nil on a miss
func (c *RedisStatusCache) GetSnapshot(ctx context.Context, role domain.Role, userID string) (*domain.StatusSnapshot, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.status.get")
	defer span.End()
	span.SetAttributes(attribute.String("role", string(role)))

	raw, err := c.client.Get(ctx, statusKey(role, userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read status cache: %w", err)
	}

	snap := &domain.StatusSnapshot{}
	if err := json.Unmarshal([]byte(raw), snap); err != nil {
		return nil, fmt.Errorf("corrupt status cache entry: %w", err)
	}
	return snap, nil
}

// SetSnapshot caches the status snapshot for the configured TTL
func (c *RedisStatusCache) SetSnapshot(ctx context.Context, role domain.Role, userID string, snap domain.StatusSnapshot) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.status.set")
	defer span.End()

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode status snapshot: %w", err)
	}
	if err := c.client.Set(ctx, statusKey(role, userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write status cache: %w", err)
	}
	return nil
}

// DeleteSnapshot drops the cached snapshot
func (c *RedisStatusCache) DeleteSnapshot(ctx context.Context, role domain.Role, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.status.delete")
	defer span.End()

	return c.client.Del(ctx, statusKey(role, userID)).Err()
}

// GetAdminFlag returns the cached singleton admin flag
func (c *RedisStatusCache) GetAdminFlag(ctx context.Context) (string, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.status.get_admin_flag")
	defer span.End()

	value, err := c.client.Get(ctx, adminFlagKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read admin flag: %w", err)
	}
	return value, true, nil
}

// SetAdminFlag caches the singleton admin flag for the configured TTL
func (c *RedisStatusCache) SetAdminFlag(ctx context.Context, value string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.status.set_admin_flag")
	defer span.End()

	return c.client.Set(ctx, adminFlagKey, value, c.ttl).Err()
}
