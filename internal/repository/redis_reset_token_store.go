package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

const (
	resetIssuedKeyPrefix = "reset:"
	resetUsedKeyPrefix   = "reset:used:"
)

// RedisResetTokenStore implements ResetTokenStore using Redis. Issued
// tokens live under reset:<email> so a newer request invalidates the
// previous one; consumed tokens are marked by digest so a token cannot
// be replayed within its validity window.
type RedisResetTokenStore struct {
	client *pkgredis.Client
}

// NewRedisResetTokenStore creates a new RedisResetTokenStore
func NewRedisResetTokenStore(client *pkgredis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// StoreIssued records the latest reset token issued for the email
func (s *RedisResetTokenStore) StoreIssued(ctx context.Context, email, token string, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.reset.store_issued")
	defer span.End()

	if err := s.client.Set(ctx, resetIssuedKeyPrefix+email, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// GetIssued returns the currently issued token for the email, or
// found=false when none is pending
func (s *RedisResetTokenStore) GetIssued(ctx context.Context, email string) (string, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.reset.get_issued")
	defer span.End()

	token, err := s.client.Get(ctx, resetIssuedKeyPrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read reset token: %w", err)
	}
	return token, true, nil
}

// DeleteIssued removes the pending token for the email
func (s *RedisResetTokenStore) DeleteIssued(ctx context.Context, email string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.reset.delete_issued")
	defer span.End()

	return s.client.Del(ctx, resetIssuedKeyPrefix+email).Err()
}

// MarkUsed flags the token as consumed. The marker outlives the token's
// own validity so a replay inside the window is always caught.
func (s *RedisResetTokenStore) MarkUsed(ctx context.Context, token string, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.reset.mark_used")
	defer span.End()

	if err := s.client.Set(ctx, resetUsedKeyPrefix+tokenDigest(token), "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}

// IsUsed reports whether the token was already consumed
func (s *RedisResetTokenStore) IsUsed(ctx context.Context, token string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.reset.is_used")
	defer span.End()

	n, err := s.client.Exists(ctx, resetUsedKeyPrefix+tokenDigest(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check reset token: %w", err)
	}
	return n > 0, nil
}
