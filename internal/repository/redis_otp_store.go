package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgredis "github.com/aparnaappu2002/planzo-backend/pkg/redis"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

const otpKeyPrefix = "otp:"

// RedisOtpStore implements OtpStore using Redis. Codes expire on their
// own; Consume removes the code atomically so it can be used once.
type RedisOtpStore struct {
	client *pkgredis.Client
}

// NewRedisOtpStore creates a new RedisOtpStore
func NewRedisOtpStore(client *pkgredis.Client) *RedisOtpStore {
	return &RedisOtpStore{client: client}
}

// Set stores the OTP for the email, replacing any pending code
func (s *RedisOtpStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.otp.set")
	defer span.End()

	if err := s.client.Set(ctx, otpKeyPrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Consume fetches and deletes the pending OTP in one round trip.
// found is false when no code is pending or it already expired.
func (s *RedisOtpStore) Consume(ctx context.Context, email string) (string, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.otp.consume")
	defer span.End()

	code, err := s.client.GetDel(ctx, otpKeyPrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to consume otp: %w", err)
	}
	return code, true, nil
}
