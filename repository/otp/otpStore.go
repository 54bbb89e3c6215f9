// repository/otp/otpStore.go
package otprepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps registration OTP codes, expiry enforced by redis TTL.
type Store interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Get returns "" when no code exists (never issued or expired).
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type redisStore struct{ client *redis.Client }

func NewRedis(client *redis.Client) Store { return &redisStore{client: client} }

func key(email string) string { return fmt.Sprintf("otp:%s", strings.ToLower(email)) }

func (s *redisStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, email string) (string, error) {
	val, err := s.client.Get(ctx, key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get otp: %w", err)
	}
	return val, nil
}

func (s *redisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, key(email)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
