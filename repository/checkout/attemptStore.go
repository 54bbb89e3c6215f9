// repository/checkout/attemptStore.go
package checkoutrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Attempt is a checkout waiting on external payment approval. Nothing is
// persisted to Postgres until the payment is approved, so the attempt lives
// in redis under the external payment id with a TTL.
type Attempt struct {
	PaymentID string          `json:"payment_id"`
	UserID    int64           `json:"user_id"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Fee       decimal.Decimal `json:"fee"`
	Total     decimal.Decimal `json:"total"`
	Method    string          `json:"method"`
	Address   string          `json:"address,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type AttemptStore interface {
	Save(ctx context.Context, a *Attempt, ttl time.Duration) error
	// Find returns (nil, nil) when no attempt exists for the payment id.
	Find(ctx context.Context, paymentID string) (*Attempt, error)
	Delete(ctx context.Context, paymentID string) error
}

type redisStore struct{ client *redis.Client }

func NewRedis(client *redis.Client) AttemptStore { return &redisStore{client: client} }

func key(paymentID string) string { return fmt.Sprintf("checkout:%s", paymentID) }

func (s *redisStore) Save(ctx context.Context, a *Attempt, ttl time.Duration) error {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal checkout attempt: %w", err)
	}
	if err := s.client.Set(ctx, key(a.PaymentID), b, ttl).Err(); err != nil {
		return fmt.Errorf("set checkout attempt: %w", err)
	}
	return nil
}

func (s *redisStore) Find(ctx context.Context, paymentID string) (*Attempt, error) {
	val, err := s.client.Get(ctx, key(paymentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checkout attempt: %w", err)
	}
	var a Attempt
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		return nil, fmt.Errorf("unmarshal checkout attempt: %w", err)
	}
	return &a, nil
}

func (s *redisStore) Delete(ctx context.Context, paymentID string) error {
	if err := s.client.Del(ctx, key(paymentID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete checkout attempt: %w", err)
	}
	return nil
}
