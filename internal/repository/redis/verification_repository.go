package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerificationCodes holds the pair of one-time codes sent during signup.
type VerificationCodes struct {
	EmailCode string    `json:"email_code"`
	PhoneCode string    `json:"phone_code"`
	IssuedAt  time.Time `json:"issued_at"`
}

var ErrCodesNotFound = errors.New("verification codes not found or expired")

// VerificationRepository stores signup codes in redis with a TTL, keyed by
// email+phone. Re-sending overwrites the previous pair for the same key, so
// concurrent requests for one key resolve to a single live pair.
type VerificationRepository struct {
	client *redis.Client
}

func NewVerificationRepository(client *redis.Client) *VerificationRepository {
	return &VerificationRepository{
		client: client,
	}
}

func key(email, phone string) string {
	return fmt.Sprintf("verification:%s:%s", email, phone)
}

func (r *VerificationRepository) Store(ctx context.Context, email, phone string, codes VerificationCodes, ttl time.Duration) error {
	jsonData, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("failed to marshal verification codes: %w", err)
	}

	if err := r.client.Set(ctx, key(email, phone), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification codes: %w", err)
	}

	return nil
}

func (r *VerificationRepository) Get(ctx context.Context, email, phone string) (VerificationCodes, error) {
	val, err := r.client.Get(ctx, key(email, phone)).Result()
	if err != nil {
		if err == redis.Nil {
			return VerificationCodes{}, ErrCodesNotFound
		}
		return VerificationCodes{}, fmt.Errorf("failed to get verification codes: %w", err)
	}

	var codes VerificationCodes
	if err := json.Unmarshal([]byte(val), &codes); err != nil {
		return VerificationCodes{}, fmt.Errorf("failed to unmarshal verification codes: %w", err)
	}

	return codes, nil
}

func (r *VerificationRepository) Delete(ctx context.Context, email, phone string) error {
	return r.client.Del(ctx, key(email, phone)).Err()
}
