package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmationRepository stores the ephemeral arming flags behind the
// two-step bulk notification send. A flag lives for a short TTL and is
// consumed by the confirming request.
type ConfirmationRepository struct {
	client *redis.Client
}

// NewConfirmationRepository constructs a confirmation repository.
func NewConfirmationRepository(client *redis.Client) *ConfirmationRepository {
	return &ConfirmationRepository{client: client}
}

// Arm sets the flag for the given key with the given TTL.
func (r *ConfirmationRepository) Arm(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, "armed", ttl).Err(); err != nil {
		return fmt.Errorf("redis arm %s: %w", key, err)
	}
	return nil
}

// Consume removes the flag and reports whether it was armed.
func (r *ConfirmationRepository) Consume(ctx context.Context, key string) (bool, error) {
	if err := r.client.GetDel(ctx, key).Err(); err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis consume %s: %w", key, err)
	}
	return true, nil
}
