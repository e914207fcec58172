package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkraev/tubewave/internal/logger"
)

// SessionCacheRepository keeps revoked token IDs in Redis. A logged-out
// token stays listed until its natural expiry, after which the key lapses.
type SessionCacheRepository struct {
	client *redis.Client
}

// NewSessionCacheRepository creates a new repository instance.
func NewSessionCacheRepository(client *redis.Client) *SessionCacheRepository {
	return &SessionCacheRepository{client: client}
}

// Revoke marks a token ID as logged out for the remaining token lifetime.
func (r *SessionCacheRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to keep
		return nil
	}

	key := fmt.Sprintf("session_revoked:%s", tokenID)
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow("session revoke",
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// IsRevoked reports whether a token ID has been logged out.
func (r *SessionCacheRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := fmt.Sprintf("session_revoked:%s", tokenID)

	_, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Log.Errorw("session revocation lookup failed",
			"key", key,
			"error", err,
		)
		return false, err
	}

	return true, nil
}
