package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookshelf/review-service/internal/core/domain"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed request can hold a key.
	pendingTTL    = 30 * time.Second
	pendingMarker = "pending"
)

// IdempotencyStore maps Idempotency-Key headers of review creations to the
// review id they produced. A key is claimed with a pending marker before the
// insert and overwritten with the review id afterwards.
// Key format: idem:review:<user_id>:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl selects 24h.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserves key for userID. When the key is taken it returns the stored
// review id, or domain.ErrIdempotencyInProgress while the holder is still
// inserting.
func (s *IdempotencyStore) Claim(ctx context.Context, userID int64, key string) (int64, bool, error) {
	k := s.key(userID, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, s.pendingTTL()).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	raw, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// released or expired between the two calls
		return 0, false, domain.ErrIdempotencyInProgress
	case err != nil:
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	case raw == pendingMarker:
		return 0, false, domain.ErrIdempotencyInProgress
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: corrupt value %q: %w", raw, err)
	}
	return id, false, nil
}

// Complete stores reviewID on a claimed key for the full TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, userID int64, key string, reviewID int64) error {
	if err := s.client.Set(ctx, s.key(userID, key), reviewID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a claimed key so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, userID int64, key string) error {
	if err := s.client.Del(ctx, s.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) pendingTTL() time.Duration {
	return min(pendingTTL, s.ttl)
}

func (s *IdempotencyStore) key(userID int64, key string) string {
	return "idem:review:" + strconv.FormatInt(userID, 10) + ":" + key
}
