package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sentinel is the value stored under a blacklisted token.
const Sentinel = "blacklisted"

var ErrEmptyToken = errors.New("token is required")

type ExpiryDecoder interface {
	ExpiresAt(token string) (time.Time, error)
}

// Store keeps blacklisted tokens in Redis until their own expiry.
type Store struct {
	rdb    redis.Cmdable
	tokens ExpiryDecoder
	now    func() time.Time
}

func NewStore(rdb redis.Cmdable, tokens ExpiryDecoder) *Store {
	return &Store{rdb: rdb, tokens: tokens, now: time.Now}
}

func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Blacklist stores token with a TTL equal to its remaining lifetime. A token
// that is already past its expiry is not stored: verification rejects it anyway.
func (s *Store) Blacklist(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	exp, err := s.tokens.ExpiresAt(token)
	if err != nil {
		return fmt.Errorf("blacklist: %w", err)
	}

	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, token, Sentinel, ttl).Err(); err != nil {
		return fmt.Errorf("blacklist: %w", err)
	}
	return nil
}

func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	v, err := s.rdb.Get(ctx, token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blacklist lookup: %w", err)
	}
	return v == Sentinel, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
