package wishlist

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type setClient interface {
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SRem(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	WishlistKey(sessionID string) string
}

// RedisStore keeps a session's saved product ids in a Redis set.
type RedisStore struct {
	client setClient
	ttl    time.Duration
}

func NewRedisStore(client setClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Add saves productID and refreshes the set's TTL.
func (s *RedisStore) Add(ctx context.Context, sessionID, productID string) error {
	key := s.client.WishlistKey(sessionID)
	if _, err := s.client.SAdd(ctx, key, productID); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl); err != nil {
			return fmt.Errorf("refresh wishlist ttl: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, productID string) error {
	if _, err := s.client.SRem(ctx, s.client.WishlistKey(sessionID), productID); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

// List returns the saved ids in lexical order.
func (s *RedisStore) List(ctx context.Context, sessionID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.client.WishlistKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
