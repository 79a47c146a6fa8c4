package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/internal/pricing"
	"github.com/rimae/rimae-backend/pkg/redis"
)

const snapshotVersion = 1

// Store persists carts per session.
type Store interface {
	// Load returns an empty cart when the session has none.
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type kvClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps each cart as a JSON snapshot under a session key. Every
// save refreshes the TTL, so idle carts expire.
type RedisStore struct {
	client kvClient
	ttl    time.Duration
}

func NewRedisStore(client kvClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

type snapshot struct {
	Version    int            `json:"v"`
	Lines      []snapshotLine `json:"lines"`
	CouponCode string         `json:"coupon_code,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type snapshotLine struct {
	ProductID  string          `json:"product_id"`
	VariantKey string          `json:"size"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return Cart{}, fmt.Errorf("unsupported cart snapshot version %d", snap.Version)
	}

	c := Cart{CouponCode: snap.CouponCode, UpdatedAt: snap.UpdatedAt}
	for _, l := range snap.Lines {
		c.Lines = append(c.Lines, pricing.LineItem{
			ProductID:  l.ProductID,
			VariantKey: l.VariantKey,
			Name:       l.Name,
			Image:      l.Image,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
		})
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, c Cart) error {
	snap := snapshot{
		Version:    snapshotVersion,
		Lines:      make([]snapshotLine, 0, len(c.Lines)),
		CouponCode: c.CouponCode,
		UpdatedAt:  c.UpdatedAt.UTC(),
	}
	for _, l := range c.Lines {
		snap.Lines = append(snap.Lines, snapshotLine{
			ProductID:  l.ProductID,
			VariantKey: l.VariantKey,
			Name:       l.Name,
			Image:      l.Image,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
		})
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
