package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Service = (*CachedService)(nil)

// CachedService caches deposit-address lookups in Redis in front of
// another Service. Addresses are effectively immutable once created, so
// a short TTL only exists to pick up first-time creation. Trade history
// always goes to the upstream.
type CachedService struct {
	next Service
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedService(next Service, rdb *redis.Client, ttl time.Duration) *CachedService {
	return &CachedService{next: next, rdb: rdb, ttl: ttl}
}

func depositKey(organizationID string) string {
	return "exchange:deposit:" + organizationID
}

func (s *CachedService) DepositAddress(ctx context.Context, organizationID string) (string, error) {
	addr, err := s.rdb.Get(ctx, depositKey(organizationID)).Result()
	if err == nil && addr != "" {
		return addr, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		// Cache trouble must not take the permission check down.
		addr, upErr := s.next.DepositAddress(ctx, organizationID)
		return addr, upErr
	}

	addr, err = s.next.DepositAddress(ctx, organizationID)
	if err != nil {
		return "", err
	}
	if addr != "" {
		_ = s.rdb.Set(ctx, depositKey(organizationID), addr, s.ttl).Err()
	}
	return addr, nil
}

func (s *CachedService) Trades(ctx context.Context, organizationID string) ([]Trade, error) {
	return s.next.Trades(ctx, organizationID)
}
