// Package redis implements driven.ScanLock across processes with a
// Redis-held lease (github.com/bsm/redislock).
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// DefaultKey is the Redis key guarding scans.
const DefaultKey = "hygiene:lock:scan"

// DefaultTTL bounds how long a crashed holder can block other scans.
const DefaultTTL = 10 * time.Minute

// ScanLock is a lease-based lock shared by every process using the same Redis.
type ScanLock struct {
	client *goredis.Client
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

var _ driven.ScanLock = (*ScanLock)(nil)

// NewScanLock connects to addr and returns a lock on key.
// Empty key and non-positive ttl fall back to the defaults.
func NewScanLock(ctx context.Context, addr, key string, ttl time.Duration) (*ScanLock, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewScanLockWithClient(client, key, ttl), nil
}

// NewScanLockWithClient wraps an existing client.
func NewScanLockWithClient(client *goredis.Client, key string, ttl time.Duration) *ScanLock {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ScanLock{
		client: client,
		locker: redislock.New(client),
		key:    key,
		ttl:    ttl,
	}
}

// Acquire obtains the lease without retrying.
func (l *ScanLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: lock %s is held", domain.ErrScanInProgress, l.key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtaining scan lock: %w", err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("releasing scan lock: %w", err)
		}
		return nil
	}, nil
}

// Close closes the underlying Redis client.
func (l *ScanLock) Close() error {
	return l.client.Close()
}
