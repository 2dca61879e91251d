package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseVehicleLock(ctx context.Context, vehicleID, token string) error
}

// StatsCacheInterface defines the interface for dashboard caching.
type StatsCacheInterface interface {
	GetDashboardStats(ctx context.Context, vehicleType string) (*CachedStats, error)
	SetDashboardStats(ctx context.Context, vehicleType string, stats *CachedStats) error
	InvalidateDashboard(ctx context.Context) error
}

// IdempotencyStoreInterface defines the interface for response replay.
type IdempotencyStoreInterface interface {
	GetResponse(ctx context.Context, key string) ([]byte, error)
	SetResponse(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface        = (*LockStore)(nil)
	_ StatsCacheInterface       = (*CacheStore)(nil)
	_ IdempotencyStoreInterface = (*IdempotencyStore)(nil)
)
