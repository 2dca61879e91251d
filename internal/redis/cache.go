package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles read-model caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// DashboardCacheTTL bounds how stale the KPI cards may get.
const DashboardCacheTTL = 15 * time.Second

const dashboardCachePrefix = "cache:dashboard:"

// dashboardScopes lists every filter value the dashboard can be cached under.
var dashboardScopes = []string{"", "Truck", "Van", "Bike"}

// CachedStats represents cached dashboard figures.
type CachedStats struct {
	ActiveFleet            int     `json:"active_fleet"`
	MaintenanceAlerts      int     `json:"maintenance_alerts"`
	UtilizationRatePercent float64 `json:"utilization_rate_percent"`
	PendingCargo           int     `json:"pending_cargo"`
}

func dashboardKey(vehicleType string) string {
	if vehicleType == "" {
		return dashboardCachePrefix + "all"
	}
	return dashboardCachePrefix + vehicleType
}

// GetDashboardStats retrieves dashboard stats from cache.
// Returns nil on a cache miss.
func (s *CacheStore) GetDashboardStats(ctx context.Context, vehicleType string) (*CachedStats, error) {
	data, err := s.client.Get(ctx, dashboardKey(vehicleType)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats CachedStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetDashboardStats stores dashboard stats in cache.
func (s *CacheStore) SetDashboardStats(ctx context.Context, vehicleType string, stats *CachedStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, dashboardKey(vehicleType), data, DashboardCacheTTL).Err()
}

// InvalidateDashboard drops every cached dashboard scope.
func (s *CacheStore) InvalidateDashboard(ctx context.Context) error {
	keys := make([]string, 0, len(dashboardScopes))
	for _, scope := range dashboardScopes {
		keys = append(keys, dashboardKey(scope))
	}
	return s.client.Del(ctx, keys...).Err()
}
