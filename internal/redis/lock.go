package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func vehicleLockKey(vehicleID string) string {
	return fmt.Sprintf("lock:vehicle:%s", vehicleID)
}

// AcquireVehicleLock attempts to acquire the dispatch lock for a vehicle.
// Returns the owner token and true if the lock was acquired, false if already held.
func (s *LockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, vehicleLockKey(vehicleID), token, ttl).Result()
	if err != nil {
		return "", false, err
	}

	return token, ok, nil
}

// ReleaseVehicleLock releases the lock for a vehicle if token still owns it.
func (s *LockStore) ReleaseVehicleLock(ctx context.Context, vehicleID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{vehicleLockKey(vehicleID)}, token).Err()
}
