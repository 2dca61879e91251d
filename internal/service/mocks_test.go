package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fleetflow/internal/domain"
	"fleetflow/internal/events"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
	"fleetflow/internal/repository/memory"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// MockLockStore is a mock implementation of redis.LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]string

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]string)}
}

func (m *MockLockStore) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[vehicleID]; held {
		return "", false, nil
	}
	token := "token-" + vehicleID
	m.locks[vehicleID] = token
	return token, true, nil
}

func (m *MockLockStore) ReleaseVehicleLock(ctx context.Context, vehicleID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[vehicleID] == token {
		delete(m.locks, vehicleID)
	}
	return nil
}

// Hold marks a vehicle as locked by someone else.
func (m *MockLockStore) Hold(vehicleID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[vehicleID] = "other"
}

// MockStatsCache is a mock implementation of redis.StatsCacheInterface.
type MockStatsCache struct {
	mu    sync.Mutex
	stats map[string]*redis.CachedStats

	GetCallCount        int32
	InvalidateCallCount int32
}

func NewMockStatsCache() *MockStatsCache {
	return &MockStatsCache{stats: make(map[string]*redis.CachedStats)}
}

func (m *MockStatsCache) GetDashboardStats(ctx context.Context, vehicleType string) (*redis.CachedStats, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[vehicleType]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (m *MockStatsCache) SetDashboardStats(ctx context.Context, vehicleType string, stats *redis.CachedStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *stats
	m.stats[vehicleType] = &c
	return nil
}

func (m *MockStatsCache) InvalidateDashboard(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = make(map[string]*redis.CachedStats)
	return nil
}

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MockPublisher) Types() []events.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.Type, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

// fleet bundles a memory store with every service wired against it.
type fleet struct {
	store       *memory.Store
	locks       *MockLockStore
	cache       *MockStatsCache
	published   *MockPublisher
	registry    *RegistryService
	drivers     *DriverService
	trips       *TripService
	maintenance *MaintenanceService
	finance     *FinanceService
	analytics   *AnalyticsService
}

func newFleet(t *testing.T) *fleet {
	t.Helper()

	f := &fleet{
		store:     memory.NewStore(),
		locks:     NewMockLockStore(),
		cache:     NewMockStatsCache(),
		published: &MockPublisher{},
	}
	notifier := NewNotificationService(f.published)

	f.registry = NewRegistryService(f.store, f.cache, notifier)
	f.registry.now = fixedClock
	f.drivers = NewDriverService(f.store, f.cache, notifier)
	f.drivers.now = fixedClock
	f.trips = NewTripService(f.store, f.locks, f.cache, nil, notifier)
	f.trips.now = fixedClock
	f.maintenance = NewMaintenanceService(f.store, f.cache, notifier)
	f.maintenance.now = fixedClock
	f.finance = NewFinanceService(f.store, f.cache)
	f.analytics = NewAnalyticsService(f.store, nil)
	return f
}

func (f *fleet) addVehicle(t *testing.T, plate string, vehicleType domain.VehicleType, capacity float64) *domain.Vehicle {
	t.Helper()
	v, err := f.registry.CreateVehicle(context.Background(), CreateVehicleRequest{
		LicensePlate: plate,
		Name:         plate,
		Type:         vehicleType,
		MaxCapacity:  capacity,
	})
	require.NoError(t, err)
	return v
}

func (f *fleet) addDriver(t *testing.T, license string) *domain.Driver {
	t.Helper()
	d, err := f.drivers.CreateDriver(context.Background(), CreateDriverRequest{
		Name:              "Driver " + license,
		LicenseNumber:     license,
		LicenseExpiryDate: testNow.AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	return d
}

func (f *fleet) draftTrip(t *testing.T, vehicleID, driverID string, cargo float64) *domain.Trip {
	t.Helper()
	trip, err := f.trips.CreateTrip(context.Background(), CreateTripRequest{
		VehicleID:     vehicleID,
		DriverID:      driverID,
		CargoWeight:   cargo,
		StartLocation: "Depot",
		EndLocation:   "Harbor",
	})
	require.NoError(t, err)
	return trip
}

func (f *fleet) vehicle(t *testing.T, id string) *domain.Vehicle {
	t.Helper()
	v, err := f.store.Vehicles().GetByID(context.Background(), id)
	require.NoError(t, err)
	return v
}

func (f *fleet) driver(t *testing.T, id string) *domain.Driver {
	t.Helper()
	d, err := f.store.Drivers().GetByID(context.Background(), id)
	require.NoError(t, err)
	return d
}

func ptr(f float64) *float64 { return &f }

var pageAll = repository.Page{}

// InterleavingStore wraps a memory store so a test can commit a competing
// write after a service's unlocked read and before its transaction takes
// row locks. It also records the order in which row locks are taken.
type InterleavingStore struct {
	*memory.Store

	mu     sync.Mutex
	before func()
	locks  []string
}

// Interleave runs fn once, at the start of the next transaction.
func (s *InterleavingStore) Interleave(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before = fn
}

// Locks returns the rows locked so far, in order.
func (s *InterleavingStore) Locks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locks...)
}

func (s *InterleavingStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	before := s.before
	s.before = nil
	s.mu.Unlock()
	if before != nil {
		before()
	}

	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(lockRecordingTx{Store: tx, s: s})
	})
}

func (s *InterleavingStore) record(row string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = append(s.locks, row)
}

type lockRecordingTx struct {
	repository.Store
	s *InterleavingStore
}

func (tx lockRecordingTx) Vehicles() repository.VehicleRepository {
	return lockRecordingVehicles{VehicleRepository: tx.Store.Vehicles(), s: tx.s}
}

func (tx lockRecordingTx) Trips() repository.TripRepository {
	return lockRecordingTrips{TripRepository: tx.Store.Trips(), s: tx.s}
}

func (tx lockRecordingTx) Drivers() repository.DriverRepository {
	return lockRecordingDrivers{DriverRepository: tx.Store.Drivers(), s: tx.s}
}

type lockRecordingVehicles struct {
	repository.VehicleRepository
	s *InterleavingStore
}

func (r lockRecordingVehicles) GetByIDForUpdate(ctx context.Context, id string) (*domain.Vehicle, error) {
	r.s.record("vehicle")
	return r.VehicleRepository.GetByIDForUpdate(ctx, id)
}

type lockRecordingTrips struct {
	repository.TripRepository
	s *InterleavingStore
}

func (r lockRecordingTrips) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	r.s.record("trip")
	return r.TripRepository.GetByIDForUpdate(ctx, id)
}

type lockRecordingDrivers struct {
	repository.DriverRepository
	s *InterleavingStore
}

func (r lockRecordingDrivers) GetByIDForUpdate(ctx context.Context, id string) (*domain.Driver, error) {
	r.s.record("driver")
	return r.DriverRepository.GetByIDForUpdate(ctx, id)
}

// interleaved rewires f.trips onto an InterleavingStore over f.store.
func (f *fleet) interleaved() *InterleavingStore {
	s := &InterleavingStore{Store: f.store}
	f.trips.store = s
	return s
}

// setTripStatus commits a status change outside any service call, as a
// competing request would.
func (f *fleet) setTripStatus(t *testing.T, id string, status domain.TripStatus, odometer *float64) {
	t.Helper()
	ctx := context.Background()
	trip, err := f.store.Trips().GetByID(ctx, id)
	require.NoError(t, err)
	trip.Status = status
	if odometer != nil {
		trip.FinalOdometer = odometer
	}
	require.NoError(t, f.store.Trips().Update(ctx, trip))
}
