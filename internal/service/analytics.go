package service

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
	"fleetflow/internal/redis"
	"fleetflow/internal/repository"
)

const (
	// RevenuePerTrip is the flat revenue booked for each completed trip.
	RevenuePerTrip = 1000.0

	// AcquisitionCostPerVehicle is the notional purchase cost of each vehicle.
	AcquisitionCostPerVehicle = 50000.0

	// ReportFilename is the attachment name of the CSV export.
	ReportFilename = api.ReportFilename
)

// AnalyticsService computes the dashboard and the financial figures.
type AnalyticsService struct {
	store repository.Store
	cache redis.StatsCacheInterface
}

// NewAnalyticsService creates a new AnalyticsService. cache may be nil.
func NewAnalyticsService(store repository.Store, cache redis.StatsCacheInterface) *AnalyticsService {
	return &AnalyticsService{store: store, cache: cache}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// DashboardStats returns the KPI cards, optionally for one vehicle type.
func (s *AnalyticsService) DashboardStats(ctx context.Context, vehicleType domain.VehicleType) (*domain.DashboardStats, error) {
	if vehicleType != "" && !vehicleType.Valid() {
		return nil, reject(ErrInvalidInput, "Vehicle type must be one of Truck, Van, Bike")
	}

	if s.cache != nil {
		cached, err := s.cache.GetDashboardStats(ctx, string(vehicleType))
		if err != nil {
			log.WithError(err).Warn("dashboard cache read failed")
		} else if cached != nil {
			return &domain.DashboardStats{
				ActiveFleet:            cached.ActiveFleet,
				MaintenanceAlerts:      cached.MaintenanceAlerts,
				UtilizationRatePercent: cached.UtilizationRatePercent,
				PendingCargo:           cached.PendingCargo,
			}, nil
		}
	}

	counts, err := s.store.Vehicles().CountByStatus(ctx, vehicleType)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.Trips().CountByStatus(ctx, domain.TripStatusDraft, vehicleType)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		ActiveFleet:       counts[domain.VehicleStatusOnTrip],
		MaintenanceAlerts: counts[domain.VehicleStatusInShop],
		PendingCargo:      pending,
	}
	if active := counts[domain.VehicleStatusAvailable] + counts[domain.VehicleStatusOnTrip]; active > 0 {
		stats.UtilizationRatePercent = round2(float64(stats.ActiveFleet) / float64(active) * 100)
	}

	if s.cache != nil {
		err := s.cache.SetDashboardStats(ctx, string(vehicleType), &redis.CachedStats{
			ActiveFleet:            stats.ActiveFleet,
			MaintenanceAlerts:      stats.MaintenanceAlerts,
			UtilizationRatePercent: stats.UtilizationRatePercent,
			PendingCargo:           stats.PendingCargo,
		})
		if err != nil {
			log.WithError(err).Warn("dashboard cache write failed")
		}
	}

	return stats, nil
}

// Totals gathers the fleet-wide aggregates concurrently.
func (s *AnalyticsService) Totals(ctx context.Context) (*domain.FleetTotals, error) {
	var t domain.FleetTotals
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.store.Vehicles().CountByStatus(gctx, "")
		for _, n := range counts {
			t.Vehicles += n
		}
		return err
	})
	g.Go(func() (err error) {
		t.CompletedTrips, t.CompletedDistance, err = s.store.Trips().CompletedDistance(gctx)
		return err
	})
	g.Go(func() (err error) {
		t.MaintenanceCost, err = s.store.Maintenance().TotalCost(gctx)
		return err
	})
	g.Go(func() (err error) {
		t.FuelCost, t.FuelLiters, err = s.store.FuelLogs().Totals(gctx)
		return err
	})
	g.Go(func() (err error) {
		t.ExpenseCost, err = s.store.Expenses().TotalCost(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ROI returns the fleet return on investment in percent.
func (s *AnalyticsService) ROI(ctx context.Context) (float64, error) {
	t, err := s.Totals(ctx)
	if err != nil {
		return 0, err
	}
	return ComputeROI(t), nil
}

// ComputeROI applies the ROI formula to fleet totals.
func ComputeROI(t *domain.FleetTotals) float64 {
	if t.Vehicles == 0 {
		return 0
	}
	revenue := float64(t.CompletedTrips) * RevenuePerTrip
	costs := t.MaintenanceCost + t.FuelCost + t.ExpenseCost
	return round2((revenue - costs) / (float64(t.Vehicles) * AcquisitionCostPerVehicle) * 100)
}

// FuelEfficiency returns km per liter across the fleet.
func (s *AnalyticsService) FuelEfficiency(ctx context.Context) (float64, error) {
	t, err := s.Totals(ctx)
	if err != nil {
		return 0, err
	}
	return ComputeFuelEfficiency(t), nil
}

// ComputeFuelEfficiency applies the km/L formula to fleet totals.
func ComputeFuelEfficiency(t *domain.FleetTotals) float64 {
	if t.FuelLiters == 0 || t.CompletedDistance == 0 {
		return 0
	}
	return round2(t.CompletedDistance / t.FuelLiters)
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ExportReport writes the maintenance, fuel and expense ledgers as CSV.
func (s *AnalyticsService) ExportReport(ctx context.Context, w io.Writer) error {
	all := repository.Page{}

	maintenance, err := s.store.Maintenance().List(ctx, all)
	if err != nil {
		return err
	}
	fuel, err := s.store.FuelLogs().List(ctx, all)
	if err != nil {
		return err
	}
	expenses, err := s.store.Expenses().List(ctx, all)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Record Type", "Vehicle ID", "Cost/Value", "Date", "Details"}); err != nil {
		return err
	}
	for _, m := range maintenance {
		if err := cw.Write([]string{"Maintenance", m.VehicleID, formatAmount(m.Cost), m.Date.Format(api.DateLayout), m.ServiceType}); err != nil {
			return err
		}
	}
	for _, f := range fuel {
		if err := cw.Write([]string{"Fuel", f.VehicleID, formatAmount(f.TotalCost), f.Date.Format(api.DateLayout), formatAmount(f.QuantityLiters) + "L"}); err != nil {
			return err
		}
	}
	for _, e := range expenses {
		if err := cw.Write([]string{"Expense", e.VehicleID, formatAmount(e.Cost), e.Date.Format(api.DateLayout), e.ExpenseType}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
