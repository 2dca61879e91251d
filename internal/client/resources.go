package client

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"fleetflow/internal/api"
	"fleetflow/internal/events"
)

const apiPrefix = "/api/v1"

func idPath(collection, id, action string) string {
	p := apiPrefix + collection + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

// ListVehicles returns the registry.
func (c *Client) ListVehicles(ctx context.Context) ([]api.Vehicle, error) {
	return get[[]api.Vehicle](ctx, c, apiPrefix+"/registry/vehicles/", nil)
}

// GetVehicle returns one vehicle.
func (c *Client) GetVehicle(ctx context.Context, id string) (api.Vehicle, error) {
	return get[api.Vehicle](ctx, c, idPath("/registry/vehicles/", id, ""), nil)
}

// CreateVehicle registers a vehicle.
func (c *Client) CreateVehicle(ctx context.Context, req api.CreateVehicleRequest) (api.Vehicle, error) {
	return post[api.Vehicle](ctx, c, apiPrefix+"/registry/vehicles/", req)
}

// ToggleOutOfService flips a vehicle between Available and Out of Service.
func (c *Client) ToggleOutOfService(ctx context.Context, id string) (api.Vehicle, error) {
	return patch[api.Vehicle](ctx, c, idPath("/registry/vehicles/", id, "out-of-service"), nil)
}

// ListDrivers returns all drivers.
func (c *Client) ListDrivers(ctx context.Context) ([]api.Driver, error) {
	return get[[]api.Driver](ctx, c, apiPrefix+"/drivers/", nil)
}

// GetDriver returns one driver.
func (c *Client) GetDriver(ctx context.Context, id string) (api.Driver, error) {
	return get[api.Driver](ctx, c, idPath("/drivers/", id, ""), nil)
}

// CreateDriver registers a driver.
func (c *Client) CreateDriver(ctx context.Context, req api.CreateDriverRequest) (api.Driver, error) {
	return post[api.Driver](ctx, c, apiPrefix+"/drivers/", req)
}

// UpdateDriverStatus sets a driver's duty status.
func (c *Client) UpdateDriverStatus(ctx context.Context, id, status string) (api.Driver, error) {
	return patch[api.Driver](ctx, c, idPath("/drivers/", id, "status"), url.Values{"new_status": {status}})
}

// SyncExpiredLicenses suspends drivers whose license has expired.
func (c *Client) SyncExpiredLicenses(ctx context.Context) (api.SyncLicensesResponse, error) {
	return post[api.SyncLicensesResponse](ctx, c, apiPrefix+"/drivers/sync-expired-licenses", nil)
}

// ListTrips returns all trips.
func (c *Client) ListTrips(ctx context.Context) ([]api.Trip, error) {
	return get[[]api.Trip](ctx, c, apiPrefix+"/dispatch/trips/", nil)
}

// CreateTrip drafts a trip.
func (c *Client) CreateTrip(ctx context.Context, req api.CreateTripRequest) (api.Trip, error) {
	return post[api.Trip](ctx, c, apiPrefix+"/dispatch/trips/", req)
}

// DispatchTrip moves a Draft trip to Dispatched.
func (c *Client) DispatchTrip(ctx context.Context, id string) (api.Trip, error) {
	return post[api.Trip](ctx, c, idPath("/dispatch/trips/", id, "dispatch"), nil)
}

// CompleteTrip closes a Dispatched trip at the given odometer reading.
func (c *Client) CompleteTrip(ctx context.Context, id string, finalOdometer float64) (api.Trip, error) {
	return post[api.Trip](ctx, c, idPath("/dispatch/trips/", id, "complete"), api.CompleteTripRequest{FinalOdometer: &finalOdometer})
}

// CancelTrip cancels a Draft or Dispatched trip.
func (c *Client) CancelTrip(ctx context.Context, id string) (api.Trip, error) {
	return post[api.Trip](ctx, c, idPath("/dispatch/trips/", id, "cancel"), nil)
}

// TripEvents returns the recorded lifecycle of a trip.
func (c *Client) TripEvents(ctx context.Context, id string) ([]events.Event, error) {
	return get[[]events.Event](ctx, c, idPath("/dispatch/trips/", id, "events"), nil)
}

// ListMaintenance returns the service logs.
func (c *Client) ListMaintenance(ctx context.Context) ([]api.MaintenanceLog, error) {
	return get[[]api.MaintenanceLog](ctx, c, apiPrefix+"/maintenance/", nil)
}

// CreateMaintenance opens a service log, moving the vehicle In Shop.
func (c *Client) CreateMaintenance(ctx context.Context, req api.CreateMaintenanceRequest) (api.MaintenanceLog, error) {
	return post[api.MaintenanceLog](ctx, c, apiPrefix+"/maintenance/", req)
}

// CompleteMaintenance closes a service log, returning the vehicle to
// Available.
func (c *Client) CompleteMaintenance(ctx context.Context, id string) (api.MaintenanceLog, error) {
	return patch[api.MaintenanceLog](ctx, c, idPath("/maintenance/", id, "complete"), nil)
}

// ListExpenses returns the expense ledger.
func (c *Client) ListExpenses(ctx context.Context) ([]api.Expense, error) {
	return get[[]api.Expense](ctx, c, apiPrefix+"/finance/expenses/", nil)
}

// CreateExpense logs an expense.
func (c *Client) CreateExpense(ctx context.Context, req api.CreateExpenseRequest) (api.Expense, error) {
	return post[api.Expense](ctx, c, apiPrefix+"/finance/expenses/", req)
}

// ListFuelLogs returns the fuel ledger.
func (c *Client) ListFuelLogs(ctx context.Context) ([]api.FuelLog, error) {
	return get[[]api.FuelLog](ctx, c, apiPrefix+"/finance/fuel/", nil)
}

// CreateFuelLog logs a refuelling.
func (c *Client) CreateFuelLog(ctx context.Context, req api.CreateFuelLogRequest) (api.FuelLog, error) {
	return post[api.FuelLog](ctx, c, apiPrefix+"/finance/fuel/", req)
}

// DashboardStats returns the KPI cards, optionally for one vehicle type.
func (c *Client) DashboardStats(ctx context.Context, vehicleType string) (api.DashboardStats, error) {
	var query url.Values
	if vehicleType != "" {
		query = url.Values{"vehicle_type": {vehicleType}}
	}
	return get[api.DashboardStats](ctx, c, apiPrefix+"/dashboard/stats", query)
}

// ROI returns the fleet return on investment.
func (c *Client) ROI(ctx context.Context) (api.ROI, error) {
	return get[api.ROI](ctx, c, apiPrefix+"/analytics/roi", nil)
}

// FuelEfficiency returns the fleet km per liter.
func (c *Client) FuelEfficiency(ctx context.Context) (api.FuelEfficiency, error) {
	return get[api.FuelEfficiency](ctx, c, apiPrefix+"/analytics/fuel-efficiency", nil)
}

// ExportReport streams the CSV report into w.
func (c *Client) ExportReport(ctx context.Context, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, apiPrefix+"/analytics/export", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return err
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (api.TokenResponse, error) {
	tok, err := post[api.TokenResponse](ctx, c, "/auth/login", api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return tok, err
	}
	c.session.Set(tok.AccessToken, email)
	return tok, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (api.User, error) {
	return post[api.User](ctx, c, "/auth/register", req)
}

// ForgotPassword asks the server to mail a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (api.MessageResponse, error) {
	return post[api.MessageResponse](ctx, c, "/auth/forgot-password", api.ForgotPasswordRequest{Email: email})
}

// ResetPassword redeems a reset code.
func (c *Client) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) (api.MessageResponse, error) {
	return post[api.MessageResponse](ctx, c, "/auth/reset-password", req)
}
