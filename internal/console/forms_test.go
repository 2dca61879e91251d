package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireReason(t *testing.T, err error, reason Reason, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, reason, verr.Reason)
	assert.Equal(t, field, verr.Field)
}

func TestVehicleForm_Payload(t *testing.T) {
	req, err := VehicleForm{
		LicensePlate: " FF-001 ", Name: "Hauler", Type: "Truck", MaxCapacity: "5", Year: "2021",
	}.Payload()
	require.NoError(t, err)
	assert.Equal(t, "FF-001", req.LicensePlate)
	assert.Equal(t, 5.0, req.MaxCapacity)
	require.NotNil(t, req.Year)
	assert.Equal(t, 2021, *req.Year)
	assert.Nil(t, req.Make)
	assert.Nil(t, req.Odometer)
	assert.Nil(t, req.FuelType)

	_, err = VehicleForm{Name: "Hauler", Type: "Truck", MaxCapacity: "5"}.Payload()
	requireReason(t, err, ReasonMissingField, "license_plate")

	_, err = VehicleForm{LicensePlate: "X", Name: "Hauler", Type: "Truck", MaxCapacity: "five"}.Payload()
	requireReason(t, err, ReasonInvalidNumber, "max_capacity")

	_, err = VehicleForm{LicensePlate: "X", Name: "Hauler", Type: "Truck", MaxCapacity: "5", Year: "20.5"}.Payload()
	requireReason(t, err, ReasonInvalidNumber, "year")
}

func TestDriverForm_Payload(t *testing.T) {
	req, err := DriverForm{Name: "Alex", LicenseNumber: "DL-1", LicenseExpiryDate: "2030-01-31"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, "2030-01-31", req.LicenseExpiryDate)
	assert.Nil(t, req.Status)

	_, err = DriverForm{Name: "Alex", LicenseNumber: "DL-1", LicenseExpiryDate: "31/01/2030"}.Payload()
	requireReason(t, err, ReasonInvalidDate, "license_expiry_date")

	_, err = DriverForm{Name: "Alex", LicenseExpiryDate: "2030-01-31"}.Payload()
	requireReason(t, err, ReasonMissingField, "license_number")
}

func TestMaintenanceForm(t *testing.T) {
	req, err := MaintenanceForm{VehicleID: "v1", ServiceType: "Oil change"}.Payload()
	require.NoError(t, err)
	assert.Nil(t, req.Cost)
	assert.Nil(t, req.Date)
	assert.Nil(t, req.Description)

	req, err = MaintenanceForm{VehicleID: "v1", ServiceType: "Tyres", Cost: "120.5", Date: "2025-06-15"}.Payload()
	require.NoError(t, err)
	require.NotNil(t, req.Cost)
	assert.Equal(t, 120.5, *req.Cost)
	assert.Equal(t, "2025-06-15", *req.Date)

	_, err = MaintenanceForm{VehicleID: "v1"}.Payload()
	requireReason(t, err, ReasonMissingField, "service_type")

	assert.Contains(t, MaintenanceForm{}.Notice(), "In Shop")
}

func TestExpenseAndFuelForms(t *testing.T) {
	exp, err := ExpenseForm{VehicleID: "v1", ExpenseType: "Toll", Cost: "50", Date: "2025-06-14"}.Payload()
	require.NoError(t, err)
	assert.Nil(t, exp.TripID)
	assert.Equal(t, 50.0, exp.Cost)

	_, err = ExpenseForm{VehicleID: "v1", ExpenseType: "Toll", Cost: "50"}.Payload()
	requireReason(t, err, ReasonMissingField, "date")

	fuel, err := FuelForm{VehicleID: "v1", QuantityLiters: "30", TotalCost: "150", Date: "2025-06-14", OdometerReading: "1200"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, 30.0, fuel.QuantityLiters)
	require.NotNil(t, fuel.OdometerReading)
	assert.Equal(t, 1200.0, *fuel.OdometerReading)
	assert.Nil(t, fuel.FuelType)

	_, err = FuelForm{VehicleID: "v1", QuantityLiters: "lots", TotalCost: "150", Date: "2025-06-14"}.Payload()
	requireReason(t, err, ReasonInvalidNumber, "quantity_liters")
}

func TestTripForm_Payload(t *testing.T) {
	req, err := TripForm{VehicleID: "v1", DriverID: "d1", CargoWeight: "3.5", EndLocation: "Pune"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, 3.5, req.CargoWeight)
	assert.Nil(t, req.StartLocation)
	require.NotNil(t, req.EndLocation)
	assert.Equal(t, "Pune", *req.EndLocation)

	_, err = TripForm{VehicleID: "v1", DriverID: "d1"}.Payload()
	requireReason(t, err, ReasonMissingField, "cargo_weight")
}

func TestAuthForms(t *testing.T) {
	login, err := LoginForm{Email: "ops@fleet.io", Password: " spaced "}.Payload()
	require.NoError(t, err)
	assert.Equal(t, " spaced ", login.Password)

	_, err = LoginForm{Email: "ops@fleet.io"}.Payload()
	requireReason(t, err, ReasonMissingField, "password")

	_, err = RegisterForm{Email: "a@b.c", Password: "secret", ConfirmPassword: "secreT", Role: "Manager"}.Payload()
	requireReason(t, err, ReasonPasswordMismatch, "confirm_password")
	assert.Equal(t, "Passwords do not match.", Message(err))

	reg, err := RegisterForm{Email: "a@b.c", Password: "secret", ConfirmPassword: "secret", Role: "Dispatcher"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, "Dispatcher", reg.Role)

	_, err = ResetPasswordForm{Email: "a@b.c", OTP: "123456", NewPassword: "short", ConfirmPassword: "short"}.Payload()
	requireReason(t, err, ReasonPasswordTooShort, "new_password")

	_, err = ResetPasswordForm{Email: "a@b.c", OTP: "123456", NewPassword: "longenough", ConfirmPassword: "different1"}.Payload()
	requireReason(t, err, ReasonPasswordMismatch, "confirm_password")

	reset, err := ResetPasswordForm{Email: "a@b.c", OTP: "123456", NewPassword: "longenough", ConfirmPassword: "longenough"}.Payload()
	require.NoError(t, err)
	assert.Equal(t, "123456", reset.OTP)
}
