package domain

import "time"

// VehicleStatus represents the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "Available"
	VehicleStatusOnTrip       VehicleStatus = "On Trip"
	VehicleStatusInShop       VehicleStatus = "In Shop"
	VehicleStatusOutOfService VehicleStatus = "Out of Service"
)

// VehicleType represents the body type of a vehicle.
type VehicleType string

const (
	VehicleTypeTruck VehicleType = "Truck"
	VehicleTypeVan   VehicleType = "Van"
	VehicleTypeBike  VehicleType = "Bike"
)

// Valid reports whether t is a known vehicle type.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeTruck, VehicleTypeVan, VehicleTypeBike:
		return true
	}
	return false
}

// FuelType represents the energy source of a vehicle.
type FuelType string

const (
	FuelTypePetrol   FuelType = "Petrol"
	FuelTypeDiesel   FuelType = "Diesel"
	FuelTypeElectric FuelType = "Electric"
)

// Valid reports whether f is a known fuel type.
func (f FuelType) Valid() bool {
	switch f {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeElectric:
		return true
	}
	return false
}

// Vehicle represents a registered fleet vehicle.
type Vehicle struct {
	ID            string
	LicensePlate  string
	Name          string
	Make          string
	Model         string
	Year          int
	Type          VehicleType
	FuelType      FuelType
	MaxCapacity   float64 // tons
	Odometer      float64 // km
	PurchasePrice float64
	CurrentValue  float64
	Status        VehicleStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanCarry reports whether the vehicle's capacity covers the given cargo weight.
func (v *Vehicle) CanCarry(cargoWeight float64) bool {
	return cargoWeight <= v.MaxCapacity
}

// IsAvailable reports whether the vehicle can be assigned to a trip.
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}
