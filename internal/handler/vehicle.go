package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
	"fleetflow/internal/service"
)

// VehicleHandler handles HTTP requests for the vehicle registry.
type VehicleHandler struct {
	registry *service.RegistryService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(registry *service.RegistryService) *VehicleHandler {
	return &VehicleHandler{registry: registry}
}

// List handles GET /api/v1/registry/vehicles/
func (h *VehicleHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	vehicles, err := h.registry.ListVehicles(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, mapSlice(vehicles, toVehicle))
}

// Get handles GET /api/v1/registry/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.registry.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicle(vehicle))
}

// Create handles POST /api/v1/registry/vehicles/
func (h *VehicleHandler) Create(c *gin.Context) {
	var req api.CreateVehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	vehicle, err := h.registry.CreateVehicle(c.Request.Context(), service.CreateVehicleRequest{
		LicensePlate:  req.LicensePlate,
		Name:          req.Name,
		Make:          deref(req.Make),
		Model:         deref(req.Model),
		Year:          deref(req.Year),
		Type:          domain.VehicleType(req.Type),
		FuelType:      domain.FuelType(deref(req.FuelType)),
		MaxCapacity:   req.MaxCapacity,
		Odometer:      deref(req.Odometer),
		PurchasePrice: deref(req.PurchasePrice),
		CurrentValue:  deref(req.CurrentValue),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicle(vehicle))
}

// ToggleOutOfService handles PATCH /api/v1/registry/vehicles/:id/out-of-service
func (h *VehicleHandler) ToggleOutOfService(c *gin.Context) {
	vehicle, err := h.registry.ToggleOutOfService(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicle(vehicle))
}
