package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/events"
	"fleetflow/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// List handles GET /api/v1/dispatch/trips/
func (h *TripHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, mapSlice(trips, toTrip))
}

// Get handles GET /api/v1/dispatch/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrip(trip))
}

// Create handles POST /api/v1/dispatch/trips/
func (h *TripHandler) Create(c *gin.Context) {
	var req api.CreateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		CargoWeight:   req.CargoWeight,
		StartLocation: deref(req.StartLocation),
		EndLocation:   deref(req.EndLocation),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTrip(trip))
}

// Dispatch handles POST /api/v1/dispatch/trips/:id/dispatch
func (h *TripHandler) Dispatch(c *gin.Context) {
	trip, err := h.tripService.DispatchTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrip(trip))
}

// Complete handles POST /api/v1/dispatch/trips/:id/complete
func (h *TripHandler) Complete(c *gin.Context) {
	var req api.CompleteTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := h.tripService.CompleteTrip(c.Request.Context(), service.CompleteTripRequest{
		TripID:        c.Param("id"),
		FinalOdometer: req.FinalOdometer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrip(trip))
}

// Cancel handles POST /api/v1/dispatch/trips/:id/cancel
func (h *TripHandler) Cancel(c *gin.Context) {
	trip, err := h.tripService.CancelTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrip(trip))
}

// Events handles GET /api/v1/dispatch/trips/:id/events
func (h *TripHandler) Events(c *gin.Context) {
	history, err := h.tripService.TripEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		history = []events.Event{}
	}

	respondJSON(c, http.StatusOK, history)
}
