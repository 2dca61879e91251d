package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/service"
)

// MaintenanceHandler handles HTTP requests for service logs.
type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler.
func NewMaintenanceHandler(maintenanceService *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// List handles GET /api/v1/maintenance/
func (h *MaintenanceHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	logs, err := h.maintenanceService.ListMaintenance(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, mapSlice(logs, toMaintenance))
}

// Create handles POST /api/v1/maintenance/
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req api.CreateMaintenanceRequest
	if !bindJSON(c, &req) {
		return
	}

	var date time.Time
	if req.Date != nil && *req.Date != "" {
		var ok bool
		if date, ok = parseDate(c, "date", *req.Date); !ok {
			return
		}
	}

	entry, err := h.maintenanceService.CreateMaintenance(c.Request.Context(), service.CreateMaintenanceRequest{
		VehicleID:   req.VehicleID,
		ServiceType: req.ServiceType,
		Description: deref(req.Description),
		Cost:        deref(req.Cost),
		Date:        date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMaintenance(entry))
}

// Complete handles PATCH /api/v1/maintenance/:id/complete
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	entry, err := h.maintenanceService.CompleteMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toMaintenance(entry))
}
