package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
	"fleetflow/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// List handles GET /api/v1/drivers/
func (h *DriverHandler) List(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	drivers, err := h.driverService.ListDrivers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, mapSlice(drivers, toDriver))
}

// Get handles GET /api/v1/drivers/:id
func (h *DriverHandler) Get(c *gin.Context) {
	driver, err := h.driverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriver(driver))
}

// Create handles POST /api/v1/drivers/
func (h *DriverHandler) Create(c *gin.Context) {
	var req api.CreateDriverRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.LicenseExpiryDate == "" {
		respondDetail(c, http.StatusBadRequest, "License expiry date is required")
		return
	}
	expiry, ok := parseDate(c, "license_expiry_date", req.LicenseExpiryDate)
	if !ok {
		return
	}

	driver, err := h.driverService.CreateDriver(c.Request.Context(), service.CreateDriverRequest{
		Name:              req.Name,
		LicenseNumber:     req.LicenseNumber,
		LicenseCategory:   deref(req.LicenseCategory),
		LicenseExpiryDate: expiry,
		Status:            domain.DriverStatus(deref(req.Status)),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriver(driver))
}

// UpdateStatus handles PATCH /api/v1/drivers/:id/status?new_status=
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	status := c.Query("new_status")
	if status == "" {
		respondDetail(c, http.StatusBadRequest, "new_status is required")
		return
	}

	driver, err := h.driverService.UpdateDriverStatus(c.Request.Context(), c.Param("id"), domain.DriverStatus(status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriver(driver))
}

// SyncExpiredLicenses handles POST /api/v1/drivers/sync-expired-licenses
func (h *DriverHandler) SyncExpiredLicenses(c *gin.Context) {
	n, err := h.driverService.SyncExpiredLicenses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, api.SyncLicensesResponse{
		SuspendedCount: n,
		Message:        fmt.Sprintf("Suspended %d driver(s) with expired licenses", n),
	})
}
