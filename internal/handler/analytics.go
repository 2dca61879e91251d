package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
	"fleetflow/internal/service"
)

// AnalyticsHandler handles the dashboard and report endpoints.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// DashboardStats handles GET /api/v1/dashboard/stats?vehicle_type=
func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	stats, err := h.analyticsService.DashboardStats(c.Request.Context(), domain.VehicleType(c.Query("vehicle_type")))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, api.DashboardStats{
		ActiveFleet:            stats.ActiveFleet,
		MaintenanceAlerts:      stats.MaintenanceAlerts,
		UtilizationRatePercent: stats.UtilizationRatePercent,
		PendingCargo:           stats.PendingCargo,
	})
}

// ROI handles GET /api/v1/analytics/roi
func (h *AnalyticsHandler) ROI(c *gin.Context) {
	roi, err := h.analyticsService.ROI(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, api.ROI{ROIPercentage: roi})
}

// FuelEfficiency handles GET /api/v1/analytics/fuel-efficiency
func (h *AnalyticsHandler) FuelEfficiency(c *gin.Context) {
	kmpl, err := h.analyticsService.FuelEfficiency(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, api.FuelEfficiency{KmPerLiter: kmpl})
}

// Export handles GET /api/v1/analytics/export
func (h *AnalyticsHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.analyticsService.ExportReport(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ReportFilename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
