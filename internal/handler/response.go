package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fleetflow/internal/api"
	"fleetflow/internal/repository"
	"fleetflow/internal/service"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// respondError sends an error response with the appropriate HTTP status code.
// Unexpected errors are logged and hidden behind a generic detail.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	detail := err.Error()
	if code == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		_ = c.Error(err)
		detail = "Internal server error"
	}
	respondDetail(c, code, detail)
}

// respondDetail sends an error body with an explicit status.
func respondDetail(c *gin.Context, code int, detail string) {
	c.JSON(code, api.ErrorResponse{Detail: detail})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrVehicleNotFound),
		errors.Is(err, service.ErrDriverNotFound),
		errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrMaintenanceNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound

	// Validation and business rule errors - Bad Request
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrVehicleUnavailable),
		errors.Is(err, service.ErrCargoExceedsCapacity),
		errors.Is(err, service.ErrDriverNotOnDuty),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrLicenseExpired),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrOTPExpired):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrVehicleLocked),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountDeactivated):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondDetail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageFromQuery reads skip and limit, answering 400 on bad values.
func pageFromQuery(c *gin.Context) (repository.Page, bool) {
	page := repository.Page{Limit: defaultLimit}

	if v := c.Query("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondDetail(c, http.StatusBadRequest, "skip must be a non-negative integer")
			return page, false
		}
		page.Skip = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			respondDetail(c, http.StatusBadRequest, "limit must be between 1 and 1000")
			return page, false
		}
		page.Limit = n
	}
	return page, true
}

// parseDate reads a YYYY-MM-DD date, answering 400 on failure.
func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	d, err := time.Parse(api.DateLayout, value)
	if err != nil {
		respondDetail(c, http.StatusBadRequest, "Invalid "+field+"; expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
