package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/domain"
	"fleetflow/internal/service"
)

// FinanceHandler handles HTTP requests for expenses and fuel logs.
type FinanceHandler struct {
	financeService *service.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(financeService *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// ListExpenses handles GET /api/v1/finance/expenses/
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	expenses, err := h.financeService.ListExpenses(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, mapSlice(expenses, toExpense))
}

// CreateExpense handles POST /api/v1/finance/expenses/
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req api.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	expense, err := h.financeService.CreateExpense(c.Request.Context(), service.CreateExpenseRequest{
		VehicleID:   req.VehicleID,
		TripID:      deref(req.TripID),
		ExpenseType: req.ExpenseType,
		Cost:        req.Cost,
		Date:        date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toExpense(expense))
}

// ListFuelLogs handles GET /api/v1/finance/fuel/
func (h *FinanceHandler) ListFuelLogs(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	logs, err := h.financeService.ListFuelLogs(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, mapSlice(logs, toFuelLog))
}

// CreateFuelLog handles POST /api/v1/finance/fuel/
func (h *FinanceHandler) CreateFuelLog(c *gin.Context) {
	var req api.CreateFuelLogRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	fuel, err := h.financeService.CreateFuelLog(c.Request.Context(), service.CreateFuelLogRequest{
		VehicleID:       req.VehicleID,
		FuelType:        domain.FuelType(deref(req.FuelType)),
		QuantityLiters:  req.QuantityLiters,
		TotalCost:       req.TotalCost,
		Date:            date,
		OdometerReading: req.OdometerReading,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toFuelLog(fuel))
}
