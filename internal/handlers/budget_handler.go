package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pocketledger/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// Limit is in cents. A missing warning threshold takes the configured default.
type CreateBudgetRequest struct {
	Category         string  `json:"category" binding:"required"`
	Year             int     `json:"year" binding:"required,min=1,max=9999"`
	Month            int     `json:"month" binding:"required,min=1,max=12"`
	Limit            int64   `json:"limit" binding:"required,gt=0"`
	WarningThreshold float64 `json:"warning_threshold" binding:"omitempty,gt=0,lte=1"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Limit            *int64   `json:"limit" binding:"omitempty,gt=0"`
	WarningThreshold *float64 `json:"warning_threshold" binding:"omitempty,gt=0,lte=1"`
}

// CreateBudget handles POST /budgets.
// @Summary     Create a budget
// @Description Monthly spending limit for an expense category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} map[string]models.Budget "Budget created"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     409 {object} middleware.ErrorBody "Conflict"
// @Failure     422 {object} middleware.ErrorBody "Unknown category"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(services.BudgetInput{
		Category:         req.Category,
		Year:             req.Year,
		Month:            req.Month,
		Limit:            req.Limit,
		WarningThreshold: req.WarningThreshold,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_BUDGET", "budget", strconv.FormatUint(uint64(budget.ID), 10),
		map[string]any{"category": budget.Category, "period": budget.Period().String(), "limit": budget.Limit})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// ListBudgets handles GET /budgets?year=&month=. Zero or absent values match
// every year or month.
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Param       year query int false "Year"
// @Param       month query int false "Month (1-12)"
// @Success     200 {object} map[string][]models.Budget
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	year, err := queryInt(c, "year", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListBudgets(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget handles GET /budgets/:id.
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]models.Budget
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles PUT /budgets/:id.
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id path int true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Budget changes"
// @Success     200 {object} map[string]models.Budget
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(budgetID, services.BudgetChanges{
		Limit:            req.Limit,
		WarningThreshold: req.WarningThreshold,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BUDGET", "budget", strconv.FormatUint(uint64(budgetID), 10),
		map[string]any{"limit": budget.Limit, "warning_threshold": budget.WarningThreshold})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles DELETE /budgets/:id.
// @Summary     Delete a budget
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_BUDGET", "budget", strconv.FormatUint(uint64(budgetID), 10), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// EvaluateBudget handles GET /budgets/:id/evaluation.
// @Summary     Evaluate a budget
// @Description Spent amount and status recomputed from the ledger
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string]services.BudgetEvaluation
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets/{id}/evaluation [get]
func (h *BudgetHandler) EvaluateBudget(c *gin.Context) {
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	evaluation, err := h.budgetService.Evaluate(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": evaluation})
}

// EvaluatePeriod handles GET /budgets/evaluations?year=&month=.
// @Summary     Evaluate every budget of a month
// @Tags        budgets
// @Produce     json
// @Param       year query int true "Year"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} map[string][]services.BudgetEvaluation
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /budgets/evaluations [get]
func (h *BudgetHandler) EvaluatePeriod(c *gin.Context) {
	year, err := queryInt(c, "year", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		respondWithError(c, err)
		return
	}

	evaluations, err := h.budgetService.EvaluatePeriod(year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluations": evaluations})
}
