package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetLimitRequest represents the request payload for setting a limit.
type SetBudgetLimitRequest struct {
	Category string           `json:"category" binding:"required,max=100"`
	Limit    *decimal.Decimal `json:"limit" binding:"required"`
}

// BudgetProgressQuery selects the period progress is measured over.
type BudgetProgressQuery struct {
	Period string `form:"period" binding:"omitempty,report_type"`
}

// GetBudgetLimits returns the user's limits keyed by category.
// @Summary     List budget limits
// @Description Get the authenticated user's spending limit for every category that has one
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]number "Limit per category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /budget-limits [get]
func (h *BudgetHandler) GetBudgetLimits(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limits, err := h.budgetService.GetLimits(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, limits)
}

// SetBudgetLimit creates or replaces the limit for a category.
// @Summary     Set a budget limit
// @Description Create or replace the spending limit of one category
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetLimitRequest true "Category and limit"
// @Success     200 {object} models.BudgetLimit "Stored limit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /budget-limits [post]
func (h *BudgetHandler) SetBudgetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	limit, err := h.budgetService.SetLimit(userID, req.Category, *req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, limit)
}

// GetBudgetProgress compares each limit with the spending of a period.
// @Summary     Budget progress
// @Description Compare every category limit with the expenses of the current week, month (default) or year
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "weekly, monthly or yearly"
// @Success     200 {array}  analytics.BudgetStatus "Progress per category"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /budget-limits/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q BudgetProgressQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	progress, err := h.budgetService.GetProgress(c.Request.Context(), userID, analytics.RangeKind(q.Period))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
