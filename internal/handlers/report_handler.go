package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// DefaultTopCategoriesMonths is the top spending categories window when
// none is given.
const DefaultTopCategoriesMonths = 1

// ReportHandler serves the dashboard and analytics reports. Every report is
// computed from the authenticated user's own transactions.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// respond writes v as JSON, or the error when err is set.
func respond(c *gin.Context, v interface{}, err error) {
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetSummary returns all-time totals
// @Summary     Transaction summary
// @Description Total income, total expense and balance over the user's whole history
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Summary
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transaction-summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	summary, err := h.reportService.Summary(c.Request.Context(), userID)
	respond(c, summary, err)
}

// GetExpenseDistribution returns expenses per category
// @Summary     Expense distribution
// @Description All-time expense total per category with chart colors
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Distribution
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/expense-distribution [get]
func (h *ReportHandler) GetExpenseDistribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	d, err := h.reportService.ExpenseDistribution(c.Request.Context(), userID)
	respond(c, d, err)
}

// GetCategoryAnalysis splits categories by net amount
// @Summary     Category-wise analysis
// @Description Categories with a positive net amount under income, negative under expense
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.CategoryAnalysis
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /category-wise-analysis [get]
func (h *ReportHandler) GetCategoryAnalysis(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	a, err := h.reportService.CategoryAnalysis(c.Request.Context(), userID)
	respond(c, a, err)
}

// GetIncomeExpensesOverTime returns daily income and expense totals
// @Summary     Income and expenses over time
// @Description Per-day totals from the start of the current week, month or year. Defaults to the current month; an unrecognized timeRange covers all time
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       timeRange query string false "weekly, monthly (default) or yearly"
// @Success     200 {object} analytics.TimeSeries
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/income-expenses-over-time [get]
func (h *ReportHandler) GetIncomeExpensesOverTime(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	kind := analytics.RangeMonthly
	if raw := c.Query("timeRange"); raw != "" {
		kind = analytics.ParseRangeKind(raw)
	}
	ts, err := h.reportService.IncomeExpensesOverTime(c.Request.Context(), userID, kind)
	respond(c, ts, err)
}

// GetDailySnapshot returns today's totals
// @Summary     Daily income and expense
// @Description Income and expense recorded today
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.DailySnapshot
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /daily-income-expense [get]
func (h *ReportHandler) GetDailySnapshot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	s, err := h.reportService.DailySnapshot(c.Request.Context(), userID)
	respond(c, s, err)
}

// GetMonthlyTrend returns expenses per month
// @Summary     Monthly expense trend
// @Description Expense total per month over the trailing months. Months without expenses are omitted unless fill is true.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       timeRange query int  false "Number of months, 1-120 (default 6)"
// @Param       fill      query bool false "Zero-fill months without expenses"
// @Success     200 {object} analytics.MonthlySeries
// @Failure     400 {object} ErrorResponse "Invalid parameter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/monthly-trends [get]
func (h *ReportHandler) GetMonthlyTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	months, err := queryInt(c, "timeRange", analytics.DefaultTrendMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}
	dense := false
	if raw := c.Query("fill"); raw != "" {
		if dense, err = strconv.ParseBool(raw); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidParameter, "fill must be true or false"))
			return
		}
	}
	m, err := h.reportService.MonthlyTrend(c.Request.Context(), userID, months, dense)
	respond(c, m, err)
}

// GetCategoryTrend returns per-category daily expenses
// @Summary     Category spending trend
// @Description Per-day expense of every category over the trailing days, today included
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       timeRange query int false "Number of days, 1-366 (default 7)"
// @Success     200 {object} analytics.CategorySeries
// @Failure     400 {object} ErrorResponse "Invalid parameter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/category-spending-trends [get]
func (h *ReportHandler) GetCategoryTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	days, err := queryInt(c, "timeRange", analytics.DefaultTrendDays)
	if err != nil {
		respondWithError(c, err)
		return
	}
	s, err := h.reportService.CategoryTrend(c.Request.Context(), userID, days)
	respond(c, s, err)
}

// GetTopExpenses returns the largest transactions
// @Summary     Top expenses
// @Description The largest transactions by amount, newest first on ties
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of transactions (default 5)"
// @Success     200 {array}  models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid parameter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/top-expenses [get]
func (h *ReportHandler) GetTopExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", analytics.DefaultTopExpenses)
	if err != nil {
		respondWithError(c, err)
		return
	}
	top, err := h.reportService.TopExpenses(c.Request.Context(), userID, limit)
	respond(c, top, err)
}

// GetTopSpendingCategories ranks categories by expense
// @Summary     Top spending categories
// @Description Up to five categories with the highest expense total over the trailing months
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       timeRange query int false "Number of months, 1-120 (default 1)"
// @Success     200 {array}  analytics.CategorySpending
// @Failure     400 {object} ErrorResponse "Invalid parameter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/top-spending-categories [get]
func (h *ReportHandler) GetTopSpendingCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	months, err := queryInt(c, "timeRange", DefaultTopCategoriesMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}
	top, err := h.reportService.TopSpendingCategories(c.Request.Context(), userID, months)
	respond(c, top, err)
}

// GetCalendarEvents returns one entry per day with transactions
// @Summary     Calendar events
// @Description Daily income and expense totals with the day's transactions as events
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  analytics.CalendarDay
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /calendar-events [get]
func (h *ReportHandler) GetCalendarEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	days, err := h.reportService.CalendarSummary(c.Request.Context(), userID)
	respond(c, days, err)
}

// GetActualSpending returns expense totals per category
// @Summary     Actual spending
// @Description All-time expense total per category, for comparison with budget limits
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  analytics.CategoryActual
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /actual-spending [get]
func (h *ReportHandler) GetActualSpending(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	spending, err := h.reportService.ActualSpending(c.Request.Context(), userID)
	respond(c, spending, err)
}

// GetOverview returns the dashboard figures in one call
// @Summary     Dashboard overview
// @Description Summary, today's totals and the expense distribution
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Overview
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/overview [get]
func (h *ReportHandler) GetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	o, err := h.reportService.Overview(c.Request.Context(), userID)
	respond(c, o, err)
}
