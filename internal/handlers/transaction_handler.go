package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/export"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	reportService      services.ReportServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, reportService services.ReportServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, reportService: reportService}
}

// TransactionRequest is the payload for creating or replacing a transaction.
type TransactionRequest struct {
	Date        string                 `json:"date" binding:"required,civil_date"`
	Description string                 `json:"description" binding:"max=500"`
	Category    string                 `json:"category" binding:"max=100"`
	Amount      *decimal.Decimal       `json:"amount" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
}

func (r *TransactionRequest) input() (services.TransactionInput, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return services.TransactionInput{}, apperrors.WithMessage(apperrors.ErrInvalidDate, err.Error())
	}
	return services.TransactionInput{
		Date:        date,
		Description: r.Description,
		Category:    r.Category,
		Amount:      *r.Amount,
		Type:        r.Type,
	}, nil
}

// ListTransactionsQuery holds the list filters.
type ListTransactionsQuery struct {
	SortBy     string `form:"sortBy" binding:"omitempty,sort_field"`
	SearchTerm string `form:"searchTerm" binding:"max=200"`
	FromDate   string `form:"from_date" binding:"omitempty,civil_date"`
	ToDate     string `form:"to_date" binding:"omitempty,civil_date"`
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	Category   string `form:"category" binding:"max=100"`
}

func (q *ListTransactionsQuery) filter() services.TransactionFilter {
	f := services.TransactionFilter{
		SortBy:     q.SortBy,
		SearchTerm: q.SearchTerm,
		Category:   q.Category,
	}
	if d, err := models.ParseDate(q.FromDate); err == nil {
		f.FromDate = &d
	}
	if d, err := models.ParseDate(q.ToDate); err == nil {
		f.ToDate = &d
	}
	if q.Type != "" {
		t := models.TransactionType(q.Type)
		f.Type = &t
	}
	return f
}

// ReportQuery selects the window of a transactions report or export.
type ReportQuery struct {
	Type      string `form:"type" binding:"omitempty,report_type"`
	StartDate string `form:"startDate" binding:"omitempty,civil_date"`
	EndDate   string `form:"endDate" binding:"omitempty,civil_date"`
}

// ExportQuery adds the document format to a ReportQuery.
type ExportQuery struct {
	ReportQuery
	Format string `form:"format" binding:"required,export_format"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of all transactions for the authenticated user
// @Summary     Get user transactions
// @Description Get a paginated, filtered and sorted list of the authenticated user's transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       sortBy     query string false "date (newest first), amount, category, description or type"
// @Param       searchTerm query string false "Case-insensitive match on description"
// @Param       from_date  query string false "Earliest date, inclusive (YYYY-MM-DD)"
// @Param       to_date    query string false "Latest date, inclusive (YYYY-MM-DD)"
// @Param       type       query string false "income or expense"
// @Param       category   query string false "Exact category"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, q.filter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles replacing an existing transaction
// @Summary     Update transaction
// @Description Replace every field of an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "New transaction fields"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, txID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// GetTransactionsReport lists the transactions of a report window
// @Summary     Transactions report
// @Description List transactions in date order for the current week, month or year, a custom [startDate, endDate) window, or all time
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "all, weekly, monthly, yearly or custom"
// @Param       startDate query string false "Custom window start, inclusive (YYYY-MM-DD)"
// @Param       endDate   query string false "Custom window end, exclusive (YYYY-MM-DD)"
// @Success     200 {array}  models.Transaction "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/report [get]
func (h *TransactionHandler) GetTransactionsReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	rows, err := h.reportService.TransactionsReport(c.Request.Context(), userID,
		analytics.ParseRangeKind(q.Type), q.StartDate, q.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ExportTransactions renders a transactions report as a document
// @Summary     Export transactions
// @Description Render the transactions of a report window as PDF, CSV, XML or a printable HTML page. Without a type the startDate/endDate window is used.
// @Tags        transactions
// @Produce     application/pdf
// @Produce     text/csv
// @Produce     application/xml
// @Produce     text/html
// @Security    BearerAuth
// @Param       format    query string true  "pdf, csv, print or xml"
// @Param       type      query string false "all, weekly, monthly, yearly or custom"
// @Param       startDate query string false "Custom window start, inclusive (YYYY-MM-DD)"
// @Param       endDate   query string false "Custom window end, exclusive (YYYY-MM-DD)"
// @Success     200 {file}   file "Rendered report"
// @Failure     400 {object} ErrorResponse "Unsupported format or invalid window"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		respondWithError(c, err)
		return
	}
	renderer, err := export.For(format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period := q.Type
	if period == "" {
		period = string(analytics.RangeCustom)
	}
	rows, err := h.reportService.ExportRows(c.Request.Context(), userID,
		analytics.RangeKind(period), q.StartDate, q.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	report := export.Report{
		Title:       export.ReportTitle,
		Period:      period,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}
	if err := renderer.Render(&buf, report); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	disposition := "inline"
	if renderer.Attachment() {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, export.Filename(renderer, period)))
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}
