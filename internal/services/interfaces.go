package services

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	PurgeExpiredResets(ctx context.Context) (int64, error)
}

// TransactionInput carries the full set of writable transaction fields.
// Updates replace every field.
type TransactionInput struct {
	Date        models.Date
	Description string
	Category    string
	Amount      decimal.Decimal
	Type        models.TransactionType
}

// TransactionFilter holds optional parameters for listing transactions.
type TransactionFilter struct {
	SortBy     string
	SearchTerm string
	FromDate   *models.Date
	ToDate     *models.Date
	Type       *models.TransactionType
	Category   string
}

// TransactionServicer defines the contract for transaction CRUD.
type TransactionServicer interface {
	CreateTransaction(ownerID string, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(ownerID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ownerID, transactionID string, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ownerID, transactionID string) error
}

// BudgetServicer defines the contract for per-category budget limits.
type BudgetServicer interface {
	GetLimits(ownerID string) (map[string]decimal.Decimal, error)
	SetLimit(ownerID, category string, limit decimal.Decimal) (*models.BudgetLimit, error)
	GetProgress(ctx context.Context, ownerID string, kind analytics.RangeKind) ([]analytics.BudgetStatus, error)
}

// Overview bundles the figures shown on the dashboard landing page.
type Overview struct {
	Summary             analytics.Summary       `json:"summary"`
	Today               analytics.DailySnapshot `json:"today"`
	ExpenseDistribution analytics.Distribution  `json:"expenseDistribution"`
}

// ReportServicer assembles read-only reports over one owner's ledger.
type ReportServicer interface {
	Summary(ctx context.Context, ownerID string) (analytics.Summary, error)
	ExpenseDistribution(ctx context.Context, ownerID string) (analytics.Distribution, error)
	CategoryAnalysis(ctx context.Context, ownerID string) (analytics.CategoryAnalysis, error)
	IncomeExpensesOverTime(ctx context.Context, ownerID string, kind analytics.RangeKind) (analytics.TimeSeries, error)
	DailySnapshot(ctx context.Context, ownerID string) (analytics.DailySnapshot, error)
	MonthlyTrend(ctx context.Context, ownerID string, months int, dense bool) (analytics.MonthlySeries, error)
	CategoryTrend(ctx context.Context, ownerID string, days int) (analytics.CategorySeries, error)
	TopExpenses(ctx context.Context, ownerID string, limit int) ([]models.Transaction, error)
	TopSpendingCategories(ctx context.Context, ownerID string, months int) ([]analytics.CategorySpending, error)
	CalendarSummary(ctx context.Context, ownerID string) ([]analytics.CalendarDay, error)
	ActualSpending(ctx context.Context, ownerID string) ([]analytics.CategoryActual, error)
	TransactionsReport(ctx context.Context, ownerID string, kind analytics.RangeKind, startDate, endDate string) ([]models.Transaction, error)
	ExportRows(ctx context.Context, ownerID string, kind analytics.RangeKind, startDate, endDate string) ([]models.Transaction, error)
	Overview(ctx context.Context, ownerID string) (*Overview, error)
}
