package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

const testUserID = "0190c6f4-1111-7000-8000-000000000001"

// --- mock services ---

type mockUserService struct {
	createUserFn            func(email, password, firstName, lastName string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	verifyPasswordFn        func(user *models.User, password string) bool
	attemptLoginFn          func(email, password string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
	requestPasswordResetFn  func(email string) error
	resetPasswordFn         func(token, newPassword string) error
	purgeExpiredResetsFn    func(ctx context.Context) (int64, error)
}

func (m *mockUserService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, firstName, lastName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) RequestPasswordReset(email string) error {
	if m.requestPasswordResetFn != nil {
		return m.requestPasswordResetFn(email)
	}
	return nil
}

func (m *mockUserService) ResetPassword(token, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(token, newPassword)
	}
	return nil
}

func (m *mockUserService) PurgeExpiredResets(ctx context.Context) (int64, error) {
	if m.purgeExpiredResetsFn != nil {
		return m.purgeExpiredResetsFn(ctx)
	}
	return 0, nil
}

type mockTransactionService struct {
	createTransactionFn   func(ownerID string, in services.TransactionInput) (*models.Transaction, error)
	getUserTransactionsFn func(ownerID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(ownerID, transactionID string) (*models.Transaction, error)
	updateTransactionFn   func(ownerID, transactionID string, in services.TransactionInput) (*models.Transaction, error)
	deleteTransactionFn   func(ownerID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(ownerID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ownerID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(ownerID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(ownerID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(ownerID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(ownerID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(ownerID, transactionID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(ownerID, transactionID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(ownerID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(ownerID, transactionID)
	}
	return nil
}

type mockBudgetService struct {
	getLimitsFn   func(ownerID string) (map[string]decimal.Decimal, error)
	setLimitFn    func(ownerID, category string, limit decimal.Decimal) (*models.BudgetLimit, error)
	getProgressFn func(ctx context.Context, ownerID string, kind analytics.RangeKind) ([]analytics.BudgetStatus, error)
}

func (m *mockBudgetService) GetLimits(ownerID string) (map[string]decimal.Decimal, error) {
	if m.getLimitsFn != nil {
		return m.getLimitsFn(ownerID)
	}
	return map[string]decimal.Decimal{}, nil
}

func (m *mockBudgetService) SetLimit(ownerID, category string, limit decimal.Decimal) (*models.BudgetLimit, error) {
	if m.setLimitFn != nil {
		return m.setLimitFn(ownerID, category, limit)
	}
	return &models.BudgetLimit{OwnerID: ownerID, Category: category, Limit: limit}, nil
}

func (m *mockBudgetService) GetProgress(ctx context.Context, ownerID string, kind analytics.RangeKind) ([]analytics.BudgetStatus, error) {
	if m.getProgressFn != nil {
		return m.getProgressFn(ctx, ownerID, kind)
	}
	return []analytics.BudgetStatus{}, nil
}

// mockReportService returns empty reports unless a function is set. Every
// call records the owner it was made for.
type mockReportService struct {
	owners []string

	summaryFn                func(ownerID string) (analytics.Summary, error)
	monthlyTrendFn           func(ownerID string, months int, dense bool) (analytics.MonthlySeries, error)
	categoryTrendFn          func(ownerID string, days int) (analytics.CategorySeries, error)
	topExpensesFn            func(ownerID string, limit int) ([]models.Transaction, error)
	topSpendingCategoriesFn  func(ownerID string, months int) ([]analytics.CategorySpending, error)
	incomeExpensesOverTimeFn func(ownerID string, kind analytics.RangeKind) (analytics.TimeSeries, error)
	transactionsReportFn     func(ownerID string, kind analytics.RangeKind, start, end string) ([]models.Transaction, error)
	exportRowsFn             func(ownerID string, kind analytics.RangeKind, start, end string) ([]models.Transaction, error)
	overviewFn               func(ownerID string) (*services.Overview, error)
}

func (m *mockReportService) seen(ownerID string) { m.owners = append(m.owners, ownerID) }

func (m *mockReportService) Summary(_ context.Context, ownerID string) (analytics.Summary, error) {
	m.seen(ownerID)
	if m.summaryFn != nil {
		return m.summaryFn(ownerID)
	}
	return analytics.Summarize(nil, analytics.DateRange{}), nil
}

func (m *mockReportService) ExpenseDistribution(_ context.Context, ownerID string) (analytics.Distribution, error) {
	m.seen(ownerID)
	return analytics.DistributeExpenses(nil, analytics.DateRange{}), nil
}

func (m *mockReportService) CategoryAnalysis(_ context.Context, ownerID string) (analytics.CategoryAnalysis, error) {
	m.seen(ownerID)
	return analytics.AnalyzeCategories(nil, analytics.DateRange{}), nil
}

func (m *mockReportService) IncomeExpensesOverTime(_ context.Context, ownerID string, kind analytics.RangeKind) (analytics.TimeSeries, error) {
	m.seen(ownerID)
	if m.incomeExpensesOverTimeFn != nil {
		return m.incomeExpensesOverTimeFn(ownerID, kind)
	}
	return analytics.SeriesOverTime(nil, analytics.DateRange{}), nil
}

func (m *mockReportService) DailySnapshot(_ context.Context, ownerID string) (analytics.DailySnapshot, error) {
	m.seen(ownerID)
	return analytics.Snapshot(nil, models.NewDate(2024, 5, 15)), nil
}

func (m *mockReportService) MonthlyTrend(_ context.Context, ownerID string, months int, dense bool) (analytics.MonthlySeries, error) {
	m.seen(ownerID)
	if m.monthlyTrendFn != nil {
		return m.monthlyTrendFn(ownerID, months, dense)
	}
	return analytics.MonthlySeries{Labels: []string{}, Data: []decimal.Decimal{}}, nil
}

func (m *mockReportService) CategoryTrend(_ context.Context, ownerID string, days int) (analytics.CategorySeries, error) {
	m.seen(ownerID)
	if m.categoryTrendFn != nil {
		return m.categoryTrendFn(ownerID, days)
	}
	return analytics.CategoryTrend(nil, days, models.NewDate(2024, 5, 15)), nil
}

func (m *mockReportService) TopExpenses(_ context.Context, ownerID string, limit int) ([]models.Transaction, error) {
	m.seen(ownerID)
	if m.topExpensesFn != nil {
		return m.topExpensesFn(ownerID, limit)
	}
	return []models.Transaction{}, nil
}

func (m *mockReportService) TopSpendingCategories(_ context.Context, ownerID string, months int) ([]analytics.CategorySpending, error) {
	m.seen(ownerID)
	if m.topSpendingCategoriesFn != nil {
		return m.topSpendingCategoriesFn(ownerID, months)
	}
	return []analytics.CategorySpending{}, nil
}

func (m *mockReportService) CalendarSummary(_ context.Context, ownerID string) ([]analytics.CalendarDay, error) {
	m.seen(ownerID)
	return []analytics.CalendarDay{}, nil
}

func (m *mockReportService) ActualSpending(_ context.Context, ownerID string) ([]analytics.CategoryActual, error) {
	m.seen(ownerID)
	return []analytics.CategoryActual{}, nil
}

func (m *mockReportService) TransactionsReport(_ context.Context, ownerID string, kind analytics.RangeKind, start, end string) ([]models.Transaction, error) {
	m.seen(ownerID)
	if m.transactionsReportFn != nil {
		return m.transactionsReportFn(ownerID, kind, start, end)
	}
	return []models.Transaction{}, nil
}

func (m *mockReportService) ExportRows(_ context.Context, ownerID string, kind analytics.RangeKind, start, end string) ([]models.Transaction, error) {
	m.seen(ownerID)
	if m.exportRowsFn != nil {
		return m.exportRowsFn(ownerID, kind, start, end)
	}
	return []models.Transaction{}, nil
}

func (m *mockReportService) Overview(_ context.Context, ownerID string) (*services.Overview, error) {
	m.seen(ownerID)
	if m.overviewFn != nil {
		return m.overviewFn(ownerID)
	}
	return &services.Overview{}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:            "handler-test-secret",
		JWTExpirationDur:     15 * time.Minute,
		RefreshExpirationDur: time.Hour,
	})
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doRequestWithHeader(r *gin.Engine, method, path, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
