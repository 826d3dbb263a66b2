package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
)

// Bounds for caller-supplied window sizes.
const (
	maxTrendMonths = 120
	maxTrendDays   = 366
)

// calendarBatchSize is how many rows the calendar reads per batch.
const calendarBatchSize = 1000

// reportService reads the ledger and reduces it with the analytics engine.
// Every read is owner-scoped by the store.
type reportService struct {
	store  ledger.Store
	maxTop int
	now    func() time.Time
}

// NewReportService creates a new ReportServicer. maxTop caps the top
// expenses list length.
func NewReportService(store ledger.Store, maxTop int) ReportServicer {
	if maxTop < analytics.DefaultTopExpenses {
		maxTop = analytics.DefaultTopExpenses
	}
	return &reportService{store: store, maxTop: maxTop, now: time.Now}
}

func (s *reportService) today() models.Date {
	return models.DateOf(s.now())
}

var expenseOnly = func() *models.TransactionType {
	t := models.TransactionTypeExpense
	return &t
}()

// Summary totals the owner's whole history.
func (s *reportService) Summary(ctx context.Context, ownerID string) (analytics.Summary, error) {
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{})
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(txs, analytics.DateRange{}), nil
}

// ExpenseDistribution sums all-time expenses per category.
func (s *reportService) ExpenseDistribution(ctx context.Context, ownerID string) (analytics.Distribution, error) {
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{Type: expenseOnly})
	if err != nil {
		return analytics.Distribution{}, err
	}
	return analytics.DistributeExpenses(txs, analytics.DateRange{}), nil
}

// CategoryAnalysis partitions categories by their all-time net amount.
func (s *reportService) CategoryAnalysis(ctx context.Context, ownerID string) (analytics.CategoryAnalysis, error) {
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{})
	if err != nil {
		return analytics.CategoryAnalysis{}, err
	}
	return analytics.AnalyzeCategories(txs, analytics.DateRange{}), nil
}

// IncomeExpensesOverTime buckets the period kind opens by day.
func (s *reportService) IncomeExpensesOverTime(ctx context.Context, ownerID string, kind analytics.RangeKind) (analytics.TimeSeries, error) {
	window := analytics.OpenWindow(kind, s.today())
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{Range: window})
	if err != nil {
		return analytics.TimeSeries{}, err
	}
	return analytics.SeriesOverTime(txs, window), nil
}

// DailySnapshot totals today's transactions.
func (s *reportService) DailySnapshot(ctx context.Context, ownerID string) (analytics.DailySnapshot, error) {
	today := s.today()
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{Range: analytics.DayWindow(today)})
	if err != nil {
		return analytics.DailySnapshot{}, err
	}
	return analytics.Snapshot(txs, today), nil
}

// MonthlyTrend sums expenses per month over the trailing months.
func (s *reportService) MonthlyTrend(ctx context.Context, ownerID string, months int, dense bool) (analytics.MonthlySeries, error) {
	if months < 1 || months > maxTrendMonths {
		return analytics.MonthlySeries{}, apperrors.WithMessage(apperrors.ErrInvalidParameter, "timeRange must be between 1 and 120 months")
	}
	today := s.today()
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{
		Range: analytics.TrailingMonthsWindow(months, today),
		Type:  expenseOnly,
	})
	if err != nil {
		return analytics.MonthlySeries{}, err
	}
	return analytics.MonthlyTrend(txs, months, today, dense), nil
}

// CategoryTrend lays out per-category daily expenses over the trailing days.
func (s *reportService) CategoryTrend(ctx context.Context, ownerID string, days int) (analytics.CategorySeries, error) {
	if days < 1 || days > maxTrendDays {
		return analytics.CategorySeries{}, apperrors.WithMessage(apperrors.ErrInvalidParameter, "timeRange must be between 1 and 366 days")
	}
	today := s.today()
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{
		Range: analytics.TrailingDaysWindow(days, today),
		Type:  expenseOnly,
	})
	if err != nil {
		return analytics.CategorySeries{}, err
	}
	return analytics.CategoryTrend(txs, days, today), nil
}

// TopExpenses returns the largest transactions of any type.
func (s *reportService) TopExpenses(ctx context.Context, ownerID string, limit int) ([]models.Transaction, error) {
	if limit < 1 || limit > s.maxTop {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidParameter, "limit is out of range")
	}
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{Order: ledger.OrderLargest, Limit: limit})
	if err != nil {
		return nil, err
	}
	return analytics.TopExpenses(txs, limit), nil
}

// TopSpendingCategories ranks expense categories over the trailing months.
func (s *reportService) TopSpendingCategories(ctx context.Context, ownerID string, months int) ([]analytics.CategorySpending, error) {
	if months < 1 || months > maxTrendMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidParameter, "timeRange must be between 1 and 120 months")
	}
	today := s.today()
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{
		Range: analytics.MonthsToDateWindow(months, today),
		Type:  expenseOnly,
	})
	if err != nil {
		return nil, err
	}
	return analytics.TopSpendingCategories(txs, months, today), nil
}

// CalendarSummary streams the owner's history into one entry per day.
func (s *reportService) CalendarSummary(ctx context.Context, ownerID string) ([]analytics.CalendarDay, error) {
	b := analytics.NewCalendarBuilder()
	err := s.store.Stream(ctx, ownerID, ledger.Query{}, calendarBatchSize, func(batch []models.Transaction) error {
		b.Add(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.Days(), nil
}

// ActualSpending lists all-time expenses per category.
func (s *reportService) ActualSpending(ctx context.Context, ownerID string) ([]analytics.CategoryActual, error) {
	txs, err := s.store.Find(ctx, ownerID, ledger.Query{Type: expenseOnly})
	if err != nil {
		return nil, err
	}
	return analytics.ActualSpending(txs, analytics.DateRange{}), nil
}

// TransactionsReport lists the transactions of a closed report window in
// date order.
func (s *reportService) TransactionsReport(ctx context.Context, ownerID string, kind analytics.RangeKind, startDate, endDate string) ([]models.Transaction, error) {
	window, err := analytics.ReportWindow(kind, startDate, endDate, s.today())
	if err != nil {
		return nil, err
	}
	return s.store.Find(ctx, ownerID, ledger.Query{Range: window, Order: ledger.OrderDateAsc})
}

// ExportRows returns the rows of an export. Unlike the report, an empty kind
// means the caller-supplied window.
func (s *reportService) ExportRows(ctx context.Context, ownerID string, kind analytics.RangeKind, startDate, endDate string) ([]models.Transaction, error) {
	if kind == "" {
		kind = analytics.RangeCustom
	}
	return s.TransactionsReport(ctx, ownerID, kind, startDate, endDate)
}

// Overview computes the dashboard figures concurrently. The first failure
// cancels the remaining reads and fails the call.
func (s *reportService) Overview(ctx context.Context, ownerID string) (*Overview, error) {
	if err := ledger.ValidOwner(ownerID); err != nil {
		return nil, err
	}

	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Summary, err = s.Summary(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Today, err = s.DailySnapshot(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		out.ExpenseDistribution, err = s.ExpenseDistribution(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
