package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// TimeSeries holds per-day income and expense totals as parallel arrays.
type TimeSeries struct {
	Labels      []string          `json:"labels"`
	IncomeData  []decimal.Decimal `json:"incomeData"`
	ExpenseData []decimal.Decimal `json:"expenseData"`
}

// SeriesOverTime buckets transactions inside r by day. The series is sparse:
// only days with at least one transaction appear, in ascending order.
func SeriesOverTime(txs []models.Transaction, r DateRange) TimeSeries {
	type bucket struct{ income, expense decimal.Decimal }
	days := make(map[string]*bucket)
	for i := range txs {
		tx := &txs[i]
		if !tx.Type.Valid() || !r.Contains(tx.Date) {
			continue
		}
		key := tx.Date.String()
		b, ok := days[key]
		if !ok {
			b = &bucket{income: decimal.Zero, expense: decimal.Zero}
			days[key] = b
		}
		if tx.Type == models.TransactionTypeIncome {
			b.income = b.income.Add(tx.Amount)
		} else {
			b.expense = b.expense.Add(tx.Amount)
		}
	}

	labels := sortedKeys(days)
	ts := TimeSeries{
		Labels:      labels,
		IncomeData:  make([]decimal.Decimal, len(labels)),
		ExpenseData: make([]decimal.Decimal, len(labels)),
	}
	for i, label := range labels {
		ts.IncomeData[i] = days[label].income
		ts.ExpenseData[i] = days[label].expense
	}
	return ts
}

// DefaultTrendMonths is the monthly trend window when none is given.
const DefaultTrendMonths = 6

// MonthlySeries is a labeled per-month series.
type MonthlySeries struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

// MonthlyTrend sums expenses per calendar month (YYYY-MM) from the first day
// of the month months-1 before today's onward. Months without expenses are
// omitted unless dense is set, in which case every month from the window
// start through today's month appears, zero-filled.
func MonthlyTrend(txs []models.Transaction, months int, today models.Date, dense bool) MonthlySeries {
	if months < 1 {
		return MonthlySeries{Labels: []string{}, Data: []decimal.Decimal{}}
	}
	r := TrailingMonthsWindow(months, today)
	totals := make(map[string]decimal.Decimal)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TransactionTypeExpense || !r.Contains(tx.Date) {
			continue
		}
		key := tx.Date.MonthKey()
		totals[key] = totals[key].Add(tx.Amount)
	}

	if dense {
		start := r.From.Time()
		for m := 0; m < months; m++ {
			key := models.NewDate(start.Year(), start.Month()+time.Month(m), 1).MonthKey()
			if _, ok := totals[key]; !ok {
				totals[key] = decimal.Zero
			}
		}
	}

	labels := sortedKeys(totals)
	out := MonthlySeries{Labels: labels, Data: make([]decimal.Decimal, len(labels))}
	for i, label := range labels {
		out.Data[i] = totals[label]
	}
	return out
}

// DefaultTrendDays is the category trend window when none is given.
const DefaultTrendDays = 7

// CategorySeries maps each category to a per-day series aligned with Labels.
type CategorySeries struct {
	Labels     []string                     `json:"labels"`
	Categories map[string][]decimal.Decimal `json:"categories"`
}

// CategoryTrend lays out the days days ending today and, per category with
// expenses in that window, the summed expense amount of each day.
func CategoryTrend(txs []models.Transaction, days int, today models.Date) CategorySeries {
	out := CategorySeries{Labels: []string{}, Categories: map[string][]decimal.Decimal{}}
	if days < 1 {
		return out
	}
	first := today.AddDays(-(days - 1))
	index := make(map[string]int, days)
	out.Labels = make([]string, days)
	for i := 0; i < days; i++ {
		label := first.AddDays(i).String()
		out.Labels[i] = label
		index[label] = i
	}

	r := TrailingDaysWindow(days, today)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TransactionTypeExpense || !r.Contains(tx.Date) {
			continue
		}
		series, ok := out.Categories[tx.Category]
		if !ok {
			series = make([]decimal.Decimal, days)
			for j := range series {
				series[j] = decimal.Zero
			}
			out.Categories[tx.Category] = series
		}
		pos := index[tx.Date.String()]
		series[pos] = series[pos].Add(tx.Amount)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
