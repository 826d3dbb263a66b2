package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Summary holds ledger totals. All fields are always present.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
}

// Summarize totals income and expense over the transactions inside r.
// Balance is the sum of signed amounts, which equals income minus expense.
func Summarize(txs []models.Transaction, r DateRange) Summary {
	s := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero, Balance: decimal.Zero}
	for i := range txs {
		tx := &txs[i]
		if !r.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
		s.Balance = s.Balance.Add(tx.SignedAmount())
	}
	return s
}

// DailySnapshot is the income and expense recorded on one day.
type DailySnapshot struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Snapshot totals the transactions dated exactly day.
func Snapshot(txs []models.Transaction, day models.Date) DailySnapshot {
	s := Summarize(txs, DayWindow(day))
	return DailySnapshot{Date: day.String(), Income: s.TotalIncome, Expense: s.TotalExpense}
}
