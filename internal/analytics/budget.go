package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// BudgetStatus compares a category's limit with what was spent.
type BudgetStatus struct {
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	OverBudget bool            `json:"overBudget"`
}

var hundred = decimal.NewFromInt(100)

// BudgetProgress reports, for every category with a limit, the expenses inside
// r against that limit. Ordered by category name.
func BudgetProgress(limits []models.BudgetLimit, txs []models.Transaction, r DateRange) []BudgetStatus {
	spent := sumByCategory(txs, r, models.TransactionTypeExpense)

	out := make([]BudgetStatus, 0, len(limits))
	for _, l := range limits {
		s, ok := spent[l.Category]
		if !ok {
			s = decimal.Zero
		}
		status := BudgetStatus{
			Category:   l.Category,
			Limit:      l.Limit,
			Spent:      s,
			Remaining:  l.Limit.Sub(s),
			OverBudget: s.GreaterThan(l.Limit),
		}
		if l.Limit.IsPositive() {
			status.Percentage = s.Div(l.Limit).Mul(hundred).Round(2).InexactFloat64()
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
