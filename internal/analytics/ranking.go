package analytics

import (
	"sort"

	"fintrack/internal/models"
)

// DefaultTopExpenses is the top expenses list length when none is given.
const DefaultTopExpenses = 5

// TopCategoriesLimit caps the top spending categories list regardless of the
// window size.
const TopCategoriesLimit = 5

// TopExpenses returns up to limit transactions with the largest amounts. The
// type is not filtered: income rows compete with expenses. Ties are broken by
// date (newest first) and then ID so repeated calls agree.
func TopExpenses(txs []models.Transaction, limit int) []models.Transaction {
	if limit < 1 {
		return []models.Transaction{}
	}
	ranked := make([]models.Transaction, len(txs))
	copy(ranked, txs)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TopSpendingCategories ranks expense categories by total over the window
// starting on the first day of the month months-1 before today's and ending
// today. At most TopCategoriesLimit entries are returned.
func TopSpendingCategories(txs []models.Transaction, months int, today models.Date) []CategorySpending {
	if months < 1 {
		return []CategorySpending{}
	}
	totals := sumByCategory(txs, MonthsToDateWindow(months, today), models.TransactionTypeExpense)
	out := make([]CategorySpending, 0, len(totals))
	for category, total := range totals {
		out = append(out, CategorySpending{Category: category, TotalSpending: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpending.Cmp(out[j].TotalSpending); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > TopCategoriesLimit {
		out = out[:TopCategoriesLimit]
	}
	return out
}
