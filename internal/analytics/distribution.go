package analytics

import (
	"hash/fnv"
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// palette is the fixed set of chart colors. A category always maps to the
// same entry so repeated reports render identically.
var palette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F", "#EDC948",
	"#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC", "#1F77B4", "#17BECF",
}

// ColorFor returns the chart color assigned to a category label.
func ColorFor(label string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(label))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Distribution is a labeled chart series. Labels, Data and Colors always have
// the same length.
type Distribution struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
	Colors []string          `json:"colors"`
}

func newDistribution(totals map[string]decimal.Decimal) Distribution {
	labels := make([]string, 0, len(totals))
	for label := range totals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	d := Distribution{
		Labels: labels,
		Data:   make([]decimal.Decimal, len(labels)),
		Colors: make([]string, len(labels)),
	}
	for i, label := range labels {
		d.Data[i] = totals[label]
		d.Colors[i] = ColorFor(label)
	}
	return d
}

// sumByCategory adds amounts of transactions of the given type inside r.
func sumByCategory(txs []models.Transaction, r DateRange, typ models.TransactionType) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != typ || !r.Contains(tx.Date) {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}

// DistributeExpenses sums expense amounts per category, labels ascending.
// Categories without expenses never appear.
func DistributeExpenses(txs []models.Transaction, r DateRange) Distribution {
	return newDistribution(sumByCategory(txs, r, models.TransactionTypeExpense))
}

// CategoryAnalysis splits categories by the sign of their net amount.
type CategoryAnalysis struct {
	Income  Distribution `json:"income"`
	Expense Distribution `json:"expense"`
}

// AnalyzeCategories nets income against expense per category. Categories with
// a positive net land in Income, negative in Expense (as magnitudes), and a
// net of exactly zero in neither.
func AnalyzeCategories(txs []models.Transaction, r DateRange) CategoryAnalysis {
	net := make(map[string]decimal.Decimal)
	for i := range txs {
		tx := &txs[i]
		if !tx.Type.Valid() || !r.Contains(tx.Date) {
			continue
		}
		net[tx.Category] = net[tx.Category].Add(tx.SignedAmount())
	}

	income := make(map[string]decimal.Decimal)
	expense := make(map[string]decimal.Decimal)
	for category, total := range net {
		switch total.Sign() {
		case 1:
			income[category] = total
		case -1:
			expense[category] = total.Abs()
		}
	}
	return CategoryAnalysis{Income: newDistribution(income), Expense: newDistribution(expense)}
}

// CategorySpending is the expense total of one category.
type CategorySpending struct {
	Category      string          `json:"category"`
	TotalSpending decimal.Decimal `json:"totalSpending"`
}

// CategoryActual is the expense total of a category as consumed by the
// budget screen.
type CategoryActual struct {
	Category               string          `json:"category"`
	CategoryActualSpending decimal.Decimal `json:"categoryActualSpending"`
}

// ActualSpending lists the expense total of every category with expenses,
// ordered by category name.
func ActualSpending(txs []models.Transaction, r DateRange) []CategoryActual {
	d := DistributeExpenses(txs, r)
	out := make([]CategoryActual, len(d.Labels))
	for i, label := range d.Labels {
		out[i] = CategoryActual{Category: label, CategoryActualSpending: d.Data[i]}
	}
	return out
}
