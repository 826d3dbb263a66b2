package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// CalendarTitle is the title given to every day entry.
const CalendarTitle = "Daily Summary"

// CalendarEvent is one described transaction as shown inside a calendar day.
// Transactions without a description still count toward the day totals.
type CalendarEvent struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
}

// CalendarDay summarizes every transaction dated on one day.
type CalendarDay struct {
	ID      string          `json:"id"`
	Date    string          `json:"date"`
	Title   string          `json:"title"`
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Events  []CalendarEvent `json:"events"`
}

// CalendarBuilder accumulates calendar days incrementally so that history can
// be fed in batches. Days keep the order in which they were first seen.
type CalendarBuilder struct {
	days  []*CalendarDay
	index map[string]int
}

// NewCalendarBuilder returns an empty builder.
func NewCalendarBuilder() *CalendarBuilder {
	return &CalendarBuilder{index: make(map[string]int)}
}

// Add folds a batch of transactions into the calendar.
func (b *CalendarBuilder) Add(txs []models.Transaction) {
	for i := range txs {
		b.add(&txs[i])
	}
}

func (b *CalendarBuilder) add(tx *models.Transaction) {
	key := tx.Date.String()
	pos, ok := b.index[key]
	if !ok {
		start := tx.Date.Time()
		b.days = append(b.days, &CalendarDay{
			ID:      key,
			Date:    key,
			Title:   CalendarTitle,
			Start:   start,
			End:     start.AddDate(0, 0, 1),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Events:  []CalendarEvent{},
		})
		pos = len(b.days) - 1
		b.index[key] = pos
	}

	day := b.days[pos]
	switch tx.Type {
	case models.TransactionTypeIncome:
		day.Income = day.Income.Add(tx.Amount)
	case models.TransactionTypeExpense:
		day.Expense = day.Expense.Add(tx.Amount)
	}
	if tx.Description == "" {
		return
	}
	day.Events = append(day.Events, CalendarEvent{
		ID:          tx.ID,
		Title:       tx.Description,
		Description: tx.Description,
		Category:    tx.Category,
		Type:        tx.Type,
		Amount:      tx.Amount,
	})
}

// Days returns the accumulated calendar.
func (b *CalendarBuilder) Days() []CalendarDay {
	out := make([]CalendarDay, len(b.days))
	for i, d := range b.days {
		out[i] = *d
	}
	return out
}

// CalendarSummary builds the calendar for a full snapshot in one call.
func CalendarSummary(txs []models.Transaction) []CalendarDay {
	b := NewCalendarBuilder()
	b.Add(txs)
	return b.Days()
}
