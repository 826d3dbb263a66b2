// Package analytics is the aggregation engine: pure, deterministic reductions
// over a snapshot of one owner's transactions. Nothing here touches the store;
// callers fetch the rows (optionally pre-filtered with the same windows) and
// pass them in.
package analytics

import (
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// RangeKind is a symbolic time range.
type RangeKind string

const (
	RangeAll     RangeKind = "all"
	RangeWeekly  RangeKind = "weekly"
	RangeMonthly RangeKind = "monthly"
	RangeYearly  RangeKind = "yearly"
	RangeCustom  RangeKind = "custom"
)

// ParseRangeKind maps a query value to a RangeKind. Unrecognized values
// resolve to RangeAll, i.e. no date filter.
func ParseRangeKind(s string) RangeKind {
	switch k := RangeKind(s); k {
	case RangeWeekly, RangeMonthly, RangeYearly, RangeCustom:
		return k
	}
	return RangeAll
}

// DateRange is the half-open interval [From, To). A nil bound is unbounded.
type DateRange struct {
	From *models.Date
	To   *models.Date
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d models.Date) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && !d.Before(*r.To) {
		return false
	}
	return true
}

// Unbounded reports whether the range applies no filter at all.
func (r DateRange) Unbounded() bool {
	return r.From == nil && r.To == nil
}

func since(from models.Date) DateRange {
	return DateRange{From: &from}
}

func between(from, to models.Date) DateRange {
	return DateRange{From: &from, To: &to}
}

// ReportWindow resolves the closed calendar windows used by the transaction
// report and export: the current month or year up to the first day of the
// next one, the trailing week, or a caller-supplied [start, end).
func ReportWindow(kind RangeKind, start, end string, today models.Date) (DateRange, error) {
	switch kind {
	case RangeWeekly:
		return since(today.AddDays(-7)), nil
	case RangeMonthly:
		first := today.FirstOfMonth()
		return between(first, models.NewDate(first.Time().Year(), first.Time().Month()+1, 1)), nil
	case RangeYearly:
		year := today.Time().Year()
		return between(models.NewDate(year, 1, 1), models.NewDate(year+1, 1, 1)), nil
	case RangeCustom:
		return CustomWindow(start, end)
	}
	return DateRange{}, nil
}

// OpenWindow resolves the open-ended windows used by the distribution and
// trend reports: everything from the start of the period onward.
func OpenWindow(kind RangeKind, today models.Date) DateRange {
	switch kind {
	case RangeWeekly:
		return since(today.AddDays(-7))
	case RangeMonthly:
		return since(today.FirstOfMonth())
	case RangeYearly:
		return since(models.NewDate(today.Time().Year(), 1, 1))
	}
	return DateRange{}
}

// CustomWindow validates caller-supplied bounds and returns [start, end).
// Both bounds are required and end may not precede start.
func CustomWindow(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, apperrors.WithMessage(apperrors.ErrInvalidTimeRange, "custom range requires startDate and endDate")
	}
	from, err := models.ParseDate(start)
	if err != nil {
		return DateRange{}, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid startDate: "+start)
	}
	to, err := models.ParseDate(end)
	if err != nil {
		return DateRange{}, apperrors.WithMessage(apperrors.ErrInvalidDate, "invalid endDate: "+end)
	}
	if to.Before(from) {
		return DateRange{}, apperrors.WithMessage(apperrors.ErrInvalidTimeRange, "endDate precedes startDate")
	}
	return between(from, to), nil
}

// TrailingMonthsWindow starts on the first day of the month n-1 months before
// today's month and is open-ended.
func TrailingMonthsWindow(n int, today models.Date) DateRange {
	return since(monthsBack(n, today))
}

// MonthsToDateWindow is TrailingMonthsWindow capped at today, inclusive.
func MonthsToDateWindow(n int, today models.Date) DateRange {
	return between(monthsBack(n, today), today.AddDays(1))
}

// TrailingDaysWindow covers the n calendar days ending today, inclusive.
func TrailingDaysWindow(n int, today models.Date) DateRange {
	return between(today.AddDays(-(n - 1)), today.AddDays(1))
}

// DayWindow covers a single calendar day.
func DayWindow(day models.Date) DateRange {
	return between(day, day.AddDays(1))
}

func monthsBack(n int, today models.Date) models.Date {
	if n < 1 {
		n = 1
	}
	t := today.Time()
	return models.NewDate(t.Year(), t.Month()-time.Month(n-1), 1)
}
