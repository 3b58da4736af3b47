// Package services implements the budgeting engine: occurrence generation,
// month synchronization, payment tracking and the leftover/tally
// aggregation, plus the BudgetService facade tying them to a store.
package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"billfold/internal/core"
)

// GenerateOccurrences expands one template into its expected occurrences
// for the target month, dates ascending, sequence starting at 1. Interval
// periods legitimately produce zero occurrences (a bi-weekly cycle can skip
// a short month) or an extra one (five Fridays in a 31-day month).
//
// Generation never fails: a template with a malformed or missing anchor
// degrades to a single occurrence on day 1 so one bad record cannot take
// down a whole month sync.
func GenerateOccurrences(t core.RecurringTemplate, month core.Month) []core.Occurrence {
	var dates []core.Date
	switch t.BillingPeriod {
	case core.PeriodBiWeekly:
		dates = intervalDates(t, month, 14)
	case core.PeriodWeekly:
		dates = intervalDates(t, month, 7)
	case core.PeriodSemiAnnually:
		if t.StartDate.IsEmpty() {
			dates = []core.Date{month.First()}
		} else {
			dates = core.SemiAnnualDatesInMonth(t.StartDate, month.Year, month.Month)
		}
	default:
		// monthly, and the defensive fallback for unknown periods
		dates = []core.Date{monthlyDate(t, month)}
	}

	sort.Slice(dates, func(a, b int) bool { return dates[a].Before(dates[b].Time) })

	occs := make([]core.Occurrence, 0, len(dates))
	for i, d := range dates {
		occs = append(occs, core.Occurrence{
			ID:             uuid.NewString(),
			Sequence:       i + 1,
			ExpectedDate:   d,
			ExpectedAmount: t.Amount,
		})
	}
	return occs
}

func intervalDates(t core.RecurringTemplate, month core.Month, every int) []core.Date {
	if t.StartDate.IsEmpty() {
		// legacy record without a seed: best-effort single occurrence
		return []core.Date{month.First()}
	}
	return core.IntervalDatesInMonth(t.StartDate, every, month.Year, month.Month)
}

func monthlyDate(t core.RecurringTemplate, month core.Month) core.Date {
	if t.RecurrenceWeek >= 1 {
		return core.NthWeekdayOfMonth(month.Year, month.Month, t.RecurrenceWeek, time.Weekday(t.RecurrenceDay))
	}
	day := t.DayOfMonth
	if day < 1 {
		day = 1 // missing anchor defaults to day 1
	}
	return core.NewDate(month.Year, int(month.Month), core.ClampDayOfMonth(month.Year, month.Month, day))
}
