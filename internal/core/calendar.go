package core

import "time"

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth degrades a day-of-month anchor gracefully for short
// months: day 31 becomes Feb 28/29, Apr 30, and so on.
func ClampDayOfMonth(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// NthWeekdayOfMonth resolves "the week-th weekday of the month", week 1-5.
// Week 5 is a "last" sentinel: for a month with only four such weekdays it
// resolves to the fourth, never an error.
func NthWeekdayOfMonth(year int, month time.Month, week int, weekday time.Weekday) Date {
	if week < 1 {
		week = 1
	}
	if week > 5 {
		week = 5
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (week-1)*7
	for day > DaysInMonth(year, month) {
		day -= 7
	}
	return NewDate(year, int(month), day)
}

// IntervalDatesInMonth returns every date inside the target month that is a
// whole number of intervals away from start, in ascending order. The start
// date may lie in any month, before or after the target; a weekly interval
// yields four or five dates depending on month length, and a bi-weekly cycle
// can miss a short month entirely (zero dates is a valid result).
func IntervalDatesInMonth(start Date, intervalDays int, year int, month time.Month) []Date {
	if intervalDays <= 0 || start.IsEmpty() {
		return nil
	}
	seed := time.Date(start.Year(), time.Month(start.Month()), start.Day(), 0, 0, 0, 0, time.UTC)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	// Smallest number of whole intervals landing on or after the 1st.
	days := int(first.Sub(seed) / (24 * time.Hour))
	steps := days / intervalDays
	if steps*intervalDays < days {
		steps++
	}

	var out []Date
	for d := seed.AddDate(0, 0, steps*intervalDays); d.Year() == year && d.Month() == month; d = d.AddDate(0, 0, intervalDays) {
		out = append(out, Date{Time: d})
	}
	return out
}

// SemiAnnualDatesInMonth returns the single semi-annual date in the target
// month, if any. Semi-annual recurrence steps in calendar months (every 6th
// month from the start date, day-of-month clamped), not in fixed ~182-day
// intervals, so a bill anchored on Aug 31 falls on Feb 28/29 rather than
// drifting through the year.
func SemiAnnualDatesInMonth(start Date, year int, month time.Month) []Date {
	if start.IsEmpty() {
		return nil
	}
	months := (year-start.Year())*12 + int(month) - start.Month()
	if months%6 != 0 {
		return nil
	}
	day := ClampDayOfMonth(year, month, start.Day())
	return []Date{NewDate(year, int(month), day)}
}
