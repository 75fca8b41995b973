package dateutil

import (
	"time"
)

// DateRange is an inclusive [Start, End] time interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range (inclusive on both ends).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether the two ranges share at least one instant.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last represented instant of t's calendar day (23:59:59.999).
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// AddDays shifts t by the given number of calendar days, preserving the
// wall-clock time of day. Day stepping goes through field normalization
// instead of adding a duration, so crossing a DST transition never shifts
// the time of day.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// MonthRange returns the full range of the month containing t: from the first
// day at 00:00:00.000 to the last day at 23:59:59.999.
func MonthRange(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	// Day 0 of the next month normalizes to the last day of this month.
	last := time.Date(t.Year(), t.Month()+1, 0, 23, 59, 59, 999000000, t.Location())
	return DateRange{Start: first, End: last}
}

// PreviousMonthRange returns MonthRange for the month before the one containing t.
func PreviousMonthRange(t time.Time) DateRange {
	return MonthRange(time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location()))
}

// NextMonthRange returns MonthRange for the month after the one containing t.
func NextMonthRange(t time.Time) DateRange {
	return MonthRange(time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()))
}

// DaysBetween returns the signed number of calendar days from 'from' to 'to'.
// Both instants are collapsed to their calendar date at UTC midnight first,
// so the result is unaffected by time of day or DST transitions in between.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// weekdayOffset returns how many days date lies after the most recent
// firstDay (0 when date itself falls on firstDay).
func weekdayOffset(date time.Time, firstDay time.Weekday) int {
	return (int(date.Weekday()) - int(firstDay) + 7) % 7
}

// GenerateMonthGridDates produces the dates of the month-view grid for the
// month containing the given time: 5 full weeks (35 dates) starting on the
// grid day that contains the 1st of the month, extended to 6 weeks (42 dates)
// when the month's last day would otherwise not fit, or when showSixthRow
// forces the taller grid. Every returned date is midnight in month's location.
func GenerateMonthGridDates(month time.Time, firstDayOfWeek time.Weekday, showSixthRow bool) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	gridStart := AddDays(first, -weekdayOffset(first, firstDayOfWeek))

	last := time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, month.Location())
	count := 35
	if showSixthRow || DaysBetween(gridStart, last) >= 35 {
		count = 42
	}

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, AddDays(gridStart, i))
	}
	return dates
}

// VisibleGridRange returns the exact date range covered by the month grid:
// start of the first grid day through end of the last grid day. Callers use
// it to fetch events that may appear in the grid even though they belong to
// adjacent months.
func VisibleGridRange(month time.Time, firstDayOfWeek time.Weekday, showSixthRow bool) DateRange {
	dates := GenerateMonthGridDates(month, firstDayOfWeek, showSixthRow)
	return DateRange{
		Start: dates[0],
		End:   EndOfDay(dates[len(dates)-1]),
	}
}

// ISOWeekNumber returns the ISO-8601 week number (1..53) of the given date:
// weeks start on Monday and week 1 is the week containing the year's first
// Thursday. Dates at the edges of a year may belong to the adjoining year's
// last or first week.
func ISOWeekNumber(date time.Time) int {
	return WeekNumber(date, time.Monday)
}

// WeekNumber generalizes ISO week numbering to an arbitrary week start day.
// The week's anchor day (day index 3 into the week) decides which year owns
// the week; the week number is the anchor's week index within that year.
// For firstDayOfWeek == Monday this is exactly ISO-8601 numbering.
func WeekNumber(date time.Time, firstDayOfWeek time.Weekday) int {
	weekStart := AddDays(date, -weekdayOffset(date, firstDayOfWeek))
	anchor := AddDays(weekStart, 3)
	jan1 := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
	return DaysBetween(jan1, anchor)/7 + 1
}
