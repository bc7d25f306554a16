package dateutil

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DayLayout is the canonical calendar day format used for keys and output
const DayLayout = "2006-01-02"

// MonthLayout is the canonical month format
const MonthLayout = "2006-01"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns the end of the day (23:59:59.999) for the given date
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999999, date.Location())
}

// StartOfMonth returns the first day of the month (00:00:00) for the given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfWeekOn returns the first day of the week containing date,
// where weeks begin on the given weekday
func StartOfWeekOn(date time.Time, first time.Weekday) time.Time {
	offset := (int(date.Weekday()) - int(first) + 7) % 7
	return StartOfDay(date.AddDate(0, 0, -offset))
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(date time.Time) time.Time {
	return StartOfWeekOn(date, time.Monday)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same calendar day.
// A zero time is treated as unset and never matches.
func IsSameDay(date1, date2 time.Time) bool {
	if date1.IsZero() || date2.IsZero() {
		return false
	}
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// compareDays orders two dates by calendar day only
func compareDays(a, b time.Time) int {
	switch {
	case a.Year() != b.Year():
		return a.Year() - b.Year()
	case a.Month() != b.Month():
		return int(a.Month()) - int(b.Month())
	default:
		return a.Day() - b.Day()
	}
}

// IsBefore reports whether a falls on an earlier calendar day than b
func IsBefore(a, b time.Time) bool {
	return compareDays(a, b) < 0
}

// IsAfter reports whether a falls on a later calendar day than b
func IsAfter(a, b time.Time) bool {
	return compareDays(a, b) > 0
}

// IsDateBetween reports whether date lies within [start, end] by calendar day.
// Both endpoints are inclusive. Unset bounds or an inverted range match nothing.
func IsDateBetween(date, start, end time.Time) bool {
	if date.IsZero() || start.IsZero() || end.IsZero() {
		return false
	}
	return compareDays(date, start) >= 0 && compareDays(date, end) <= 0
}

// AddDays offsets date by n calendar days, keeping its time of day
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// IsCalendarAdjacent reports whether other is exactly one calendar day
// before or after date
func IsCalendarAdjacent(date, other time.Time) bool {
	return IsSameDay(AddDays(date, -1), other) || IsSameDay(AddDays(date, 1), other)
}

// WithTimeOf returns day's calendar date with the hour and minute of clock
func WithTimeOf(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}

// DayKey returns the canonical YYYY-MM-DD key of the date
func DayKey(date time.Time) string {
	return date.Format(DayLayout)
}

// DaySet is a set of calendar days. Times of day are ignored and
// duplicate days collapse into one entry.
type DaySet map[string]time.Time

// NewDaySet builds a set from the given dates, skipping zero values
func NewDaySet(dates ...time.Time) DaySet {
	s := make(DaySet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

// Add inserts the date's calendar day. The first time seen for a day is kept.
func (s DaySet) Add(date time.Time) {
	if date.IsZero() {
		return
	}
	key := DayKey(date)
	if _, ok := s[key]; !ok {
		s[key] = date
	}
}

// Remove deletes the date's calendar day from the set
func (s DaySet) Remove(date time.Time) {
	delete(s, DayKey(date))
}

// Contains reports whether the date's calendar day is in the set
func (s DaySet) Contains(date time.Time) bool {
	if date.IsZero() {
		return false
	}
	_, ok := s[DayKey(date)]
	return ok
}

// Merge adds every day of other to s
func (s DaySet) Merge(other DaySet) {
	for k, v := range other {
		if _, ok := s[k]; !ok {
			s[k] = v
		}
	}
}

// Sorted returns the set's dates in ascending calendar order
func (s DaySet) Sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for _, d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return IsBefore(out[i], out[j])
	})
	return out
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		DayLayout,
		"02.01.2006",
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05-0700",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}

// ParseMonth parses a YYYY-MM string into the first day of that month
func ParseMonth(monthStr string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, monthStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", monthStr, err)
	}
	return t, nil
}

// ParseWeekday parses an English weekday name or its prefix of at least
// three letters ("sunday", "Mon", "tues")
func ParseWeekday(name string) (time.Weekday, error) {
	if len(name) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := d.String()
			if len(name) <= len(full) && strings.EqualFold(full[:len(name)], name) {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %q", name)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
