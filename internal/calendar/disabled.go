package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

// defaultRuleAnchor is used as DTSTART for rules that do not carry one
var defaultRuleAnchor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// monthBounds returns the first and last instant of a month in loc
func monthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, dateutil.EndOfDay(start.AddDate(0, 1, -1))
}

func inMonth(date time.Time, year int, month time.Month) bool {
	return date.Year() == year && date.Month() == month
}

// DateList disables a fixed list of days
type DateList struct {
	days dateutil.DaySet
}

// NewDateList creates a DateList from the given dates
func NewDateList(dates []time.Time) *DateList {
	return &DateList{days: dateutil.NewDaySet(dates...)}
}

// DisabledDays returns the listed days that fall in the given month
func (l *DateList) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()
	for _, d := range l.days {
		if inMonth(d, year, month) {
			out.Add(d)
		}
	}
	return out, nil
}

// WeekendSource disables every Saturday and Sunday
type WeekendSource struct{}

// DisabledDays returns the weekend days of the given month
func (WeekendSource) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if dateutil.IsWeekend(date) {
			out.Add(date)
		}
	}
	return out, nil
}

// RRuleSource disables the occurrences of RFC 5545 recurrence rules,
// e.g. "FREQ=WEEKLY;BYDAY=SA,SU" or "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
type RRuleSource struct {
	rules  []*rrule.RRule
	logger *zap.Logger
}

// NewRRuleSource parses the given rules. Rules without a DTSTART are
// anchored at 2000-01-01 UTC.
func NewRRuleSource(rules []string, logger *zap.Logger) (*RRuleSource, error) {
	src := &RRuleSource{logger: logger}
	for _, raw := range rules {
		raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "RRULE:"))
		if raw == "" {
			continue
		}

		r, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule %q: %w", raw, err)
		}
		if !strings.Contains(strings.ToUpper(raw), "DTSTART") {
			r.DTStart(defaultRuleAnchor)
		}
		src.rules = append(src.rules, r)
	}

	logger.Debug("Recurrence rules loaded", zap.Int("rules", len(src.rules)))
	return src, nil
}

// DisabledDays returns the rule occurrences that fall in the given month
func (s *RRuleSource) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()
	for _, r := range s.rules {
		start, end := monthBounds(year, month, r.OrigOptions.Dtstart.Location())
		for _, occ := range r.Between(start, end, true) {
			out.Add(occ)
		}
	}
	return out, nil
}
