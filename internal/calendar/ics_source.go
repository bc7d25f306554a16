package calendar

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

// icsEvent is the part of a VEVENT needed to block days
type icsEvent struct {
	UID      string
	Summary  string
	Start    time.Time
	End      time.Time // exclusive
	AllDay   bool
	RawRRule string
	ExDates  []time.Time
}

// ICSSource implements DisabledSource from the events of an iCalendar file.
// Every day an event (or one of its recurrences) touches is disabled.
type ICSSource struct {
	filePath string
	logger   *zap.Logger
	events   []icsEvent
}

// NewICSSource creates a new ICSSource instance
func NewICSSource(filePath string, logger *zap.Logger) *ICSSource {
	return &ICSSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Load reads and parses the iCalendar file
func (s *ICSSource) Load() error {
	f, err := os.Open(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to open ics file: %w", err)
	}
	defer f.Close()

	cal, err := ical.ParseCalendar(f)
	if err != nil {
		return fmt.Errorf("failed to parse ics file: %w", err)
	}

	events := make([]icsEvent, 0)
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			// Skip the broken event, keep the rest
			s.logger.Warn("Skipping ics event", zap.String("file", s.filePath), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	s.events = events

	s.logger.Info("ICS file loaded",
		zap.String("file", s.filePath),
		zap.Int("events", len(events)))

	return nil
}

func parseVEvent(ve *ical.VEvent) (icsEvent, error) {
	var out icsEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, errors.New("missing DTSTART")
	}
	out.AllDay = !strings.Contains(dtStart.Value, "T")
	if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}

	var err error
	if out.AllDay {
		out.Start, err = ve.GetAllDayStartAt()
	} else {
		out.Start, err = ve.GetStartAt()
	}
	if err != nil {
		return out, fmt.Errorf("invalid DTSTART %q: %w", dtStart.Value, err)
	}

	var end time.Time
	if out.AllDay {
		end, err = ve.GetAllDayEndAt()
	} else {
		end, err = ve.GetEndAt()
	}
	switch {
	case err != nil && out.AllDay:
		// An all-day event without DTEND lasts one day
		end = out.Start.AddDate(0, 0, 1)
	case err != nil:
		end = out.Start
	}
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part), out.Start.Location()); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses a basic ICS date or date-time value
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

// DisabledDays returns every day of the month covered by an event
func (s *ICSSource) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()

	for _, ev := range s.events {
		duration := ev.End.Sub(ev.Start)
		for _, start := range s.occurrences(ev, year, month) {
			markEventDays(out, start, start.Add(duration), ev.AllDay, year, month)
		}
	}
	return out, nil
}

// occurrences returns the start times of ev that may touch the given month
func (s *ICSSource) occurrences(ev icsEvent, year int, month time.Month) []time.Time {
	if ev.RawRRule == "" {
		return []time.Time{ev.Start}
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		s.logger.Warn("Failed to parse RRULE",
			zap.String("uid", ev.UID),
			zap.String("rrule", ev.RawRRule),
			zap.Error(err))
		return []time.Time{ev.Start}
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Widen the window by the event length so multi-day events starting in
	// the previous month are included
	from, to := monthBounds(year, month, ev.Start.Location())
	from = from.Add(-(ev.End.Sub(ev.Start)))
	return set.Between(from, to, true)
}

// markEventDays adds the days of [start, end) that fall in the month
func markEventDays(out dateutil.DaySet, start, end time.Time, allDay bool, year int, month time.Month) {
	last := end
	if allDay || (end.After(start) && end.Equal(dateutil.StartOfDay(end))) {
		// Exclusive end: an event ending at midnight does not touch that day
		last = end.Add(-time.Nanosecond)
	}
	if last.Before(start) {
		last = start
	}

	for d := dateutil.StartOfDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if inMonth(d, year, month) {
			out.Add(d)
		}
	}
}
