package calendar

import (
	"fmt"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

// Options shape the month grid
type Options struct {
	FirstWeekday    time.Weekday
	DisplayFullDays bool      // Fill leading/trailing cells with adjacent-month days
	MinDate         time.Time // Days before MinDate are disabled (zero = no limit)
	MaxDate         time.Time // Days after MaxDate are disabled (zero = no limit)
}

// Builder produces month grids
type Builder struct {
	opts   Options
	source DisabledSource
	logger *zap.Logger
}

// NewBuilder creates a new grid builder. source may be nil.
func NewBuilder(opts Options, source DisabledSource, logger *zap.Logger) *Builder {
	return &Builder{
		opts:   opts,
		source: source,
		logger: logger,
	}
}

// Options returns the builder's grid options
func (b *Builder) Options() Options {
	return b.opts
}

// Build returns the grid for the month containing the given date
func (b *Builder) Build(month time.Time) (*Grid, error) {
	first := dateutil.StartOfMonth(month)
	year, mon := first.Year(), first.Month()
	daysInMonth := dateutil.DaysInMonth(year, mon)

	offset := (int(first.Weekday()) - int(b.opts.FirstWeekday) + 7) % 7
	used := offset + daysInMonth

	size := (used + 6) / 7 * 7
	if b.opts.DisplayFullDays {
		// Full display always shows five rows, or six when the month needs them
		size = 35
		if used > 35 {
			size = 42
		}
	}

	gridStart := first.AddDate(0, 0, -offset)
	gridEnd := gridStart.AddDate(0, 0, size-1)
	if !b.opts.DisplayFullDays {
		gridStart = first
		gridEnd = first.AddDate(0, 0, daysInMonth-1)
	}

	disabled, err := b.disabledDays(gridStart, gridEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load disabled dates for %s: %w", first.Format(dateutil.MonthLayout), err)
	}

	cells := make([]*Day, size)
	for i := 0; i < size; i++ {
		date := first.AddDate(0, 0, i-offset)
		current := date.Year() == year && date.Month() == mon
		if !current && !b.opts.DisplayFullDays {
			continue
		}
		cells[i] = &Day{
			Date:           date,
			DayOfMonth:     date.Day(),
			IsCurrentMonth: current,
			Disabled:       b.isDisabled(date, disabled),
			GridIndex:      i,
		}
	}

	b.logger.Debug("Month grid built",
		zap.String("month", first.Format(dateutil.MonthLayout)),
		zap.Int("cells", size),
		zap.Int("leading_offset", offset),
		zap.Int("disabled_days", len(disabled)))

	return &Grid{
		Year:            year,
		Month:           mon,
		FirstWeekday:    b.opts.FirstWeekday,
		FullDaysInMonth: daysInMonth,
		Cells:           cells,
	}, nil
}

// disabledDays collects disabled days for every month between from and to
func (b *Builder) disabledDays(from, to time.Time) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()
	if b.source == nil {
		return out, nil
	}

	for m := dateutil.StartOfMonth(from); !m.After(to); m = m.AddDate(0, 1, 0) {
		days, err := b.source.DisabledDays(m.Year(), m.Month())
		if err != nil {
			return nil, err
		}
		out.Merge(days)
	}
	return out, nil
}

func (b *Builder) isDisabled(date time.Time, disabled dateutil.DaySet) bool {
	if !b.opts.MinDate.IsZero() && dateutil.IsBefore(date, b.opts.MinDate) {
		return true
	}
	if !b.opts.MaxDate.IsZero() && dateutil.IsAfter(date, b.opts.MaxDate) {
		return true
	}
	return disabled.Contains(date)
}
