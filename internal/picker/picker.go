package picker

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/day-selector/internal/calendar"
	"github.com/username/day-selector/internal/selection"
	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

var (
	// ErrDateDisabled is returned when a disabled day is selected
	ErrDateDisabled = errors.New("date is disabled")
	// ErrInvalidTime is returned for an hour or minute out of range
	ErrInvalidTime = errors.New("invalid time of day")
)

// ChangeFunc receives every accepted selection
type ChangeFunc func(selection.Change)

// Picker holds the displayed month, the active time of day and the
// selection. It has a single owner and is not safe for concurrent use.
type Picker struct {
	builder  *calendar.Builder
	cache    *selection.Cache
	mode     selection.Mode
	state    selection.State
	current  time.Time // displayed month and active time of day
	grid     *calendar.Grid
	onChange ChangeFunc
	logger   *zap.Logger
}

// New creates a picker showing the month of current. A nil state starts
// with an empty selection for the mode.
func New(
	builder *calendar.Builder,
	mode selection.Mode,
	state selection.State,
	current time.Time,
	logger *zap.Logger,
) (*Picker, error) {
	if state == nil {
		empty, err := selection.Empty(mode)
		if err != nil {
			return nil, err
		}
		state = empty
	}
	if state.Mode() != mode {
		return nil, fmt.Errorf("%w: mode %q, state %q", selection.ErrModeMismatch, mode, state.Mode())
	}
	if current.IsZero() {
		current = time.Now()
	}

	return &Picker{
		builder: builder,
		cache:   selection.NewCache(logger),
		mode:    mode,
		state:   state,
		current: current,
		logger:  logger,
	}, nil
}

// OnChange registers the callback invoked after each accepted selection
func (p *Picker) OnChange(fn ChangeFunc) {
	p.onChange = fn
}

// Mode returns the selection mode
func (p *Picker) Mode() selection.Mode {
	return p.mode
}

// State returns the current selection
func (p *Picker) State() selection.State {
	return p.state
}

// Current returns the displayed month's reference time, including the
// active time of day
func (p *Picker) Current() time.Time {
	return p.current
}

// SetMode switches the mode and clears the selection
func (p *Picker) SetMode(mode selection.Mode) error {
	state, err := selection.Empty(mode)
	if err != nil {
		return err
	}
	p.mode = mode
	p.state = state

	p.logger.Info("Selection mode changed", zap.String("mode", string(mode)))
	return nil
}

// Grid returns the displayed month's grid and its annotation
func (p *Picker) Grid(today time.Time) (*calendar.Grid, []*selection.AnnotatedDay, error) {
	grid, err := p.monthGrid(p.current)
	if err != nil {
		return nil, nil, err
	}

	days, err := p.cache.Annotate(grid, p.mode, p.state, today)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to annotate %s: %w", p.current.Format(dateutil.MonthLayout), err)
	}
	return grid, days, nil
}

// SelectDate applies a tap on date. The active hour and minute are applied
// to the tapped day before it is stored.
func (p *Picker) SelectDate(date time.Time) (selection.Change, error) {
	grid, err := p.monthGrid(date)
	if err != nil {
		return selection.Change{}, err
	}
	if cell := grid.Find(date); cell != nil && cell.Disabled {
		p.logger.Debug("Disabled date rejected", zap.String("date", dateutil.DayKey(date)))
		return selection.Change{}, fmt.Errorf("%w: %s", ErrDateDisabled, dateutil.DayKey(date))
	}

	tapped := dateutil.WithTimeOf(date, p.current)
	change, err := selection.Select(p.state, tapped)
	if err != nil {
		return selection.Change{}, fmt.Errorf("failed to select %s: %w", dateutil.DayKey(date), err)
	}
	p.state = change.State

	p.logger.Info("Date selected",
		zap.Time("date", tapped),
		zap.String("change", string(change.Kind)),
		zap.String("state", change.State.Key()))

	if p.onChange != nil {
		p.onChange(change)
	}
	return change, nil
}

// SetTime changes the active time of day
func (p *Picker) SetTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	c := p.current
	p.current = time.Date(c.Year(), c.Month(), c.Day(), hour, minute, 0, 0, c.Location())
	return nil
}

// NextMonth displays the following month
func (p *Picker) NextMonth() {
	p.SetMonth(dateutil.StartOfMonth(p.current).AddDate(0, 1, 0))
}

// PrevMonth displays the preceding month
func (p *Picker) PrevMonth() {
	p.SetMonth(dateutil.StartOfMonth(p.current).AddDate(0, -1, 0))
}

// SetMonth displays the month containing month, keeping the time of day
func (p *Picker) SetMonth(month time.Time) {
	p.current = dateutil.WithTimeOf(dateutil.StartOfMonth(month), p.current)

	p.logger.Debug("Displayed month changed",
		zap.String("month", p.current.Format(dateutil.MonthLayout)))
}

// Refresh drops the built grid so disabled dates are reloaded
func (p *Picker) Refresh() {
	p.grid = nil
	p.cache.Invalidate()
}

// monthGrid returns the grid for the month of date, reusing the last one
// built when it matches
func (p *Picker) monthGrid(date time.Time) (*calendar.Grid, error) {
	if p.grid != nil && p.grid.Year == date.Year() && p.grid.Month == date.Month() {
		return p.grid, nil
	}

	grid, err := p.builder.Build(date)
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}
	p.grid = grid
	return grid, nil
}
