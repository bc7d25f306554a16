package selection

import (
	"fmt"
	"time"

	"github.com/username/day-selector/internal/calendar"
	"github.com/username/day-selector/pkg/dateutil"
)

// AnnotatedDay is a grid cell with its selection display flags.
// LeftCrop and RightCrop mark the squared-off edges of a highlighted block
// and are only ever set on cells that are selected or in range.
type AnnotatedDay struct {
	calendar.Day
	IsToday    bool
	IsSelected bool
	InRange    bool
	LeftCrop   bool
	RightCrop  bool
}

// monthEdges classifies a cell against the boundaries of its own month
type monthEdges struct {
	first bool
	last  bool
}

// classify uses the displayed month's length for current-month cells and
// the cell's own month length for adjacent-month cells
func classify(grid *calendar.Grid, cell *calendar.Day) monthEdges {
	daysInMonth := grid.FullDaysInMonth
	if !cell.IsCurrentMonth {
		daysInMonth = dateutil.DaysInMonth(cell.Date.Year(), cell.Date.Month())
	}
	return monthEdges{
		first: cell.DayOfMonth == 1,
		last:  cell.DayOfMonth == daysInMonth,
	}
}

// isRowStart and isRowEnd describe grid geometry only. Calendar adjacency
// is a separate question answered by date arithmetic.
func isRowStart(gridIndex int) bool { return gridIndex%7 == 0 }
func isRowEnd(gridIndex int) bool   { return gridIndex%7 == 6 }

// Annotate computes the display flags of every cell in grid for the given
// selection. Padding cells stay nil. The grid is not modified.
//
// A nil state selects nothing. Grids that are not made of whole rows are
// rejected with ErrInvalidGrid; an unknown mode fails with ErrUnknownMode
// and a state of another mode with ErrModeMismatch.
func Annotate(grid *calendar.Grid, mode Mode, state State, today time.Time) ([]*AnnotatedDay, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}

	if state == nil {
		var err error
		if state, err = Empty(mode); err != nil {
			return nil, err
		}
	}
	switch mode {
	case ModeSingle, ModeRange, ModeMultiple:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if state.Mode() != mode {
		return nil, fmt.Errorf("%w: mode %q, state %q", ErrModeMismatch, mode, state.Mode())
	}

	var apply func(*AnnotatedDay, monthEdges)
	switch s := state.(type) {
	case Single:
		apply = func(d *AnnotatedDay, _ monthEdges) { annotateSingle(d, s) }
	case Range:
		apply = func(d *AnnotatedDay, e monthEdges) { annotateRange(d, e, s) }
	case Multiple:
		selected := dateutil.NewDaySet(s.Selected...)
		apply = func(d *AnnotatedDay, e monthEdges) { annotateMultiple(d, e, selected) }
	default:
		return nil, fmt.Errorf("%w: unsupported state %T", ErrModeMismatch, state)
	}

	out := make([]*AnnotatedDay, len(grid.Cells))
	for i, cell := range grid.Cells {
		if cell == nil {
			continue
		}

		edges := classify(grid, cell)
		d := &AnnotatedDay{
			Day:       *cell,
			IsToday:   dateutil.IsSameDay(cell.Date, today),
			LeftCrop:  edges.first,
			RightCrop: edges.last,
		}
		apply(d, edges)

		if !d.IsSelected && !d.InRange {
			d.LeftCrop = false
			d.RightCrop = false
		}
		out[i] = d
	}

	return out, nil
}

// annotateSingle never produces a run
func annotateSingle(d *AnnotatedDay, s Single) {
	d.IsSelected = dateutil.IsSameDay(d.Date, s.Selected)
	d.InRange = false
	d.LeftCrop = false
	d.RightCrop = false
}

func annotateRange(d *AnnotatedDay, e monthEdges, s Range) {
	// Only an explicit end crops on the right
	d.RightCrop = false

	isStart := dateutil.IsSameDay(d.Date, s.Start)
	isEnd := dateutil.IsSameDay(d.Date, s.End)

	d.IsSelected = isStart || isEnd
	d.InRange = dateutil.IsDateBetween(d.Date, s.Start, s.End)

	if isStart {
		d.LeftCrop = true
	}
	if isEnd {
		d.RightCrop = true
	}

	// A run must not look like it begins or ends at a row wrap
	if isRowStart(d.GridIndex) && !isStart {
		d.LeftCrop = false
	}
	if isRowEnd(d.GridIndex) && !isEnd {
		d.RightCrop = false
	}

	if (e.first && isEnd) || (e.last && isStart) || dateutil.IsSameDay(s.Start, s.End) {
		d.InRange = false
	}
}

func annotateMultiple(d *AnnotatedDay, e monthEdges, selected dateutil.DaySet) {
	d.IsSelected = selected.Contains(d.Date)
	if !d.IsSelected {
		return
	}

	yesterdaySelected := selected.Contains(dateutil.AddDays(d.Date, -1))
	tomorrowSelected := selected.Contains(dateutil.AddDays(d.Date, 1))

	switch {
	case yesterdaySelected && tomorrowSelected:
		d.InRange = true
	case tomorrowSelected:
		d.InRange = true
		d.LeftCrop = true
	case yesterdaySelected:
		d.InRange = true
		d.RightCrop = true
	}

	if e.first && !tomorrowSelected {
		d.InRange = false
	}
	if e.last && !yesterdaySelected {
		d.InRange = false
	}

	// Interior run days draw only the continuous background
	if d.InRange && !d.LeftCrop && !d.RightCrop {
		d.IsSelected = false
	}
}
