package calendar

import (
	"fmt"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
)

// Day represents one real day in a month grid
type Day struct {
	Date           time.Time
	DayOfMonth     int
	IsCurrentMonth bool
	Disabled       bool
	GridIndex      int // 0-based, row-major, 7 columns
}

// Grid represents the day cells of one displayed month.
// A nil entry in Cells is a padding cell that belongs to no day.
type Grid struct {
	Year            int
	Month           time.Month
	FirstWeekday    time.Weekday
	FullDaysInMonth int // Number of real days in the displayed month
	Cells           []*Day
}

// Rows returns the number of 7-day rows in the grid
func (g *Grid) Rows() int {
	return len(g.Cells) / 7
}

// Validate checks the grid shape: whole rows and cells in index order
func (g *Grid) Validate() error {
	if len(g.Cells)%7 != 0 {
		return fmt.Errorf("grid has %d cells, not a multiple of 7", len(g.Cells))
	}
	for i, cell := range g.Cells {
		if cell != nil && cell.GridIndex != i {
			return fmt.Errorf("cell %s at position %d has grid index %d",
				dateutil.DayKey(cell.Date), i, cell.GridIndex)
		}
	}
	return nil
}

// Find returns the cell for the given calendar day, or nil
func (g *Grid) Find(date time.Time) *Day {
	for _, cell := range g.Cells {
		if cell != nil && dateutil.IsSameDay(cell.Date, date) {
			return cell
		}
	}
	return nil
}

// DisabledSource reports days that cannot be selected
type DisabledSource interface {
	// DisabledDays returns the disabled days within the given month
	DisabledDays(year int, month time.Month) (dateutil.DaySet, error)
}
