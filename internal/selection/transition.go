package selection

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
)

// ChangeKind describes what a tap did to the selection
type ChangeKind string

const (
	ChangeSelected ChangeKind = "selected" // single mode
	ChangeStart    ChangeKind = "start"    // range start set, end cleared
	ChangeEnd      ChangeKind = "end"      // range end set
	ChangeAdded    ChangeKind = "added"    // multiple mode
	ChangeRemoved  ChangeKind = "removed"  // multiple mode
)

// Change is the outcome of selecting a date
type Change struct {
	State State
	Date  time.Time
	Kind  ChangeKind
}

// Select applies a tap on date to the state and returns the new state.
// The tapped date is stored as given, time of day included.
//
//   - Single: the date becomes the selection.
//   - Range: with a start and no end, a date on or after the start becomes
//     the end; anything else starts a new range.
//   - Multiple: the date is toggled; the result is sorted by day.
func Select(state State, date time.Time) (Change, error) {
	if date.IsZero() {
		return Change{}, errors.New("cannot select an unset date")
	}

	switch s := state.(type) {
	case Single:
		return Change{State: Single{Selected: date}, Date: date, Kind: ChangeSelected}, nil

	case Range:
		if !s.Start.IsZero() && s.End.IsZero() && !dateutil.IsBefore(date, s.Start) {
			return Change{State: Range{Start: s.Start, End: date}, Date: date, Kind: ChangeEnd}, nil
		}
		return Change{State: Range{Start: date}, Date: date, Kind: ChangeStart}, nil

	case Multiple:
		set := dateutil.NewDaySet(s.Selected...)
		kind := ChangeAdded
		if set.Contains(date) {
			set.Remove(date)
			kind = ChangeRemoved
		} else {
			set.Add(date)
		}
		return Change{State: Multiple{Selected: set.Sorted()}, Date: date, Kind: kind}, nil

	default:
		return Change{}, fmt.Errorf("%w: unsupported state %T", ErrModeMismatch, state)
	}
}
