package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
)

var (
	// ErrUnknownMode is returned for a mode outside single, range and multiple
	ErrUnknownMode = errors.New("unknown selection mode")
	// ErrModeMismatch is returned when the mode and the state variant disagree
	ErrModeMismatch = errors.New("selection mode does not match state")
	// ErrInvalidGrid is returned for grids that are not made of whole 7-day rows
	ErrInvalidGrid = errors.New("invalid grid shape")
)

// Mode is the selection mode of the picker
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeRange    Mode = "range"
	ModeMultiple Mode = "multiple"
)

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSingle, ModeRange, ModeMultiple:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// State is the current selection. It is one of Single, Range or Multiple.
// A zero time.Time means the field is unset and matches nothing.
type State interface {
	Mode() Mode
	// Key returns a canonical, day-granular representation of the state
	Key() string
	isState()
}

// Single holds at most one selected day
type Single struct {
	Selected time.Time
}

// Range holds an optional start and end day
type Range struct {
	Start time.Time
	End   time.Time
}

// Multiple holds any number of discrete days
type Multiple struct {
	Selected []time.Time
}

func (Single) Mode() Mode   { return ModeSingle }
func (Range) Mode() Mode    { return ModeRange }
func (Multiple) Mode() Mode { return ModeMultiple }

func (Single) isState()   {}
func (Range) isState()    {}
func (Multiple) isState() {}

func dayKeyOrUnset(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return dateutil.DayKey(t)
}

func (s Single) Key() string {
	return "single:" + dayKeyOrUnset(s.Selected)
}

func (s Range) Key() string {
	return "range:" + dayKeyOrUnset(s.Start) + ".." + dayKeyOrUnset(s.End)
}

func (s Multiple) Key() string {
	sorted := dateutil.NewDaySet(s.Selected...).Sorted()
	keys := make([]string, len(sorted))
	for i, d := range sorted {
		keys[i] = dateutil.DayKey(d)
	}
	return "multiple:" + strings.Join(keys, ",")
}

// Empty returns the empty state for a mode
func Empty(mode Mode) (State, error) {
	switch mode {
	case ModeSingle:
		return Single{}, nil
	case ModeRange:
		return Range{}, nil
	case ModeMultiple:
		return Multiple{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
