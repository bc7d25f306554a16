package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/username/day-selector/internal/calendar"
	"github.com/username/day-selector/internal/selection"
	"github.com/username/day-selector/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"

	timeLayout = "2006-01-02 15:04"
)

type dayView struct {
	Date         string `json:"date" yaml:"date"`
	Day          int    `json:"day" yaml:"day"`
	CurrentMonth bool   `json:"current_month" yaml:"current_month"`
	Disabled     bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Today        bool   `json:"today,omitempty" yaml:"today,omitempty"`
	Selected     bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
	InRange      bool   `json:"in_range,omitempty" yaml:"in_range,omitempty"`
	LeftCrop     bool   `json:"left_crop,omitempty" yaml:"left_crop,omitempty"`
	RightCrop    bool   `json:"right_crop,omitempty" yaml:"right_crop,omitempty"`
}

type gridView struct {
	Month        string       `json:"month" yaml:"month"`
	FirstWeekday string       `json:"first_weekday" yaml:"first_weekday"`
	Mode         string       `json:"mode" yaml:"mode"`
	State        string       `json:"state" yaml:"state"`
	Rows         [][]*dayView `json:"rows" yaml:"rows"` // nil entries are padding
}

type changeView struct {
	Mode     string   `json:"mode" yaml:"mode"`
	Change   string   `json:"change" yaml:"change"`
	Date     string   `json:"date" yaml:"date"`
	State    string   `json:"state" yaml:"state"`
	Selected []string `json:"selected" yaml:"selected"`
}

func newGridView(grid *calendar.Grid, mode selection.Mode, state selection.State, days []*selection.AnnotatedDay) gridView {
	view := gridView{
		Month:        fmt.Sprintf("%04d-%02d", grid.Year, grid.Month),
		FirstWeekday: grid.FirstWeekday.String(),
		Mode:         string(mode),
		State:        state.Key(),
		Rows:         make([][]*dayView, 0, grid.Rows()),
	}

	for row := 0; row < grid.Rows(); row++ {
		cells := make([]*dayView, 7)
		for col := 0; col < 7; col++ {
			d := days[row*7+col]
			if d == nil {
				continue
			}
			cells[col] = &dayView{
				Date:         dateutil.DayKey(d.Date),
				Day:          d.DayOfMonth,
				CurrentMonth: d.IsCurrentMonth,
				Disabled:     d.Disabled,
				Today:        d.IsToday,
				Selected:     d.IsSelected,
				InRange:      d.InRange,
				LeftCrop:     d.LeftCrop,
				RightCrop:    d.RightCrop,
			}
		}
		view.Rows = append(view.Rows, cells)
	}
	return view
}

// selectedTimes lists the dates held by a state, unset values skipped
func selectedTimes(state selection.State) []time.Time {
	var out []time.Time
	switch s := state.(type) {
	case selection.Single:
		out = append(out, s.Selected)
	case selection.Range:
		out = append(out, s.Start, s.End)
	case selection.Multiple:
		out = append(out, dateutil.NewDaySet(s.Selected...).Sorted()...)
	}

	filtered := out[:0]
	for _, t := range out {
		if !t.IsZero() {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func newChangeView(mode selection.Mode, change selection.Change) changeView {
	view := changeView{
		Mode:     string(mode),
		Change:   string(change.Kind),
		Date:     change.Date.Format(timeLayout),
		State:    change.State.Key(),
		Selected: []string{},
	}
	for _, t := range selectedTimes(change.State) {
		view.Selected = append(view.Selected, t.Format(timeLayout))
	}
	return view
}

// cellLabel renders one annotated day for the table view:
// "[" / "]" crops, "-" run background, "(" ")" a selected day outside a run,
// "*" today, "x" disabled, "~" adjacent month
func cellLabel(d *selection.AnnotatedDay) string {
	if d == nil {
		return ""
	}

	left, right := " ", " "
	switch {
	case d.LeftCrop:
		left = "["
	case d.InRange:
		left = "-"
	case d.IsSelected:
		left = "("
	}
	switch {
	case d.RightCrop:
		right = "]"
	case d.InRange:
		right = "-"
	case d.IsSelected:
		right = ")"
	}

	var b strings.Builder
	b.WriteString(left)
	b.WriteString(strconv.Itoa(d.DayOfMonth))
	b.WriteString(right)
	if d.IsToday {
		b.WriteByte('*')
	}
	if d.Disabled {
		b.WriteByte('x')
	}
	if !d.IsCurrentMonth {
		b.WriteByte('~')
	}
	return b.String()
}

// gridStyles are the table view styles
type gridStyles struct {
	header   lipgloss.Style
	muted    lipgloss.Style
	today    lipgloss.Style
	selected lipgloss.Style
	inRange  lipgloss.Style
}

func newGridStyles(r *lipgloss.Renderer) gridStyles {
	return gridStyles{
		header:   r.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		muted:    r.NewStyle().Foreground(lipgloss.Color("244")),
		today:    r.NewStyle().Underline(true),
		selected: r.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		inRange:  r.NewStyle().Background(lipgloss.Color("237")),
	}
}

func (s gridStyles) cell(d *selection.AnnotatedDay) string {
	label := fmt.Sprintf("%6s", cellLabel(d))
	switch {
	case d == nil:
		return label
	case d.IsSelected:
		return s.selected.Render(label)
	case d.InRange:
		return s.inRange.Render(label)
	case d.IsToday:
		return s.today.Render(label)
	case d.Disabled || !d.IsCurrentMonth:
		return s.muted.Render(label)
	default:
		return label
	}
}

func renderGrid(w io.Writer, format string, color bool, grid *calendar.Grid, mode selection.Mode, state selection.State, days []*selection.AnnotatedDay) error {
	switch format {
	case formatJSON:
		return writeJSON(w, newGridView(grid, mode, state, days))
	case formatYAML:
		return writeYAML(w, newGridView(grid, mode, state, days))
	case formatTable:
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	// Plain text unless w is a color terminal or color is forced
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	}
	styles := newGridStyles(r)

	var b strings.Builder
	b.WriteString(styles.header.Render(fmt.Sprintf("%s %d", grid.Month, grid.Year)))
	b.WriteString("  " + state.Key() + "\n\n")

	header := make([]string, 7)
	for i := range header {
		header[i] = fmt.Sprintf("%6s", time.Weekday((int(grid.FirstWeekday)+i)%7).String()[:3])
	}
	b.WriteString(styles.header.Render(strings.Join(header, "")) + "\n")

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < 7; col++ {
			b.WriteString(styles.cell(days[row*7+col]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nLegend: [ ] crop, ( ) selected, - in range, * today, x disabled, ~ adjacent month\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write grid: %w", err)
	}
	return nil
}

func renderChange(w io.Writer, format string, mode selection.Mode, change selection.Change) error {
	view := newChangeView(mode, change)

	switch format {
	case formatJSON:
		return writeJSON(w, view)
	case formatYAML:
		return writeYAML(w, view)
	case formatTable:
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	fmt.Fprintf(w, "Change:   %s %s\n", view.Change, view.Date)
	fmt.Fprintf(w, "State:    %s\n", view.State)
	fmt.Fprintf(w, "Selected: %s\n", strings.Join(view.Selected, ", "))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
