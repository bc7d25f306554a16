package selection

import (
	"errors"
	"testing"
	"time"
)

func TestSelect(t *testing.T) {
	d := func(day int) time.Time { return date(2025, time.June, day) }

	tests := []struct {
		name     string
		state    State
		tap      time.Time
		wantKey  string
		wantKind ChangeKind
	}{
		{"Single empty", Single{}, d(4), "single:2025-06-04", ChangeSelected},
		{"Single replace", Single{Selected: d(4)}, d(9), "single:2025-06-09", ChangeSelected},
		{"Range start", Range{}, d(10), "range:2025-06-10..-", ChangeStart},
		{"Range end", Range{Start: d(10)}, d(20), "range:2025-06-10..2025-06-20", ChangeEnd},
		{"Range end on start day", Range{Start: d(10)}, d(10), "range:2025-06-10..2025-06-10", ChangeEnd},
		{"Range tap before start restarts", Range{Start: d(10)}, d(5), "range:2025-06-05..-", ChangeStart},
		{"Range complete restarts", Range{Start: d(10), End: d(20)}, d(25), "range:2025-06-25..-", ChangeStart},
		{"Multiple add", Multiple{Selected: []time.Time{d(7)}}, d(5), "multiple:2025-06-05,2025-06-07", ChangeAdded},
		{"Multiple remove", Multiple{Selected: []time.Time{d(5), d(7)}}, d(5), "multiple:2025-06-07", ChangeRemoved},
		{"Multiple remove last", Multiple{Selected: []time.Time{d(5)}}, d(5), "multiple:", ChangeRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := Select(tt.state, tt.tap)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got := change.State.Key(); got != tt.wantKey {
				t.Errorf("state = %q, want %q", got, tt.wantKey)
			}
			if change.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", change.Kind, tt.wantKind)
			}
			if change.State.Mode() != tt.state.Mode() {
				t.Errorf("mode changed from %s to %s", tt.state.Mode(), change.State.Mode())
			}
		})
	}
}

func TestSelect_KeepsTimeOfDay(t *testing.T) {
	tap := time.Date(2025, time.June, 12, 14, 30, 0, 0, time.UTC)

	change, err := Select(Single{}, tap)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got := change.State.(Single).Selected; !got.Equal(tap) {
		t.Errorf("selected = %v, want %v", got, tap)
	}
}

func TestSelect_Errors(t *testing.T) {
	if _, err := Select(Single{}, time.Time{}); err == nil {
		t.Error("Select() expected error for zero date")
	}
	if _, err := Select(nil, date(2025, time.June, 1)); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("Select(nil) error = %v, want ErrModeMismatch", err)
	}
}
