package selection

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/username/day-selector/internal/calendar"
	"go.uber.org/zap"
)

func TestCache_Annotate(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cache := NewCache(logger)
	grid := june2025(t)

	state := Range{Start: date(2025, time.June, 10), End: date(2025, time.June, 20)}

	first, err := cache.Annotate(grid, ModeRange, state, time.Time{})
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	// Same days at different times of day produce the same key
	sameDays := Range{
		Start: time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 20, 18, 45, 0, 0, time.UTC),
	}
	second, err := cache.Annotate(grid, ModeRange, sameDays, time.Time{})
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	if &first[0] != &second[0] {
		t.Error("expected cached result to be reused")
	}

	if hits, misses := cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (1, 1)", hits, misses)
	}

	tests := []struct {
		name  string
		grid  *calendar.Grid
		mode  Mode
		state State
		today time.Time
	}{
		{"State change", grid, ModeRange, Range{Start: date(2025, time.June, 11)}, time.Time{}},
		{"Today change", grid, ModeRange, Range{Start: date(2025, time.June, 11)}, date(2025, time.June, 5)},
		{"Month change", buildGrid(t, 2025, time.July, calendar.Options{FirstWeekday: time.Sunday}, nil),
			ModeRange, Range{Start: date(2025, time.June, 11)}, date(2025, time.June, 5)},
		{"Mode change", grid, ModeSingle, Single{Selected: date(2025, time.June, 11)}, date(2025, time.June, 5)},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := cache.Annotate(tt.grid, tt.mode, tt.state, tt.today); err != nil {
				t.Fatalf("Annotate() error = %v", err)
			}
			if _, misses := cache.Stats(); misses != 2+i {
				t.Errorf("misses = %d, want %d", misses, 2+i)
			}
		})
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewCache(zap.NewNop())
	grid := june2025(t)

	_, err := cache.Annotate(grid, ModeSingle, Range{}, time.Time{})
	if !errors.Is(err, ErrModeMismatch) {
		t.Fatalf("Annotate() error = %v, want ErrModeMismatch", err)
	}
	if hits, misses := cache.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() = (%d, %d), want (0, 0)", hits, misses)
	}

	if _, err := cache.Annotate(nil, ModeSingle, nil, time.Time{}); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Annotate(nil grid) error = %v, want ErrInvalidGrid", err)
	}
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(zap.NewNop())
	grid := june2025(t)
	state := Single{Selected: date(2025, time.June, 3)}

	for i := 0; i < 2; i++ {
		if _, err := cache.Annotate(grid, ModeSingle, state, time.Time{}); err != nil {
			t.Fatalf("Annotate() error = %v", err)
		}
	}
	cache.Invalidate()
	if _, err := cache.Annotate(grid, ModeSingle, state, time.Time{}); err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	if hits, misses := cache.Stats(); hits != 1 || misses != 2 {
		t.Errorf("Stats() = (%d, %d), want (1, 2)", hits, misses)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache(zap.NewNop())
	grid := june2025(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := Multiple{Selected: []time.Time{date(2025, time.June, 1+i%4)}}
			if _, err := cache.Annotate(grid, ModeMultiple, state, time.Time{}); err != nil {
				t.Errorf("Annotate() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if hits, misses := cache.Stats(); hits+misses != 16 {
		t.Errorf("hits + misses = %d, want 16", hits+misses)
	}
}

func TestGridKey(t *testing.T) {
	opts := calendar.Options{FirstWeekday: time.Sunday}
	plain := buildGrid(t, 2025, time.June, opts, nil)
	again := buildGrid(t, 2025, time.June, opts, nil)
	disabled := buildGrid(t, 2025, time.June, opts, calendar.NewDateList([]time.Time{date(2025, time.June, 4)}))
	monday := buildGrid(t, 2025, time.June, calendar.Options{FirstWeekday: time.Monday}, nil)

	if GridKey(plain) != GridKey(again) {
		t.Error("equal grids produced different keys")
	}
	if GridKey(plain) == GridKey(disabled) {
		t.Error("disabled day did not change the key")
	}
	if GridKey(plain) == GridKey(monday) {
		t.Error("first weekday did not change the key")
	}
}
