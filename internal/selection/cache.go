package selection

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/username/day-selector/internal/calendar"
	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

// Key identifies one annotation result by value
type Key struct {
	Grid  string
	Mode  Mode
	State string
	Today string
}

// GridKey fingerprints a grid: its month, first weekday and every cell's
// day, month membership and disabled flag
func GridKey(grid *calendar.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d-%02d/%d/%d:", grid.Year, grid.Month, grid.FirstWeekday, len(grid.Cells))
	for _, cell := range grid.Cells {
		if cell == nil {
			b.WriteByte('_')
			continue
		}
		b.WriteString(dateutil.DayKey(cell.Date))
		switch {
		case cell.Disabled:
			b.WriteByte('x')
		case !cell.IsCurrentMonth:
			b.WriteByte('o')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// NewKey builds the cache key for an Annotate call
func NewKey(grid *calendar.Grid, mode Mode, state State, today time.Time) Key {
	stateKey := "-"
	if state != nil {
		stateKey = state.Key()
	}
	return Key{
		Grid:  GridKey(grid),
		Mode:  mode,
		State: stateKey,
		Today: dayKeyOrUnset(today),
	}
}

// Cache remembers the last annotation and recomputes only when the key
// changes. Results are shared between callers and must not be modified.
type Cache struct {
	mu     sync.RWMutex
	key    Key
	valid  bool
	result []*AnnotatedDay
	hits   int
	misses int
	logger *zap.Logger
}

// NewCache creates an empty cache
func NewCache(logger *zap.Logger) *Cache {
	return &Cache{logger: logger}
}

// Annotate returns the cached annotation for the inputs, computing it when
// the inputs differ from the previous call. Errors are not cached.
func (c *Cache) Annotate(grid *calendar.Grid, mode Mode, state State, today time.Time) ([]*AnnotatedDay, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	key := NewKey(grid, mode, state, today)

	c.mu.Lock()
	if c.valid && c.key == key {
		result := c.result
		c.hits++
		c.mu.Unlock()

		c.logger.Debug("Using cached annotation", zap.String("state", key.State))
		return result, nil
	}
	c.mu.Unlock()

	result, err := Annotate(grid, mode, state, today)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.key = key
	c.result = result
	c.valid = true
	c.misses++
	c.mu.Unlock()

	c.logger.Debug("Annotation recomputed",
		zap.String("month", fmt.Sprintf("%04d-%02d", grid.Year, grid.Month)),
		zap.String("mode", string(mode)),
		zap.String("state", key.State))

	return result, nil
}

// Stats returns the number of cache hits and recomputations
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Invalidate drops the remembered result
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.result = nil
}
