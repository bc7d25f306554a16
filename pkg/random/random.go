package random

import (
	"math/rand"
	"sort"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
)

// Generator picks random calendar days from its own source
type Generator struct {
	rnd *rand.Rand
}

// New creates a Generator with a fixed seed (deterministic sequences)
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded creates a Generator seeded from the clock
func NewTimeSeeded() *Generator {
	return New(time.Now().UnixNano())
}

// Items selects n random indices out of totalCount without repetition
func (g *Generator) Items(totalCount, n int) []int {
	if n <= 0 || totalCount <= 0 {
		return []int{}
	}

	// Create slice of all indices
	allIndices := make([]int, totalCount)
	for i := range allIndices {
		allIndices[i] = i
	}

	if n >= totalCount {
		return allIndices
	}

	// Shuffle using Fisher-Yates algorithm
	for i := len(allIndices) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		allIndices[i], allIndices[j] = allIndices[j], allIndices[i]
	}

	// Return first n indices
	return allIndices[:n]
}

// Days selects n distinct random days of the month, sorted ascending.
// n is capped at the number of days in the month.
func (g *Generator) Days(year int, month time.Month, n int) []time.Time {
	indices := g.Items(dateutil.DaysInMonth(year, month), n)
	sort.Ints(indices)

	days := make([]time.Time, len(indices))
	for i, idx := range indices {
		days[i] = time.Date(year, month, idx+1, 0, 0, 0, 0, time.Local)
	}
	return days
}

// Range selects a random start and end day (start <= end) within the month
func (g *Generator) Range(year int, month time.Month) (time.Time, time.Time) {
	total := dateutil.DaysInMonth(year, month)
	a, b := g.rnd.Intn(total)+1, g.rnd.Intn(total)+1
	if a > b {
		a, b = b, a
	}
	return time.Date(year, month, a, 0, 0, 0, 0, time.Local),
		time.Date(year, month, b, 0, 0, 0, 0, time.Local)
}

// SelectRandomItems selects n random items from slice
// Returns indices of selected items
func SelectRandomItems(totalCount, n int) []int {
	return NewTimeSeeded().Items(totalCount, n)
}

// SelectRandomDays selects n distinct random days of the month
func SelectRandomDays(year int, month time.Month, n int) []time.Time {
	return NewTimeSeeded().Days(year, month, n)
}
