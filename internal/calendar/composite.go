package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

// CompositeSource implements DisabledSource as the union of several sources.
// A failing source is logged and skipped; the call only fails when every
// source fails.
type CompositeSource struct {
	sources []DisabledSource
	logger  *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(logger *zap.Logger, sources ...DisabledSource) *CompositeSource {
	return &CompositeSource{
		sources: sources,
		logger:  logger,
	}
}

// Add appends another source
func (cs *CompositeSource) Add(source DisabledSource) {
	cs.sources = append(cs.sources, source)
}

// Len returns the number of sources
func (cs *CompositeSource) Len() int {
	return len(cs.sources)
}

// DisabledDays returns the union of every source's disabled days
func (cs *CompositeSource) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()
	var errs []error

	for i, src := range cs.sources {
		days, err := src.DisabledDays(year, month)
		if err != nil {
			cs.logger.Warn("Disabled-date source failed, skipping",
				zap.Int("source", i),
				zap.String("type", fmt.Sprintf("%T", src)),
				zap.Int("year", year),
				zap.Int("month", int(month)),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		out.Merge(days)
	}

	if len(cs.sources) > 0 && len(errs) == len(cs.sources) {
		return nil, fmt.Errorf("all disabled-date sources failed: %w", errors.Join(errs...))
	}

	return out, nil
}
