package calendar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// HolidayFeed implements DisabledSource using a yearly production-calendar
// feed in the xmlcalendar.ru JSON format. Non-working days are disabled.
type HolidayFeed struct {
	httpClient *http.Client
	logger     *zap.Logger
	urlPattern string // e.g. https://xmlcalendar.ru/data/ru/{year}/calendar.json
	cacheTTL   time.Duration
	cache      map[int]*cachedYear
	cacheMu    sync.RWMutex
}

type cachedYear struct {
	data      *feedYear
	fetchedAt time.Time
}

// feedYear represents xmlcalendar.ru JSON structure
type feedYear struct {
	Year   int         `json:"year"`
	Months []feedMonth `json:"months"`
}

type feedMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// NewHolidayFeed creates a new HolidayFeed instance
func NewHolidayFeed(urlPattern string, cacheTTL time.Duration, logger *zap.Logger) *HolidayFeed {
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &HolidayFeed{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:     logger,
		urlPattern: urlPattern,
		cacheTTL:   cacheTTL,
		cache:      make(map[int]*cachedYear),
	}
}

// DisabledDays returns the non-working days of the given month
func (f *HolidayFeed) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	yearData, err := f.getYear(year)
	if err != nil {
		return nil, err
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return f.parseMonth(year, month, yearData.Months[i].Days), nil
		}
	}

	return nil, fmt.Errorf("month %d not found in feed data for year %d", month, year)
}

// getYear returns the feed data for a year, downloading it when the cached
// copy is missing or older than the cache TTL
func (f *HolidayFeed) getYear(year int) (*feedYear, error) {
	f.cacheMu.RLock()
	if cached, ok := f.cache[year]; ok {
		if time.Since(cached.fetchedAt) < f.cacheTTL {
			f.cacheMu.RUnlock()
			f.logger.Debug("Using cached holiday feed", zap.Int("year", year))
			return cached.data, nil
		}
	}
	f.cacheMu.RUnlock()

	yearData, err := f.downloadYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to download holiday feed: %w", err)
	}

	f.cacheMu.Lock()
	f.cache[year] = &cachedYear{
		data:      yearData,
		fetchedAt: time.Now(),
	}
	f.cacheMu.Unlock()

	return yearData, nil
}

// downloadYear downloads an entire year from the feed
func (f *HolidayFeed) downloadYear(year int) (*feedYear, error) {
	url := strings.ReplaceAll(f.urlPattern, "{year}", strconv.Itoa(year))

	f.logger.Info("Downloading holiday feed",
		zap.String("url", url),
		zap.Int("year", year))

	resp, err := f.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var yearData feedYear
	if err := json.NewDecoder(resp.Body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse feed JSON: %w", err)
	}

	f.logger.Info("Holiday feed downloaded",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)))

	return &yearData, nil
}

// parseMonth parses the xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened (still working), + = transferred, others = weekends/holidays
func (f *HolidayFeed) parseMonth(year int, month time.Month, days string) dateutil.DaySet {
	out := dateutil.NewDaySet()
	daysInMonth := dateutil.DaysInMonth(year, month)

	for _, part := range strings.Split(days, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasSuffix(part, "*") {
			continue
		}

		day, err := strconv.Atoi(strings.TrimSuffix(part, "+"))
		if err != nil || day < 1 || day > daysInMonth {
			f.logger.Warn("Failed to parse day number",
				zap.String("part", part),
				zap.Int("year", year),
				zap.Int("month", int(month)))
			continue
		}

		out.Add(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	}

	return out
}

// ClearCache clears the cache
func (f *HolidayFeed) ClearCache() {
	f.cacheMu.Lock()
	defer f.cacheMu.Unlock()

	f.cache = make(map[int]*cachedYear)
	f.logger.Info("Holiday feed cache cleared")
}
