package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
	DayTypeBlocked
)

// Selectable reports whether a day of this type may be selected
func (t DayType) Selectable() bool {
	return t == DayTypeWorkday || t == DayTypeShortened
}

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	case DayTypeBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("DayType(%d)", int(t))
	}
}

// ParseDayType parses a day type name
func ParseDayType(s string) (DayType, error) {
	switch s {
	case "workday":
		return DayTypeWorkday, nil
	case "weekend":
		return DayTypeWeekend, nil
	case "holiday":
		return DayTypeHoliday, nil
	case "shortened":
		return DayTypeShortened, nil
	case "blocked":
		return DayTypeBlocked, nil
	default:
		return 0, fmt.Errorf("unknown day type: %q", s)
	}
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date time.Time
	Type DayType
	Note string
}

// FileSource implements DisabledSource using a local text file
type FileSource struct {
	filePath string
	logger   *zap.Logger
	data     map[string][]DayInfo // key: "YYYY-MM"
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]DayInfo),
	}
}

// Load loads day data from file
func (fs *FileSource) Load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	data := make(map[string][]DayInfo)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD type [note]
		// Example: 2025-01-01 holiday Новогодние каникулы
		parts := strings.Fields(line)
		if len(parts) < 2 {
			fs.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse(dateutil.DayLayout, parts[0])
		if err != nil {
			fs.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		dayType, err := ParseDayType(parts[1])
		if err != nil {
			fs.logger.Warn("Unknown day type", zap.String("type", parts[1]))
			continue
		}

		monthKey := date.Format(dateutil.MonthLayout)
		data[monthKey] = append(data[monthKey], DayInfo{
			Date: date,
			Type: dayType,
			Note: strings.Join(parts[2:], " "),
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fs.data = data
	fs.logger.Info("Calendar file loaded",
		zap.String("file", fs.filePath),
		zap.Int("months", len(fs.data)))

	return nil
}

// GetDayInfo returns the file entry for a specific day
func (fs *FileSource) GetDayInfo(date time.Time) (*DayInfo, error) {
	for _, day := range fs.data[date.Format(dateutil.MonthLayout)] {
		if dateutil.IsSameDay(day.Date, date) {
			return &day, nil
		}
	}

	return nil, fmt.Errorf("day not found in calendar: %s", dateutil.DayKey(date))
}

// DisabledDays returns the days of the month whose type is not selectable.
// Months absent from the file have no disabled days.
func (fs *FileSource) DisabledDays(year int, month time.Month) (dateutil.DaySet, error) {
	out := dateutil.NewDaySet()
	monthKey := fmt.Sprintf("%d-%02d", year, month)

	for _, day := range fs.data[monthKey] {
		if !day.Type.Selectable() {
			out.Add(day.Date)
		}
	}
	return out, nil
}
