package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/day-selector/pkg/dateutil"
	"go.uber.org/zap/zapcore"
)

// Config represents application configuration
type Config struct {
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Disabled  DisabledConfig  `mapstructure:"disabled"`
	Selection SelectionConfig `mapstructure:"selection"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CalendarConfig represents month grid configuration
type CalendarConfig struct {
	FirstWeekday    string `mapstructure:"first_weekday"`     // "sunday", "mon", ...
	DisplayFullDays bool   `mapstructure:"display_full_days"` // Show adjacent-month days
	MinDate         string `mapstructure:"min_date"`          // YYYY-MM-DD, empty = no limit
	MaxDate         string `mapstructure:"max_date"`          // YYYY-MM-DD, empty = no limit
	Timezone        string `mapstructure:"timezone"`          // IANA name, empty = local
}

// DisabledConfig lists the sources of non-selectable days
type DisabledConfig struct {
	Dates    []string `mapstructure:"dates"`
	Weekends bool     `mapstructure:"weekends"`
	RRules   []string `mapstructure:"rrules"`
	ICSFile  string   `mapstructure:"ics_file"`
	File     string   `mapstructure:"file"`     // Plain "YYYY-MM-DD type" calendar
	FeedURL  string   `mapstructure:"feed_url"` // xmlcalendar.ru pattern with {year}
	CacheTTL string   `mapstructure:"cache_ttl"`
}

// SelectionConfig represents picker defaults
type SelectionConfig struct {
	Mode string `mapstructure:"mode"`
	Time string `mapstructure:"time"` // Default time of day for new selections (HH:MM)
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.first_weekday", "sunday")
	v.SetDefault("calendar.display_full_days", false)
	v.SetDefault("disabled.weekends", false)
	v.SetDefault("disabled.cache_ttl", "24h")
	v.SetDefault("selection.mode", "single")
	v.SetDefault("selection.time", "00:00")
	v.SetDefault("logging.level", "info")
}

// Load loads configuration from file. With an empty path the default
// locations are searched and a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.day-selector")
		v.AddConfigPath("/etc/day-selector")
	}

	// Read environment variables, e.g. DAY_SELECTOR_SELECTION_MODE
	v.SetEnvPrefix("day_selector")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Calendar config
	if _, err := dateutil.ParseWeekday(c.Calendar.FirstWeekday); err != nil {
		return fmt.Errorf("calendar.first_weekday: %w", err)
	}
	if _, err := c.Calendar.GetLocation(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	minDate, err := c.Calendar.GetMinDate()
	if err != nil {
		return fmt.Errorf("calendar.min_date: %w", err)
	}
	maxDate, err := c.Calendar.GetMaxDate()
	if err != nil {
		return fmt.Errorf("calendar.max_date: %w", err)
	}
	if !minDate.IsZero() && !maxDate.IsZero() && maxDate.Before(minDate) {
		return fmt.Errorf("calendar.max_date must not be before calendar.min_date")
	}

	// Validate Disabled config
	for _, d := range c.Disabled.Dates {
		if _, err := dateutil.ParseDate(d); err != nil {
			return fmt.Errorf("disabled.dates: %w", err)
		}
	}
	if c.Disabled.FeedURL != "" && !strings.Contains(c.Disabled.FeedURL, "{year}") {
		return fmt.Errorf("disabled.feed_url must contain a {year} placeholder")
	}
	if c.Disabled.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Disabled.CacheTTL); err != nil {
			return fmt.Errorf("disabled.cache_ttl: %w", err)
		}
	}

	// Validate Selection config
	switch strings.ToLower(c.Selection.Mode) {
	case "single", "range", "multiple":
	default:
		return fmt.Errorf("selection.mode must be 'single', 'range' or 'multiple', got '%s'", c.Selection.Mode)
	}
	if _, _, err := ParseClock(c.Selection.Time); err != nil {
		return fmt.Errorf("selection.time: %w", err)
	}

	// Validate Logging config
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// GetFirstWeekday returns the first column of the grid
func (c *CalendarConfig) GetFirstWeekday() time.Weekday {
	weekday, err := dateutil.ParseWeekday(c.FirstWeekday)
	if err != nil {
		return time.Sunday
	}
	return weekday
}

// GetLocation returns the configured time zone (local when unset)
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetMinDate returns the earliest selectable day, zero when unset
func (c *CalendarConfig) GetMinDate() (time.Time, error) {
	return parseOptionalDate(c.MinDate)
}

// GetMaxDate returns the latest selectable day, zero when unset
func (c *CalendarConfig) GetMaxDate() (time.Time, error) {
	return parseOptionalDate(c.MaxDate)
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return dateutil.ParseDate(s)
}

// GetDates returns the explicitly disabled days. Invalid entries are
// rejected by Validate and skipped here.
func (c *DisabledConfig) GetDates() []time.Time {
	dates := make([]time.Time, 0, len(c.Dates))
	for _, s := range c.Dates {
		d, err := dateutil.ParseDate(s)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// GetCacheTTL returns cache TTL duration
func (c *DisabledConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetTime returns the default time of day for new selections.
// Returns hour and minute (0-23, 0-59). Default: 00:00
func (c *SelectionConfig) GetTime() (hour, minute int) {
	h, m, err := ParseClock(c.Time)
	if err != nil {
		return 0, 0
	}
	return h, m
}

// ParseClock parses an HH:MM time of day. An empty string is midnight.
func ParseClock(s string) (hour, minute int, err error) {
	if s == "" {
		return 0, 0, nil
	}

	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return h, m, nil
}

// GetLevel returns the zap level, info when unset or invalid
func (c *LoggingConfig) GetLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Disabled.ICSFile = os.ExpandEnv(c.Disabled.ICSFile)
	c.Disabled.File = os.ExpandEnv(c.Disabled.File)
	c.Disabled.FeedURL = os.ExpandEnv(c.Disabled.FeedURL)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
}
