package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

const sampleConfig = `
calendar:
  first_weekday: monday
  display_full_days: true
  min_date: "2025-01-01"
  max_date: "2025-12-31"
  timezone: UTC

disabled:
  dates:
    - "2025-06-12"
    - "2025-11-04"
  weekends: true
  rrules:
    - "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
  ics_file: ${DAY_SELECTOR_TEST_DIR}/blocked.ics
  feed_url: https://xmlcalendar.ru/data/ru/{year}/calendar.json
  cache_ttl: 12h

selection:
  mode: range
  time: "09:30"

logging:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Calendar.GetFirstWeekday(); got != time.Monday {
		t.Errorf("GetFirstWeekday() = %v, want Monday", got)
	}
	if !cfg.Calendar.DisplayFullDays {
		t.Error("DisplayFullDays should be true")
	}
	minDate, _ := cfg.Calendar.GetMinDate()
	if minDate.Year() != 2025 || minDate.Month() != time.January || minDate.Day() != 1 {
		t.Errorf("GetMinDate() = %v", minDate)
	}
	loc, err := cfg.Calendar.GetLocation()
	if err != nil || loc != time.UTC {
		t.Errorf("GetLocation() = %v, %v", loc, err)
	}

	if got := len(cfg.Disabled.GetDates()); got != 2 {
		t.Errorf("GetDates() returned %d dates, want 2", got)
	}
	if !cfg.Disabled.Weekends || len(cfg.Disabled.RRules) != 1 {
		t.Errorf("disabled section not loaded: %+v", cfg.Disabled)
	}
	if got := cfg.Disabled.GetCacheTTL(); got != 12*time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 12h", got)
	}

	if cfg.Selection.Mode != "range" {
		t.Errorf("Selection.Mode = %q, want range", cfg.Selection.Mode)
	}
	if h, m := cfg.Selection.GetTime(); h != 9 || m != 30 {
		t.Errorf("GetTime() = %02d:%02d, want 09:30", h, m)
	}
	if got := cfg.Logging.GetLevel(); got != zapcore.DebugLevel {
		t.Errorf("GetLevel() = %v, want debug", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a config file error = %v", err)
	}

	if cfg.Selection.Mode != "single" {
		t.Errorf("default mode = %q, want single", cfg.Selection.Mode)
	}
	if got := cfg.Calendar.GetFirstWeekday(); got != time.Sunday {
		t.Errorf("default first weekday = %v, want Sunday", got)
	}
	if got := cfg.Disabled.GetCacheTTL(); got != 24*time.Hour {
		t.Errorf("default cache TTL = %v, want 24h", got)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DAY_SELECTOR_SELECTION_MODE", "multiple")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Selection.Mode != "multiple" {
		t.Errorf("Selection.Mode = %q, want multiple from environment", cfg.Selection.Mode)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Calendar:  CalendarConfig{FirstWeekday: "sunday"},
			Selection: SelectionConfig{Mode: "single"},
			Logging:   LoggingConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"Valid", func(*Config) {}, ""},
		{"Bad weekday", func(c *Config) { c.Calendar.FirstWeekday = "funday" }, "calendar.first_weekday"},
		{"Bad timezone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }, "calendar.timezone"},
		{"Bad min date", func(c *Config) { c.Calendar.MinDate = "yesterday" }, "calendar.min_date"},
		{"Inverted bounds", func(c *Config) {
			c.Calendar.MinDate = "2025-06-10"
			c.Calendar.MaxDate = "2025-06-01"
		}, "calendar.max_date"},
		{"Bad disabled date", func(c *Config) { c.Disabled.Dates = []string{"2025-13-40"} }, "disabled.dates"},
		{"Feed without placeholder", func(c *Config) { c.Disabled.FeedURL = "https://example.com/2025.json" }, "disabled.feed_url"},
		{"Bad cache TTL", func(c *Config) { c.Disabled.CacheTTL = "forever" }, "disabled.cache_ttl"},
		{"Bad mode", func(c *Config) { c.Selection.Mode = "week" }, "selection.mode"},
		{"Bad time", func(c *Config) { c.Selection.Time = "25:00" }, "selection.time"},
		{"Bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input      string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{"", 0, 0, false},
		{"09:30", 9, 30, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, m, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if h != tt.wantHour || m != tt.wantMinute {
				t.Errorf("ParseClock(%q) = %02d:%02d, want %02d:%02d", tt.input, h, m, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DAY_SELECTOR_TEST_DIR", "/data")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.ExpandEnvVars()

	if cfg.Disabled.ICSFile != "/data/blocked.ics" {
		t.Errorf("ICSFile = %q, want /data/blocked.ics", cfg.Disabled.ICSFile)
	}
}
