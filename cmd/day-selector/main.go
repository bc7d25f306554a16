package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/day-selector/internal/calendar"
	"github.com/username/day-selector/internal/config"
	"github.com/username/day-selector/internal/picker"
	"github.com/username/day-selector/internal/selection"
	"github.com/username/day-selector/pkg/dateutil"
	"github.com/username/day-selector/pkg/random"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "day-selector",
		Short: "Month grid day selector",
		Long:  "Render a month grid and annotate it for single, range or multiple day selection",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Logging.File != "" {
				cfg.ExpandEnvVars()
				logger, err = initFileLogger(cfg.Logging.File, cfg.Logging.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.day-selector, /etc/day-selector)")

	rootCmd.AddCommand(gridCmd())
	rootCmd.AddCommand(selectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stateFlags are the selection flags shared by grid and select
type stateFlags struct {
	month  string
	mode   string
	date   string
	start  string
	end    string
	dates  []string
	random int
	full   bool
}

func (f *stateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.month, "month", "", "Displayed month (YYYY-MM, default: current month)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Selection mode: single, range or multiple (default from config)")
	cmd.Flags().StringVar(&f.date, "date", "", "Selected day in single mode")
	cmd.Flags().StringVar(&f.start, "start", "", "Range start day")
	cmd.Flags().StringVar(&f.end, "end", "", "Range end day")
	cmd.Flags().StringSliceVar(&f.dates, "dates", nil, "Selected days in multiple mode (comma separated)")
	cmd.Flags().IntVar(&f.random, "random", 0, "Select N random days of the displayed month (multiple mode)")
	cmd.Flags().BoolVar(&f.full, "full", false, "Show adjacent-month days (overrides calendar.display_full_days)")
}

func gridCmd() *cobra.Command {
	var flags stateFlags
	var todayStr string
	var format string
	var color bool

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the annotated month grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := initializePicker(cmd, &flags)
			if err != nil {
				return err
			}

			today := dateutil.Today()
			if todayStr != "" {
				if today, err = parseDay(todayStr, cfg); err != nil {
					return fmt.Errorf("invalid --today: %w", err)
				}
			}

			grid, days, err := p.Grid(today)
			if err != nil {
				return err
			}

			logger.Info("Grid rendered",
				zap.String("month", p.Current().Format(dateutil.MonthLayout)),
				zap.String("mode", string(p.Mode())),
				zap.String("state", p.State().Key()),
				zap.Int("rows", grid.Rows()))

			return renderGrid(cmd.OutOrStdout(), format, color, grid, p.Mode(), p.State(), days)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&todayStr, "today", "", "Override today's date")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&color, "color", false, "Force colored table output")

	return cmd
}

// initializePicker loads the config and builds a picker from it and the
// command's state flags
func initializePicker(cmd *cobra.Command, flags *stateFlags) (*config.Config, *picker.Picker, error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ExpandEnvVars()

	builder, err := initializeBuilder(cfg, flags.full)
	if err != nil {
		return nil, nil, err
	}

	modeName := cfg.Selection.Mode
	if flags.mode != "" {
		modeName = flags.mode
	}
	mode, err := selection.ParseMode(modeName)
	if err != nil {
		return nil, nil, err
	}

	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	hour, minute := cfg.Selection.GetTime()
	now := time.Now().In(loc)
	current := time.Date(now.Year(), now.Month(), 1, hour, minute, 0, 0, loc)
	if flags.month != "" {
		month, err := dateutil.ParseMonth(flags.month)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --month: %w", err)
		}
		current = time.Date(month.Year(), month.Month(), 1, hour, minute, 0, 0, loc)
	}

	state, err := parseState(flags, mode, current, cfg)
	if err != nil {
		return nil, nil, err
	}

	p, err := picker.New(builder, mode, state, current, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create picker: %w", err)
	}
	return cfg, p, nil
}

// parseState builds the selection state from the flags of the given mode
func parseState(flags *stateFlags, mode selection.Mode, current time.Time, cfg *config.Config) (selection.State, error) {
	switch mode {
	case selection.ModeSingle:
		selected, err := parseOptionalDay(flags.date, cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
		return selection.Single{Selected: selected}, nil

	case selection.ModeRange:
		if flags.random > 0 {
			start, end := random.NewTimeSeeded().Range(current.Year(), current.Month())
			return selection.Range{Start: start, End: end}, nil
		}
		start, err := parseOptionalDay(flags.start, cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
		end, err := parseOptionalDay(flags.end, cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
		return selection.Range{Start: start, End: end}, nil

	case selection.ModeMultiple:
		var selected []time.Time
		for _, s := range flags.dates {
			if strings.TrimSpace(s) == "" {
				continue
			}
			d, err := parseDay(s, cfg)
			if err != nil {
				return nil, fmt.Errorf("invalid --dates entry: %w", err)
			}
			selected = append(selected, d)
		}
		if flags.random > 0 {
			selected = append(selected, random.SelectRandomDays(current.Year(), current.Month(), flags.random)...)
		}
		return selection.Multiple{Selected: selected}, nil

	default:
		return nil, fmt.Errorf("%w: %q", selection.ErrUnknownMode, mode)
	}
}

// parseDay parses a day in the configured time zone
func parseDay(s string, cfg *config.Config) (time.Time, error) {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

func parseOptionalDay(s string, cfg *config.Config) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDay(s, cfg)
}

func initializeBuilder(cfg *config.Config, fullDays bool) (*calendar.Builder, error) {
	minDate, err := cfg.Calendar.GetMinDate()
	if err != nil {
		return nil, fmt.Errorf("invalid calendar.min_date: %w", err)
	}
	maxDate, err := cfg.Calendar.GetMaxDate()
	if err != nil {
		return nil, fmt.Errorf("invalid calendar.max_date: %w", err)
	}

	source, err := initializeSource(cfg)
	if err != nil {
		return nil, err
	}

	opts := calendar.Options{
		FirstWeekday:    cfg.Calendar.GetFirstWeekday(),
		DisplayFullDays: cfg.Calendar.DisplayFullDays || fullDays,
		MinDate:         minDate,
		MaxDate:         maxDate,
	}
	return calendar.NewBuilder(opts, source, logger), nil
}

// initializeSource combines every configured disabled-date source
func initializeSource(cfg *config.Config) (calendar.DisabledSource, error) {
	composite := calendar.NewCompositeSource(logger)

	if dates := cfg.Disabled.GetDates(); len(dates) > 0 {
		composite.Add(calendar.NewDateList(dates))
	}

	if cfg.Disabled.Weekends {
		composite.Add(calendar.WeekendSource{})
	}

	if len(cfg.Disabled.RRules) > 0 {
		rules, err := calendar.NewRRuleSource(cfg.Disabled.RRules, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to parse disabled.rrules: %w", err)
		}
		composite.Add(rules)
	}

	if cfg.Disabled.ICSFile != "" {
		ics := calendar.NewICSSource(cfg.Disabled.ICSFile, logger)
		if err := ics.Load(); err != nil {
			logger.Warn("Failed to load ics calendar, continuing without it",
				zap.String("file", cfg.Disabled.ICSFile),
				zap.Error(err))
		} else {
			composite.Add(ics)
		}
	}

	if cfg.Disabled.File != "" {
		file := calendar.NewFileSource(cfg.Disabled.File, logger)
		if err := file.Load(); err != nil {
			logger.Warn("Failed to load calendar file, continuing without it",
				zap.String("file", cfg.Disabled.File),
				zap.Error(err))
		} else {
			composite.Add(file)
		}
	}

	if cfg.Disabled.FeedURL != "" {
		logger.Info("Using holiday feed", zap.String("url", cfg.Disabled.FeedURL))
		composite.Add(calendar.NewHolidayFeed(cfg.Disabled.FeedURL, cfg.Disabled.GetCacheTTL(), logger))
	}

	logger.Debug("Disabled-date sources initialized", zap.Int("sources", composite.Len()))

	if composite.Len() == 0 {
		return nil, nil
	}
	return composite, nil
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
