package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/day-selector/internal/config"
	"github.com/username/day-selector/internal/selection"
	"go.uber.org/zap"
)

func selectCmd() *cobra.Command {
	var flags stateFlags
	var tapStr string
	var timeStr string
	var format string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Apply a tap to the selection and print the new state",
		Long: `Apply a tap on --tap to the selection given by the state flags.

Single mode replaces the selection. Range mode sets the end when a start
without an end is given and the tap is on or after it, otherwise it starts a
new range. Multiple mode toggles the tapped day.

The time of day from --time (or selection.time) is applied to the tapped day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tapStr == "" {
				return fmt.Errorf("--tap is required")
			}

			cfg, p, err := initializePicker(cmd, &flags)
			if err != nil {
				return err
			}

			if timeStr != "" {
				hour, minute, err := config.ParseClock(timeStr)
				if err != nil {
					return fmt.Errorf("invalid --time: %w", err)
				}
				if err := p.SetTime(hour, minute); err != nil {
					return err
				}
			}

			tap, err := parseDay(tapStr, cfg)
			if err != nil {
				return fmt.Errorf("invalid --tap: %w", err)
			}

			p.OnChange(func(change selection.Change) {
				logger.Debug("Selection changed",
					zap.String("kind", string(change.Kind)),
					zap.String("state", change.State.Key()))
			})

			change, err := p.SelectDate(tap)
			if err != nil {
				return err
			}

			return renderChange(cmd.OutOrStdout(), format, p.Mode(), change)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&tapStr, "tap", "", "Day to select")
	cmd.Flags().StringVar(&timeStr, "time", "", "Time of day to apply (HH:MM, default from selection.time)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")

	return cmd
}
