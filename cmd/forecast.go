package main

import (
	"fmt"

	"github.com/1F47E/sun-locator/pkg/config"
	"github.com/1F47E/sun-locator/pkg/export"
	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/1F47E/sun-locator/pkg/tui"
	"github.com/spf13/cobra"
)

func newForecastCmd(a *app) *cobra.Command {
	var (
		flags       observationFlags
		start       string
		days        int
		engineName  string
		exportPath  string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Solve the location, then forecast sunrise and sunset there",
		Example: `  sunloc forecast --date 2024-06-21 --sunrise 05:30 --sunset 19:30 --offset 8 --days 90
  sunloc forecast -d 2024-06-21 --sunrise 05:30 --sunset 19:30 --export sun.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := flags.observation()
			if err != nil {
				return err
			}

			startDate := obs.Date
			if start != "" {
				if startDate, err = models.ParseCalendarDate(start); err != nil {
					return fmt.Errorf("start: %w", err)
				}
			}
			if !cmd.Flags().Changed("days") {
				days = a.cfg.Forecast.Days
			}
			if err := config.ValidateDays(days); err != nil {
				return err
			}
			if engineName == "" {
				engineName = a.cfg.Forecast.Engine
			}
			engine, err := forecast.NewEngine(engineName)
			if err != nil {
				return err
			}

			report, err := a.solve(obs)
			if err != nil {
				return err
			}
			report.Engine = engine.Name()
			report.Entries, err = forecast.NewForecaster(engine, a.logger).Forecast(report.Outcome.Location, startDate, days)
			if err != nil {
				return err
			}

			if exportPath != "" {
				if err := export.WriteFile(exportPath, report.Entries, obs.UTCOffset); err != nil {
					return err
				}
				a.logger.Info("forecast exported", "file", exportPath, "rows", len(report.Entries))
			}
			if a.cfg.StoreEnabled() {
				if err := a.archive(cmd.Context(), report); err != nil {
					return err
				}
			}

			if (interactive || a.cfg.Display.Interactive) && a.tty && len(report.Entries) > 0 {
				return tui.Run(report, a.cfg.Display.TableHeight)
			}
			fmt.Fprint(a.out, tui.RenderReport(report))
			fmt.Fprintln(a.out, tui.RenderForecastTable(report.Entries, obs.UTCOffset))
			if exportPath != "" {
				fmt.Fprintf(a.out, "Saved %d rows to %s\n", len(report.Entries), exportPath)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "First forecast date (default: observation date)")
	cmd.Flags().IntVarP(&days, "days", "n", 30, "Number of days to forecast (1-365, default from config)")
	cmd.Flags().StringVarP(&engineName, "engine", "e", "", "Ephemeris engine: sunrise or astral (default from config)")
	cmd.Flags().StringVarP(&exportPath, "export", "o", "", "Write the forecast table to a .csv or .xlsx file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the forecast in a scrollable table")
	return cmd
}
