package main

import (
	"fmt"
	"runtime"

	"github.com/1F47E/sun-locator/pkg/accuracy"
	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/tui"
	"github.com/spf13/cobra"
)

func newSweepCmd(a *app) *cobra.Command {
	opts := accuracy.DefaultOptions()
	var engineName string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Measure solver accuracy on random locations",
		Long: `sweep forward-computes sunrise and sunset for random locations and dates,
solves them back at the nominal zone offset and reports the latitude and
longitude errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if engineName == "" {
				engineName = a.cfg.Forecast.Engine
			}
			engine, err := forecast.NewEngine(engineName)
			if err != nil {
				return err
			}
			opts.Logger = a.logger

			run := func() (string, error) {
				report, err := accuracy.Sweep(cmd.Context(), engine, opts)
				if err != nil {
					return "", err
				}
				return tui.RenderSweep(report), nil
			}

			var out string
			if a.tty {
				title := fmt.Sprintf("Sweeping %d samples with %d workers...", opts.Samples, opts.Workers)
				out, err = tui.RunWithSpinner(title, run)
			} else {
				out, err = run()
			}
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Samples, "samples", "s", opts.Samples, "Number of random samples")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")
	cmd.Flags().IntVarP(&opts.Year, "year", "y", opts.Year, "Year to sample dates from")
	cmd.Flags().Float64Var(&opts.MinLat, "min-lat", opts.MinLat, "Minimum latitude")
	cmd.Flags().Float64Var(&opts.MaxLat, "max-lat", opts.MaxLat, "Maximum latitude")
	cmd.Flags().Float64Var(&opts.MinLon, "min-lon", opts.MinLon, "Minimum longitude")
	cmd.Flags().Float64Var(&opts.MaxLon, "max-lon", opts.MaxLon, "Maximum longitude")
	cmd.Flags().StringVarP(&engineName, "engine", "e", "", "Ephemeris engine: sunrise or astral (default from config)")
	return cmd
}
