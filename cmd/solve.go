package main

import (
	"context"
	"fmt"
	"time"

	"github.com/1F47E/sun-locator/pkg/astronomy"
	"github.com/1F47E/sun-locator/pkg/gazetteer"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/1F47E/sun-locator/pkg/solar"
	"github.com/1F47E/sun-locator/pkg/store"
	"github.com/1F47E/sun-locator/pkg/tui"
	"github.com/spf13/cobra"
)

const storeTimeout = 10 * time.Second

// observationFlags are shared by solve and forecast
type observationFlags struct {
	date    string
	sunrise string
	sunset  string
	offset  float64
}

func (f *observationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Observation date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.sunrise, "sunrise", "", "Local sunrise time (HH:MM[:SS])")
	cmd.Flags().StringVar(&f.sunset, "sunset", "", "Local sunset time (HH:MM[:SS])")
	cmd.Flags().Float64VarP(&f.offset, "offset", "z", 8.0, "UTC offset of the clock in hours")
	for _, name := range []string{"date", "sunrise", "sunset"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *observationFlags) observation() (models.Observation, error) {
	var obs models.Observation
	var err error
	if obs.Date, err = models.ParseCalendarDate(f.date); err != nil {
		return obs, err
	}
	if obs.Sunrise, err = models.ParseClockTime(f.sunrise); err != nil {
		return obs, fmt.Errorf("sunrise: %w", err)
	}
	if obs.Sunset, err = models.ParseClockTime(f.sunset); err != nil {
		return obs, fmt.Errorf("sunset: %w", err)
	}
	obs.UTCOffset = f.offset
	return obs, obs.Validate()
}

func newSolveCmd(a *app) *cobra.Command {
	var flags observationFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Estimate latitude and longitude from sunrise and sunset",
		Example: `  sunloc solve --date 2024-06-21 --sunrise 05:30 --sunset 19:30 --offset 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := flags.observation()
			if err != nil {
				return err
			}
			report, err := a.solve(obs)
			if err != nil {
				return err
			}
			if a.cfg.StoreEnabled() {
				if err := a.archive(cmd.Context(), report); err != nil {
					return err
				}
			}
			fmt.Fprint(a.out, tui.RenderReport(report))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// solve runs the inverse solver and decorates the outcome with nearby places
// and, on an equinox advisory, the distance to the true equinox
func (a *app) solve(obs models.Observation) (tui.Report, error) {
	out, err := solar.SolveObservation(obs)
	if err != nil {
		return tui.Report{}, err
	}
	a.logger.Info("solved location",
		"date", obs.Date.String(),
		"lat", out.Location.Lat,
		"lon", out.Location.Lon,
		"advisory", out.Advisory.String())

	report := tui.Report{Observation: obs, Outcome: out}
	if out.LowConfidence() {
		ev, days := astronomy.NearestEquinox(obs.Date)
		report.Equinox = &tui.EquinoxNote{Event: ev, Days: days}
	}

	if n := a.cfg.Gazetteer.Neighbors; n > 0 {
		index, err := a.gazetteer()
		if err != nil {
			return tui.Report{}, err
		}
		report.Places = index.Nearest(out.Location, n)
	}
	return report, nil
}

func (a *app) gazetteer() (*gazetteer.Index, error) {
	path := a.cfg.Gazetteer.IndexFile
	if path == "" {
		return gazetteer.Default()
	}
	index := gazetteer.NewIndex()
	if err := index.LoadFromFile(path); err != nil {
		return nil, fmt.Errorf("load gazetteer: %w", err)
	}
	a.logger.Debug("gazetteer loaded", "file", path, "places", index.Size())
	return index, nil
}

// archive stores the solve and any forecast rows
func (a *app) archive(ctx context.Context, report tui.Report) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	s, err := store.Open(ctx, a.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.InitSchema(ctx); err != nil {
		return err
	}
	id, err := s.SaveSolve(ctx, report.Observation, report.Outcome)
	if err != nil {
		return err
	}
	if len(report.Entries) > 0 {
		if err := s.SaveForecast(ctx, id, report.Entries); err != nil {
			return err
		}
	}
	a.logger.Info("archived solve", "id", id.String(), "forecast_days", len(report.Entries))
	return nil
}
