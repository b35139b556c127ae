// Package accuracy measures how far inverse solar solves land from the truth
// by round-tripping random locations through a forecast engine.
package accuracy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/1F47E/sun-locator/pkg/solar"
	"github.com/hashicorp/go-multierror"
)

// maxReportedErrors caps the engine errors kept in a sweep error
const maxReportedErrors = 10

// Options configures a sweep
type Options struct {
	Samples int
	Workers int
	Seed    int64
	Year    int
	MinLat  float64
	MaxLat  float64
	MinLon  float64
	MaxLon  float64
	Logger  *slog.Logger
}

// DefaultOptions samples the inhabited latitudes of a whole year
func DefaultOptions() Options {
	return Options{
		Samples: 1000,
		Workers: runtime.NumCPU(),
		Seed:    1,
		Year:    2023,
		MinLat:  -60,
		MaxLat:  60,
		MinLon:  -180,
		MaxLon:  180,
	}
}

func (o Options) validate() error {
	var result *multierror.Error
	if o.Samples <= 0 {
		result = multierror.Append(result, fmt.Errorf("samples must be positive, got %d", o.Samples))
	}
	if o.MinLat < -90 || o.MaxLat > 90 || o.MinLat > o.MaxLat {
		result = multierror.Append(result, fmt.Errorf("invalid latitude range [%v, %v]", o.MinLat, o.MaxLat))
	}
	if o.MinLon < -180 || o.MaxLon > 180 || o.MinLon > o.MaxLon {
		result = multierror.Append(result, fmt.Errorf("invalid longitude range [%v, %v]", o.MinLon, o.MaxLon))
	}
	return result.ErrorOrNil()
}

// Sample is one round trip
type Sample struct {
	Truth     models.GeoLocation
	Date      models.CalendarDate
	UTCOffset float64
	Solved    models.GeoLocation
	Advisory  solar.Advisory
}

// LatError is the absolute latitude error in degrees
func (s Sample) LatError() float64 {
	return math.Abs(s.Solved.Lat - s.Truth.Lat)
}

// LonError is the absolute longitude error in degrees, across the antimeridian
func (s Sample) LonError() float64 {
	d := math.Mod(s.Solved.Lon-s.Truth.Lon+540, 360) - 180
	return math.Abs(d)
}

// Stats summarises absolute errors in degrees
type Stats struct {
	Mean   float64
	Median float64
	P90    float64
	Max    float64
}

// Report is the outcome of a sweep
type Report struct {
	Engine      string
	Samples     int
	Solved      int
	Advisories  int
	Circumpolar int
	Invalid     int
	Failed      int
	Lat         Stats
	Lon         Stats
	Worst       Sample
	Duration    time.Duration
	Workers     int
}

type result struct {
	sample      Sample
	solved      bool
	circumpolar bool
	invalid     bool
	err         error
}

// Sweep draws samples from a seeded source, solves each round trip on a
// worker pool and aggregates the errors. Samples are drawn up front so a seed
// gives the same report for any worker count. Engine failures other than
// circumpolar dates are counted and returned together after the sweep.
func Sweep(ctx context.Context, engine forecast.Engine, opts Options) (Report, error) {
	if err := opts.validate(); err != nil {
		return Report{}, fmt.Errorf("sweep options: %w", err)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	samples := drawSamples(opts)
	results := make([]result, len(samples))
	forecaster := forecast.NewForecaster(engine, nil)

	startTime := time.Now()
	jobs := make(chan int, len(samples))
	var wg sync.WaitGroup

	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results[i] = result{err: ctx.Err()}
					continue
				}
				results[i] = roundTrip(forecaster, samples[i])
			}
		}()
	}

	for i := range samples {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("sweep cancelled: %w", err)
	}

	report := aggregate(results)
	report.Engine = engine.Name()
	report.Duration = time.Since(startTime)
	report.Workers = opts.Workers

	logger.Info("accuracy sweep finished",
		"engine", report.Engine,
		"samples", report.Samples,
		"solved", report.Solved,
		"circumpolar", report.Circumpolar,
		"lat_mean", report.Lat.Mean,
		"lon_mean", report.Lon.Mean,
		"duration", report.Duration)

	var errs *multierror.Error
	for _, r := range results {
		if r.err != nil && len(errs.WrappedErrors()) < maxReportedErrors {
			errs = multierror.Append(errs, r.err)
		}
	}
	return report, errs.ErrorOrNil()
}

func drawSamples(opts Options) []Sample {
	r := rand.New(rand.NewSource(opts.Seed))
	start := models.NewCalendarDate(opts.Year, time.January, 1)
	daysInYear := start.DaysUntil(models.NewCalendarDate(opts.Year+1, time.January, 1))

	samples := make([]Sample, opts.Samples)
	for i := range samples {
		loc := models.GeoLocation{
			Lat: opts.MinLat + r.Float64()*(opts.MaxLat-opts.MinLat),
			Lon: opts.MinLon + r.Float64()*(opts.MaxLon-opts.MinLon),
		}
		samples[i] = Sample{
			Truth:     loc,
			Date:      start.AddDays(r.Intn(daysInYear)),
			UTCOffset: NominalOffset(loc.Lon),
		}
	}
	return samples
}

// NominalOffset is the whole-hour zone offset of a longitude
func NominalOffset(lon float64) float64 {
	off := math.Round(lon / 15)
	return math.Max(models.MinUTCOffset, math.Min(models.MaxUTCOffset, off))
}

func roundTrip(f *forecast.Forecaster, s Sample) result {
	entries, err := f.Forecast(s.Truth, s.Date, 1)
	if err != nil {
		return result{sample: s, err: fmt.Errorf("%s on %s: %w", s.Truth, s.Date, err)}
	}
	if len(entries) == 0 {
		return result{sample: s, circumpolar: true}
	}

	local := entries[0].Local(s.UTCOffset)
	out, err := solar.SolveLocation(s.Date, local.Sunrise, local.Sunset, s.UTCOffset)
	if errors.Is(err, solar.ErrInvalidDayLength) {
		// sunset fell past local midnight
		return result{sample: s, invalid: true}
	}
	if err != nil {
		return result{sample: s, err: err}
	}

	s.Solved = out.Location
	s.Advisory = out.Advisory
	return result{sample: s, solved: true}
}

func aggregate(results []result) Report {
	report := Report{Samples: len(results)}
	var latErrs, lonErrs []float64
	for _, r := range results {
		switch {
		case r.err != nil:
			report.Failed++
		case r.circumpolar:
			report.Circumpolar++
		case r.invalid:
			report.Invalid++
		case r.sample.Advisory == solar.AdvisoryNearEquinox:
			// latitude is unknown by construction, only longitude counts
			report.Advisories++
			lonErrs = append(lonErrs, r.sample.LonError())
		case r.solved:
			report.Solved++
			latErrs = append(latErrs, r.sample.LatError())
			lonErrs = append(lonErrs, r.sample.LonError())
			if r.sample.LatError() > report.Worst.LatError() || report.Solved == 1 {
				report.Worst = r.sample
			}
		}
	}
	report.Lat = summarize(latErrs)
	report.Lon = summarize(lonErrs)
	return report
}

func summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Stats{
		Mean:   sum / float64(len(sorted)),
		Median: percentile(sorted, 0.5),
		P90:    percentile(sorted, 0.9),
		Max:    sorted[len(sorted)-1],
	}
}

// percentile uses the nearest-rank method on sorted values
func percentile(sorted []float64, p float64) float64 {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
