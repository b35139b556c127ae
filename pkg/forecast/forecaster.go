// Package forecast produces day by day sunrise and sunset schedules for a
// location from a pluggable ephemeris Engine.
package forecast

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
)

// ErrInvalidDays is returned when a forecast is asked for fewer than one day.
var ErrInvalidDays = errors.New("forecast needs at least one day")

// Entry is one forecast day
type Entry struct {
	Date       models.CalendarDate `json:"date"`
	SunriseUTC time.Time           `json:"sunrise_utc"`
	SunsetUTC  time.Time           `json:"sunset_utc"`
	DayLength  time.Duration       `json:"day_length"`
}

// LocalEntry is an Entry rendered as wall-clock times at a UTC offset
type LocalEntry struct {
	Date      models.CalendarDate
	Sunrise   models.ClockTime
	Sunset    models.ClockTime
	DayLength time.Duration
}

// Local converts the entry to wall-clock times utcOffsetHours from UTC.
func (e Entry) Local(utcOffsetHours float64) LocalEntry {
	zone := models.OffsetZone(utcOffsetHours)
	return LocalEntry{
		Date:      e.Date,
		Sunrise:   models.ClockTimeFromTime(e.SunriseUTC.In(zone)),
		Sunset:    models.ClockTimeFromTime(e.SunsetUTC.In(zone)),
		DayLength: e.DayLength,
	}
}

// Forecaster queries an Engine one date at a time.
type Forecaster struct {
	engine Engine
	logger *slog.Logger
}

// NewForecaster creates a forecaster; a nil logger discards output.
func NewForecaster(engine Engine, logger *slog.Logger) *Forecaster {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Forecaster{engine: engine, logger: logger}
}

// Engine returns the underlying engine
func (f *Forecaster) Engine() Engine {
	return f.engine
}

// Forecast returns the sunrise and sunset for each date in
// [start, start+days) in date order. Dates on which the sun does not rise or
// does not set are left out.
func (f *Forecaster) Forecast(loc models.GeoLocation, start models.CalendarDate, days int) ([]Entry, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	entries := make([]Entry, 0, days)
	skipped := 0
	for i := 0; i < days; i++ {
		date := start.AddDays(i)
		entry, err := f.day(loc, date)
		if errors.Is(err, ErrCircumpolar) {
			skipped++
			f.logger.Debug("skipping circumpolar date", "date", date.String(), "location", loc.String())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("forecast %v: %w", date, err)
		}
		entries = append(entries, entry)
	}

	f.logger.Info("forecast complete",
		"engine", f.engine.Name(),
		"location", loc.String(),
		"start", start.String(),
		"days", days,
		"entries", len(entries),
		"skipped", skipped)
	return entries, nil
}

func (f *Forecaster) day(loc models.GeoLocation, date models.CalendarDate) (Entry, error) {
	from := LocalMeanMidnight(loc, date)
	rise, err := f.engine.NextSunrise(loc, from)
	if err != nil {
		return Entry{}, err
	}
	set, err := f.engine.NextSunset(loc, rise)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Date:       date,
		SunriseUTC: rise,
		SunsetUTC:  set,
		DayLength:  set.Sub(rise),
	}, nil
}

// FormatDuration renders d as HH:MM:SS, truncating fractions of a second.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	d = d.Truncate(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}
