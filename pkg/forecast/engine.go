package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
)

// ErrCircumpolar is returned by an Engine when the sun stays above or below
// the horizon for the whole day at the requested location.
var ErrCircumpolar = errors.New("sun does not rise or set (circumpolar)")

// ErrUnknownEngine is returned by NewEngine for an unrecognised name.
var ErrUnknownEngine = errors.New("unknown ephemeris engine")

// Engine computes sunrise and sunset instants for a location.
type Engine interface {
	// NextSunrise returns the first sunrise at or after from, in UTC.
	NextSunrise(loc models.GeoLocation, from time.Time) (time.Time, error)
	// NextSunset returns the first sunset at or after from, in UTC.
	NextSunset(loc models.GeoLocation, from time.Time) (time.Time, error)
	Name() string
}

// NewEngine returns the engine registered under name: "sunrise" (NOAA
// algorithm, the default) or "astral".
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SunriseEngineName:
		return SunriseEngine{}, nil
	case AstralEngineName:
		return AstralEngine{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// LocalMeanMidnight returns the instant of mean solar midnight at the start
// of date at the location's longitude.
func LocalMeanMidnight(loc models.GeoLocation, date models.CalendarDate) time.Time {
	shift := time.Duration(loc.Lon / 15 * float64(time.Hour))
	return date.Time(time.UTC).Add(-shift)
}

// localMeanDate is the calendar date of t in local mean solar time.
func localMeanDate(loc models.GeoLocation, t time.Time) models.CalendarDate {
	shift := time.Duration(loc.Lon / 15 * float64(time.Hour))
	return models.CalendarDateFromTime(t.UTC().Add(shift))
}

// dailyEvent computes one event (a sunrise or a sunset) for the solar day of
// a date, returning ErrCircumpolar when the event does not happen that day.
type dailyEvent func(loc models.GeoLocation, date models.CalendarDate) (time.Time, error)

// nextEvent finds the first event at or after from. The solar day containing
// from must have the event, otherwise the sun is treated as circumpolar.
func nextEvent(loc models.GeoLocation, from time.Time, event dailyEvent) (time.Time, error) {
	day := localMeanDate(loc, from)
	if _, err := event(loc, day); err != nil {
		return time.Time{}, err
	}
	for i := -1; i <= 1; i++ {
		t, err := event(loc, day.AddDays(i))
		if err != nil {
			continue
		}
		if !t.Before(from) {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no event after %v near %v", ErrCircumpolar, from.UTC(), loc)
}
