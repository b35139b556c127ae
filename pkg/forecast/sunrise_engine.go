package forecast

import (
	"fmt"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/nathan-osman/go-sunrise"
)

const SunriseEngineName = "sunrise"

// SunriseEngine implements Engine with the NOAA sunrise equation from
// github.com/nathan-osman/go-sunrise.
type SunriseEngine struct{}

func (SunriseEngine) Name() string {
	return SunriseEngineName
}

func (e SunriseEngine) NextSunrise(loc models.GeoLocation, from time.Time) (time.Time, error) {
	return nextEvent(loc, from, func(loc models.GeoLocation, date models.CalendarDate) (time.Time, error) {
		rise, _, err := e.riseSet(loc, date)
		return rise, err
	})
}

func (e SunriseEngine) NextSunset(loc models.GeoLocation, from time.Time) (time.Time, error) {
	return nextEvent(loc, from, func(loc models.GeoLocation, date models.CalendarDate) (time.Time, error) {
		_, set, err := e.riseSet(loc, date)
		return set, err
	})
}

// riseSet returns both events for the date; go-sunrise reports zero times
// during polar day and polar night.
func (SunriseEngine) riseSet(loc models.GeoLocation, date models.CalendarDate) (rise, set time.Time, err error) {
	rise, set = sunrise.SunriseSunset(loc.Lat, loc.Lon, date.Year, date.Month, date.Day)
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v on %v", ErrCircumpolar, loc, date)
	}
	return rise.UTC(), set.UTC(), nil
}
