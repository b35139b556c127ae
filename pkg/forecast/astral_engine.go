package forecast

import (
	"fmt"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/sj14/astral/pkg/astral"
)

const AstralEngineName = "astral"

// AstralEngine implements Engine with github.com/sj14/astral. Astral fails
// only when the sun never reaches the horizon, so every error it returns is
// reported as ErrCircumpolar.
type AstralEngine struct{}

func (AstralEngine) Name() string {
	return AstralEngineName
}

func (e AstralEngine) NextSunrise(loc models.GeoLocation, from time.Time) (time.Time, error) {
	return nextEvent(loc, from, func(loc models.GeoLocation, date models.CalendarDate) (time.Time, error) {
		t, err := astral.Sunrise(e.observer(loc), date.Time(time.UTC))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v on %v: %v", ErrCircumpolar, loc, date, err)
		}
		return t, nil
	})
}

func (e AstralEngine) NextSunset(loc models.GeoLocation, from time.Time) (time.Time, error) {
	return nextEvent(loc, from, func(loc models.GeoLocation, date models.CalendarDate) (time.Time, error) {
		t, err := astral.Sunset(e.observer(loc), date.Time(time.UTC))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v on %v: %v", ErrCircumpolar, loc, date, err)
		}
		return t, nil
	})
}

func (AstralEngine) observer(loc models.GeoLocation) astral.Observer {
	return astral.Observer{Latitude: loc.Lat, Longitude: loc.Lon}
}
