package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
)

const (
	// Below this |tan(declination)| the sunrise equation no longer
	// constrains latitude. Only day 81 falls inside it.
	equinoxTanThreshold = 0.001

	minutesPerDegree = 4.0  // 1440 minutes / 360 degrees
	degreesPerHour   = 15.0 // 360 degrees / 24 hours
	noonMinutes      = 720.0
)

// ErrInvalidDayLength is returned when sunset is not later than sunrise.
var ErrInvalidDayLength = errors.New("sunset must be later than sunrise")

// Advisory qualifies a successful solve.
type Advisory int

const (
	// AdvisoryNone marks a solve with no caveats.
	AdvisoryNone Advisory = iota
	// AdvisoryNearEquinox means the declination is close enough to zero that
	// latitude cannot be recovered; it is reported as 0.
	AdvisoryNearEquinox
)

func (a Advisory) String() string {
	switch a {
	case AdvisoryNone:
		return "none"
	case AdvisoryNearEquinox:
		return "near_equinox_low_confidence"
	}
	return fmt.Sprintf("advisory(%d)", int(a))
}

// Message is the human readable form of the advisory, empty for AdvisoryNone.
func (a Advisory) Message() string {
	if a == AdvisoryNearEquinox {
		return "close to an equinox: latitude cannot be determined and defaults to the equator"
	}
	return ""
}

// Derivation records the intermediate quantities of a solve.
type Derivation struct {
	DayLengthSeconds       int     `json:"day_length_seconds"`
	LocalSolarNoonMinutes  float64 `json:"local_solar_noon_minutes"`
	UTCNoonMinutes         float64 `json:"utc_noon_minutes"`
	LongitudeOffsetMinutes float64 `json:"longitude_offset_minutes"`
	HourAngleDegrees       float64 `json:"hour_angle_degrees"`
	TanDeclination         float64 `json:"tan_declination"`
}

// DayLength returns the observed day length.
func (d Derivation) DayLength() time.Duration {
	return time.Duration(d.DayLengthSeconds) * time.Second
}

// LocalSolarNoon returns the midpoint of sunrise and sunset as a clock time.
func (d Derivation) LocalSolarNoon() models.ClockTime {
	return models.ClockTime{}.Add(time.Duration(d.LocalSolarNoonMinutes * float64(time.Minute)))
}

// Outcome is the result of a successful solve.
type Outcome struct {
	Location   models.GeoLocation `json:"location"`
	Advisory   Advisory           `json:"advisory"`
	Angles     Angles             `json:"angles"`
	Derivation Derivation         `json:"derivation"`
}

// LowConfidence reports whether the caller must flag the result.
func (o Outcome) LowConfidence() bool {
	return o.Advisory != AdvisoryNone
}

// SolveLocation infers the observer location from the sunrise and sunset
// wall-clock times seen on date in a zone utcOffsetHours from UTC.
// The only failure is ErrInvalidDayLength.
func SolveLocation(date models.CalendarDate, sunrise, sunset models.ClockTime, utcOffsetHours float64) (Outcome, error) {
	sunriseSeconds := sunrise.Seconds()
	dayLengthSeconds := sunset.Seconds() - sunriseSeconds
	if dayLengthSeconds <= 0 {
		return Outcome{}, fmt.Errorf("%w: sunrise %v, sunset %v", ErrInvalidDayLength, sunrise, sunset)
	}

	localNoon := (float64(sunriseSeconds) + float64(dayLengthSeconds)/2) / 60.0
	angles := ComputeAngles(date)

	// Longitude from the UTC time of solar noon.
	utcNoon := localNoon - utcOffsetHours*60
	lonOffset := noonMinutes - utcNoon - angles.EquationOfTime
	longitude := wrapLongitude(lonOffset / minutesPerDegree)

	// Latitude from the sunrise equation cos(omega) = -tan(lat)*tan(decl).
	hourAngle := (float64(dayLengthSeconds) / 3600.0 / 2) * degreesPerHour
	omega := degToRad(hourAngle)
	tanDecl := math.Tan(angles.Declination)

	out := Outcome{
		Angles: angles,
		Derivation: Derivation{
			DayLengthSeconds:       dayLengthSeconds,
			LocalSolarNoonMinutes:  localNoon,
			UTCNoonMinutes:         utcNoon,
			LongitudeOffsetMinutes: lonOffset,
			HourAngleDegrees:       hourAngle,
			TanDeclination:         tanDecl,
		},
	}

	if math.Abs(tanDecl) < equinoxTanThreshold {
		out.Location = models.GeoLocation{Lat: 0.0, Lon: longitude}
		out.Advisory = AdvisoryNearEquinox
		return out, nil
	}

	latitude := radToDeg(math.Atan(-math.Cos(omega) / tanDecl))
	out.Location = models.GeoLocation{Lat: latitude, Lon: longitude}
	return out, nil
}

// SolveObservation validates obs and solves it.
func SolveObservation(obs models.Observation) (Outcome, error) {
	if err := obs.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("invalid observation: %w", err)
	}
	return SolveLocation(obs.Date, obs.Sunrise, obs.Sunset, obs.UTCOffset)
}

// wrapLongitude maps lon onto the same meridian in (-180, 180].
func wrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon <= 0 {
		lon += 360
	}
	return lon - 180
}
