// Package solar solves for an observer's latitude and longitude from the
// sunrise and sunset clock times seen on a single day.
//
// The solar model is the simplified one used in introductory solar
// engineering texts: a sinusoidal declination of amplitude 23.45° anchored on
// day 81 and a three-term equation of time. It is not an ephemeris; forward
// sunrise/sunset prediction lives in package forecast.
package solar

import (
	"math"

	"github.com/1F47E/sun-locator/pkg/models"
)

const (
	obliquityDegrees = 23.45
	equinoxDay       = 81
	daysPerYear      = 365.0
)

// Angles holds the solar declination and equation of time for a date
type Angles struct {
	// Declination in radians, within about [-0.41, 0.41].
	Declination float64 `json:"declination"`
	// EquationOfTime in minutes, apparent solar time minus mean time.
	EquationOfTime float64 `json:"equation_of_time"`
}

// DeclinationDegrees returns the declination in degrees
func (a Angles) DeclinationDegrees() float64 {
	return radToDeg(a.Declination)
}

// ComputeAngles returns the declination and equation of time for date.
func ComputeAngles(date models.CalendarDate) Angles {
	return anglesForDay(date.DayOfYear())
}

func anglesForDay(dayOfYear int) Angles {
	b := degToRad((360 / daysPerYear) * float64(dayOfYear-equinoxDay))

	eot := 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
	declination := degToRad(obliquityDegrees * math.Sin(b))

	return Angles{Declination: declination, EquationOfTime: eot}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
