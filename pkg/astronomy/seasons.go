// Package astronomy provides the true equinox and solstice dates of a year,
// computed with Meeus' algorithms.
package astronomy

import (
	"math"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"
)

// Event is a named equinox or solstice
type Event struct {
	Name string
	Date models.CalendarDate
}

// JDEToCalendar converts a Julian ephemeris day to a (UTC) calendar date.
func JDEToCalendar(jde float64) models.CalendarDate {
	y, m, d := julian.JDToCalendar(jde)
	return models.NewCalendarDate(y, time.Month(m), int(d))
}

// March returns the March (northward) equinox.
func March(year int) models.CalendarDate {
	return JDEToCalendar(solstice.March(year))
}

// June returns the June solstice.
func June(year int) models.CalendarDate {
	return JDEToCalendar(solstice.June(year))
}

// September returns the September (southward) equinox.
func September(year int) models.CalendarDate {
	return JDEToCalendar(solstice.September(year))
}

// December returns the December solstice.
func December(year int) models.CalendarDate {
	return JDEToCalendar(solstice.December(year))
}

// Seasons returns the four events of year in calendar order.
func Seasons(year int) []Event {
	return []Event{
		{Name: "March equinox", Date: March(year)},
		{Name: "June solstice", Date: June(year)},
		{Name: "September equinox", Date: September(year)},
		{Name: "December solstice", Date: December(year)},
	}
}

// NearestEquinox returns the equinox closest to date, searching the
// neighbouring years too, and the signed number of days from date to it.
func NearestEquinox(date models.CalendarDate) (Event, int) {
	var best Event
	bestDays := math.MaxInt
	for year := date.Year - 1; year <= date.Year+1; year++ {
		for _, ev := range []Event{
			{Name: "March equinox", Date: March(year)},
			{Name: "September equinox", Date: September(year)},
		} {
			days := date.DaysUntil(ev.Date)
			if abs(days) < abs(bestDays) {
				best, bestDays = ev, days
			}
		}
	}
	return best, bestDays
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
