package forecast

import (
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
)

// Moment is a local wall-clock time on a date
type Moment struct {
	Date models.CalendarDate `json:"date"`
	Time models.ClockTime    `json:"time"`
}

// DayExtent is a day length on a date
type DayExtent struct {
	Date   models.CalendarDate `json:"date"`
	Length time.Duration       `json:"length"`
}

// Summary holds the extremes of a forecast in local time.
type Summary struct {
	Days            int       `json:"days"`
	EarliestSunrise Moment    `json:"earliest_sunrise"`
	LatestSunrise   Moment    `json:"latest_sunrise"`
	EarliestSunset  Moment    `json:"earliest_sunset"`
	LatestSunset    Moment    `json:"latest_sunset"`
	ShortestDay     DayExtent `json:"shortest_day"`
	LongestDay      DayExtent `json:"longest_day"`
}

// Summarize finds the earliest and latest local sunrise and sunset, compared
// by time of day, and the shortest and longest day. Ties keep the earlier
// date. It returns false for an empty forecast.
func Summarize(entries []Entry, utcOffsetHours float64) (Summary, bool) {
	if len(entries) == 0 {
		return Summary{}, false
	}

	first := entries[0].Local(utcOffsetHours)
	s := Summary{
		Days:            len(entries),
		EarliestSunrise: Moment{first.Date, first.Sunrise},
		LatestSunrise:   Moment{first.Date, first.Sunrise},
		EarliestSunset:  Moment{first.Date, first.Sunset},
		LatestSunset:    Moment{first.Date, first.Sunset},
		ShortestDay:     DayExtent{first.Date, first.DayLength},
		LongestDay:      DayExtent{first.Date, first.DayLength},
	}

	for _, e := range entries[1:] {
		l := e.Local(utcOffsetHours)
		if l.Sunrise.Seconds() < s.EarliestSunrise.Time.Seconds() {
			s.EarliestSunrise = Moment{l.Date, l.Sunrise}
		}
		if l.Sunrise.Seconds() > s.LatestSunrise.Time.Seconds() {
			s.LatestSunrise = Moment{l.Date, l.Sunrise}
		}
		if l.Sunset.Seconds() < s.EarliestSunset.Time.Seconds() {
			s.EarliestSunset = Moment{l.Date, l.Sunset}
		}
		if l.Sunset.Seconds() > s.LatestSunset.Time.Seconds() {
			s.LatestSunset = Moment{l.Date, l.Sunset}
		}
		if l.DayLength < s.ShortestDay.Length {
			s.ShortestDay = DayExtent{l.Date, l.DayLength}
		}
		if l.DayLength > s.LongestDay.Length {
			s.LongestDay = DayExtent{l.Date, l.DayLength}
		}
	}
	return s, true
}
