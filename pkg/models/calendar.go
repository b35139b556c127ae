package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	MinUTCOffset = -12.0
	MaxUTCOffset = 14.0
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidClockTime = errors.New("invalid clock time")
	ErrInvalidUTCOffset = errors.New("utc offset out of range")
)

// CalendarDate is a date without a time of day.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate returns the normalized date, so that 2023-02-30
// becomes 2023-03-02 as with time.Date.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDateFromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// CalendarDateFromTime returns the date of t in t's location.
func CalendarDateFromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses dates of the form 2024-06-21.
func ParseCalendarDate(val string) (CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(val))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, val)
	}
	return CalendarDateFromTime(t), nil
}

// Time returns midnight at the start of the date in loc.
func (cd CalendarDate) Time(loc *time.Location) time.Time {
	return time.Date(cd.Year, cd.Month, cd.Day, 0, 0, 0, 0, loc)
}

// DayOfYear returns the ordinal day, 1 to 365 or 366 in leap years.
func (cd CalendarDate) DayOfYear() int {
	return cd.Time(time.UTC).YearDay()
}

// AddDays returns the date n days later (earlier when n is negative).
func (cd CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDateFromTime(cd.Time(time.UTC).AddDate(0, 0, n))
}

// Before reports whether cd is strictly earlier than other.
func (cd CalendarDate) Before(other CalendarDate) bool {
	return cd.Time(time.UTC).Before(other.Time(time.UTC))
}

// DaysUntil returns the signed number of days from cd to other.
func (cd CalendarDate) DaysUntil(other CalendarDate) int {
	return int(math.Round(other.Time(time.UTC).Sub(cd.Time(time.UTC)).Hours() / 24))
}

func (cd CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", cd.Year, int(cd.Month), cd.Day)
}

// ClockTime is a local wall-clock time with one second resolution.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ClockTimeFromTime returns the wall-clock time of t in t's location.
func ClockTimeFromTime(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseClockTime parses 'HH:MM' or 'HH:MM:SS'.
func ParseClockTime(val string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(val), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, fmt.Errorf("%w: %q, expected HH:MM[:SS]", ErrInvalidClockTime, val)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, val)
		}
		fields[i] = n
	}
	ct := ClockTime{Hour: fields[0], Minute: fields[1], Second: fields[2]}
	if err := ct.Validate(); err != nil {
		return ClockTime{}, err
	}
	return ct, nil
}

// Validate checks hour in [0,23] and minute, second in [0,59].
func (ct ClockTime) Validate() error {
	if ct.Hour < 0 || ct.Hour > 23 || ct.Minute < 0 || ct.Minute > 59 || ct.Second < 0 || ct.Second > 59 {
		return fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidClockTime, ct.Hour, ct.Minute, ct.Second)
	}
	return nil
}

// Seconds returns the number of seconds since midnight.
func (ct ClockTime) Seconds() int {
	return ct.Hour*3600 + ct.Minute*60 + ct.Second
}

// Add returns the clock time d later, wrapping at midnight.
func (ct ClockTime) Add(d time.Duration) ClockTime {
	t := time.Date(2000, 1, 1, ct.Hour, ct.Minute, ct.Second, 0, time.UTC).Add(d)
	return ClockTimeFromTime(t)
}

func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", ct.Hour, ct.Minute, ct.Second)
}

// ValidateUTCOffset checks that hours lies within [-12, +14].
func ValidateUTCOffset(hours float64) error {
	if math.IsNaN(hours) || hours < MinUTCOffset || hours > MaxUTCOffset {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidUTCOffset, hours, MinUTCOffset, MaxUTCOffset)
	}
	return nil
}

// OffsetZone returns a fixed zone for a UTC offset in hours.
func OffsetZone(hours float64) *time.Location {
	return time.FixedZone(FormatOffset(hours), int(math.Round(hours*3600)))
}

// FormatOffset renders an offset as UTC+8.0 or UTC-3.5.
func FormatOffset(hours float64) string {
	return fmt.Sprintf("UTC%+.1f", hours)
}

// Observation is a single submission: the sunrise and sunset clock times
// seen on a date at a given UTC offset.
type Observation struct {
	Date      CalendarDate `json:"date"`
	Sunrise   ClockTime    `json:"sunrise"`
	Sunset    ClockTime    `json:"sunset"`
	UTCOffset float64      `json:"utc_offset"`
}

// Validate reports every out of range field.
func (o Observation) Validate() error {
	var result *multierror.Error
	if o.Date.Year == 0 || o.Date != NewCalendarDate(o.Date.Year, o.Date.Month, o.Date.Day) {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalidDate, o.Date))
	}
	if err := o.Sunrise.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("sunrise: %w", err))
	}
	if err := o.Sunset.Validate(); err != nil {
		result = multierror.Append(result, fmt.Errorf("sunset: %w", err))
	}
	if err := ValidateUTCOffset(o.UTCOffset); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
