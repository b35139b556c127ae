package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine rises 6h and sets 18h after local mean midnight, except on the
// dates listed in polar or broken.
type fakeEngine struct {
	polar  map[models.CalendarDate]bool
	broken map[models.CalendarDate]bool
	calls  int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) NextSunrise(loc models.GeoLocation, from time.Time) (time.Time, error) {
	f.calls++
	day := localMeanDate(loc, from)
	if f.polar[day] {
		return time.Time{}, ErrCircumpolar
	}
	if f.broken[day] {
		return time.Time{}, errors.New("engine exploded")
	}
	return LocalMeanMidnight(loc, day).Add(6 * time.Hour), nil
}

func (f *fakeEngine) NextSunset(loc models.GeoLocation, from time.Time) (time.Time, error) {
	f.calls++
	day := localMeanDate(loc, from)
	return LocalMeanMidnight(loc, day).Add(18 * time.Hour), nil
}

var (
	london  = models.GeoLocation{Lat: 51.5074, Lon: -0.1278}
	sydney  = models.GeoLocation{Lat: -33.8688, Lon: 151.2093}
	tromso  = models.GeoLocation{Lat: 69.6492, Lon: 18.9553}
	honolul = models.GeoLocation{Lat: 21.3069, Lon: -157.8583}
)

func TestForecastInvalidDays(t *testing.T) {
	f := NewForecaster(&fakeEngine{}, nil)
	for _, days := range []int{0, -1} {
		entries, err := f.Forecast(london, models.NewCalendarDate(2024, time.January, 1), days)
		assert.ErrorIs(t, err, ErrInvalidDays)
		assert.Nil(t, entries)
	}
}

func TestForecastSkipsCircumpolarDates(t *testing.T) {
	start := models.NewCalendarDate(2024, time.December, 30)
	engine := &fakeEngine{polar: map[models.CalendarDate]bool{
		start.AddDays(1): true,
		start.AddDays(3): true,
	}}
	f := NewForecaster(engine, nil)

	entries, err := f.Forecast(sydney, start, 5)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	expected := []models.CalendarDate{start, start.AddDays(2), start.AddDays(4)}
	for i, e := range entries {
		assert.Equal(t, expected[i], e.Date)
		assert.Equal(t, 12*time.Hour, e.DayLength)
		assert.True(t, e.SunriseUTC.Before(e.SunsetUTC))
		if i > 0 {
			assert.True(t, entries[i-1].SunriseUTC.Before(e.SunriseUTC))
		}
	}
	assert.Equal(t, models.NewCalendarDate(2025, time.January, 1), entries[1].Date)
}

func TestForecastAllCircumpolar(t *testing.T) {
	start := models.NewCalendarDate(2024, time.June, 20)
	polar := map[models.CalendarDate]bool{}
	for i := 0; i < 3; i++ {
		polar[start.AddDays(i)] = true
	}
	entries, err := NewForecaster(&fakeEngine{polar: polar}, nil).Forecast(tromso, start, 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestForecastEngineFailureAborts(t *testing.T) {
	start := models.NewCalendarDate(2024, time.March, 1)
	engine := &fakeEngine{broken: map[models.CalendarDate]bool{start.AddDays(2): true}}

	entries, err := NewForecaster(engine, nil).Forecast(london, start, 10)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCircumpolar))
	assert.Contains(t, err.Error(), "2024-03-03")
	assert.Nil(t, entries)
}

func TestLocalMeanMidnight(t *testing.T) {
	date := models.NewCalendarDate(2024, time.June, 21)
	assert.Equal(t, time.Date(2024, 6, 20, 14, 0, 0, 0, time.UTC),
		LocalMeanMidnight(models.GeoLocation{Lon: 150}, date))
	assert.Equal(t, time.Date(2024, 6, 21, 6, 0, 0, 0, time.UTC),
		LocalMeanMidnight(models.GeoLocation{Lon: -90}, date))
	assert.Equal(t, date, localMeanDate(models.GeoLocation{Lon: 150}, LocalMeanMidnight(models.GeoLocation{Lon: 150}, date)))
}

func TestSunriseEngineLondon(t *testing.T) {
	f := NewForecaster(SunriseEngine{}, nil)
	entries, err := f.Forecast(london, models.NewCalendarDate(2023, time.June, 21), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.WithinDuration(t, time.Date(2023, 6, 21, 3, 43, 0, 0, time.UTC), e.SunriseUTC, 3*time.Minute)
	assert.WithinDuration(t, time.Date(2023, 6, 21, 20, 21, 0, 0, time.UTC), e.SunsetUTC, 3*time.Minute)
	assert.InDelta(t, (16*time.Hour + 38*time.Minute).Minutes(), e.DayLength.Minutes(), 5)
}

func TestSunriseEngineFarFromGreenwich(t *testing.T) {
	f := NewForecaster(SunriseEngine{}, nil)

	// Sydney's local sunrise on the 21st happens on the 20th in UTC.
	entries, err := f.Forecast(sydney, models.NewCalendarDate(2023, time.June, 21), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	local := entries[0].Local(10)
	assert.Equal(t, models.NewCalendarDate(2023, time.June, 21), local.Date)
	assert.Equal(t, 20, entries[0].SunriseUTC.Day())
	assert.InDelta(t, models.ClockTime{Hour: 7}.Seconds(), local.Sunrise.Seconds(), 180)
	assert.InDelta(t, models.ClockTime{Hour: 16, Minute: 53}.Seconds(), local.Sunset.Seconds(), 180)
	assert.Greater(t, entries[0].DayLength, 9*time.Hour+45*time.Minute)
	assert.Less(t, entries[0].DayLength, 10*time.Hour)

	// Honolulu's local sunset on the 21st happens on the 22nd in UTC.
	entries, err = f.Forecast(honolul, models.NewCalendarDate(2023, time.June, 21), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 22, entries[0].SunsetUTC.Day())
	assert.Greater(t, entries[0].DayLength, 13*time.Hour)
}

func TestSunriseEnginePolar(t *testing.T) {
	f := NewForecaster(SunriseEngine{}, nil)

	for _, start := range []models.CalendarDate{
		models.NewCalendarDate(2023, time.June, 19),    // midnight sun
		models.NewCalendarDate(2023, time.December, 19), // polar night
	} {
		entries, err := f.Forecast(tromso, start, 5)
		require.NoError(t, err)
		assert.Empty(t, entries, start.String())
	}

	entries, err := f.Forecast(tromso, models.NewCalendarDate(2023, time.March, 20), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	_, err = SunriseEngine{}.NextSunrise(tromso, time.Date(2023, 6, 21, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrCircumpolar)
}

func TestSunriseEngineNextSemantics(t *testing.T) {
	e := SunriseEngine{}
	noon := time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC)

	rise, err := e.NextSunrise(london, noon)
	require.NoError(t, err)
	assert.True(t, rise.After(noon))
	assert.Equal(t, 22, rise.Day())

	set, err := e.NextSunset(london, noon)
	require.NoError(t, err)
	assert.True(t, set.After(noon))
	assert.Equal(t, 21, set.Day())
}

func TestAstralAgreesWithSunrise(t *testing.T) {
	start := models.NewCalendarDate(2023, time.September, 1)
	a, err := NewForecaster(AstralEngine{}, nil).Forecast(london, start, 7)
	require.NoError(t, err)
	s, err := NewForecaster(SunriseEngine{}, nil).Forecast(london, start, 7)
	require.NoError(t, err)
	require.Len(t, a, 7)
	require.Len(t, s, 7)

	for i := range a {
		assert.Equal(t, s[i].Date, a[i].Date)
		assert.WithinDuration(t, s[i].SunriseUTC, a[i].SunriseUTC, 3*time.Minute)
		assert.WithinDuration(t, s[i].SunsetUTC, a[i].SunsetUTC, 3*time.Minute)
	}

	polar, err := NewForecaster(AstralEngine{}, nil).Forecast(tromso, models.NewCalendarDate(2023, time.June, 20), 3)
	require.NoError(t, err)
	assert.Empty(t, polar)
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine("")
	require.NoError(t, err)
	assert.Equal(t, SunriseEngineName, e.Name())

	e, err = NewEngine(" Astral ")
	require.NoError(t, err)
	assert.Equal(t, AstralEngineName, e.Name())

	_, err = NewEngine("ephem")
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestSummarize(t *testing.T) {
	_, ok := Summarize(nil, 0)
	assert.False(t, ok)

	day := func(d int, rise, set string) Entry {
		date := models.NewCalendarDate(2024, time.January, d)
		r, _ := time.Parse(time.TimeOnly, rise)
		s, _ := time.Parse(time.TimeOnly, set)
		base := date.Time(time.UTC)
		sunrise := base.Add(time.Duration(r.Hour())*time.Hour + time.Duration(r.Minute())*time.Minute)
		sunset := base.Add(time.Duration(s.Hour())*time.Hour + time.Duration(s.Minute())*time.Minute)
		return Entry{Date: date, SunriseUTC: sunrise, SunsetUTC: sunset, DayLength: sunset.Sub(sunrise)}
	}
	entries := []Entry{
		day(1, "06:10:00", "18:00:00"),
		day(2, "06:05:00", "18:05:00"),
		day(3, "06:20:00", "17:55:00"),
		day(4, "06:05:00", "18:30:00"),
	}

	s, ok := Summarize(entries, 0)
	require.True(t, ok)
	assert.Equal(t, 4, s.Days)
	assert.Equal(t, 2, s.EarliestSunrise.Date.Day) // tie keeps the first
	assert.Equal(t, models.ClockTime{Hour: 6, Minute: 5}, s.EarliestSunrise.Time)
	assert.Equal(t, 3, s.LatestSunrise.Date.Day)
	assert.Equal(t, 3, s.EarliestSunset.Date.Day)
	assert.Equal(t, 4, s.LatestSunset.Date.Day)
	assert.Equal(t, 3, s.ShortestDay.Date.Day)
	assert.Equal(t, 11*time.Hour+35*time.Minute, s.ShortestDay.Length)
	assert.Equal(t, 4, s.LongestDay.Date.Day)

	// offsets shift the clock times but not the dates they belong to
	shifted, _ := Summarize(entries, 2)
	assert.Equal(t, models.ClockTime{Hour: 8, Minute: 5}, shifted.EarliestSunrise.Time)
	assert.Equal(t, s.LongestDay, shifted.LongestDay)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12:00:00", FormatDuration(12*time.Hour))
	assert.Equal(t, "09:54:07", FormatDuration(9*time.Hour+54*time.Minute+7*time.Second+600*time.Millisecond))
	assert.Equal(t, "-00:01:30", FormatDuration(-90*time.Second))
}

func BenchmarkForecastYear(b *testing.B) {
	f := NewForecaster(SunriseEngine{}, nil)
	start := models.NewCalendarDate(2024, time.January, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Forecast(london, start, 365)
	}
}
