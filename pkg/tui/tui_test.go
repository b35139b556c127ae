package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/1F47E/sun-locator/pkg/accuracy"
	"github.com/1F47E/sun-locator/pkg/astronomy"
	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/gazetteer"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/1F47E/sun-locator/pkg/solar"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T, date models.CalendarDate, days int) Report {
	t.Helper()
	obs := models.Observation{
		Date:      date,
		Sunrise:   models.ClockTime{Hour: 5, Minute: 30},
		Sunset:    models.ClockTime{Hour: 19, Minute: 30},
		UTCOffset: 8,
	}
	out, err := solar.SolveObservation(obs)
	require.NoError(t, err)

	var entries []forecast.Entry
	if days > 0 {
		entries, err = forecast.NewForecaster(forecast.SunriseEngine{}, nil).Forecast(out.Location, date, days)
		require.NoError(t, err)
	}
	return Report{
		Observation: obs,
		Outcome:     out,
		Places: []gazetteer.Match{
			{Place: &models.Place{Name: "Hong Kong", Country: "HK"}, DistanceKm: 612.4},
		},
		Engine:  forecast.SunriseEngineName,
		Entries: entries,
	}
}

func TestRenderReport(t *testing.T) {
	r := sampleReport(t, models.NewCalendarDate(2024, time.June, 21), 5)
	out := RenderReport(r)

	assert.Contains(t, out, "Location")
	assert.Contains(t, out, r.Outcome.Location.String())
	assert.Contains(t, out, "Derivation")
	assert.Contains(t, out, "14:00:00")
	assert.Contains(t, out, "Hong Kong, HK")
	assert.Contains(t, out, "612 km")
	assert.Contains(t, out, "Key moments over 5 days (UTC+8.0, sunrise)")
	assert.NotContains(t, out, "near_equinox")
}

func TestRenderReportAdvisory(t *testing.T) {
	date := models.NewCalendarDate(2023, time.March, 22)
	r := sampleReport(t, date, 0)
	require.True(t, r.Outcome.LowConfidence())
	ev, days := astronomy.NearestEquinox(date)
	r.Equinox = &EquinoxNote{Event: ev, Days: days}

	out := RenderReport(r)
	assert.Contains(t, out, "near_equinox_low_confidence")
	assert.Contains(t, out, "March equinox 2023-03-20 (-2 days")
	assert.NotContains(t, out, "Key moments")
}

func TestRenderForecastTable(t *testing.T) {
	r := sampleReport(t, models.NewCalendarDate(2024, time.June, 21), 3)
	out := RenderForecastTable(r.Entries, 8)
	assert.Contains(t, out, "Sunrise (UTC+8.0)")
	assert.Contains(t, out, "2024-06-23")

	assert.Contains(t, RenderForecastTable(nil, 8), "polar")
}

func TestRenderSeasonsAndSweep(t *testing.T) {
	out := RenderSeasons(2024, astronomy.Seasons(2024))
	assert.Contains(t, out, "Seasons 2024")
	assert.Contains(t, out, "2024-12-21")

	out = RenderSweep(accuracy.Report{Engine: "astral", Samples: 10, Solved: 9, Circumpolar: 1,
		Lat: accuracy.Stats{Mean: 1.5}})
	assert.Contains(t, out, "Accuracy sweep (astral)")
	assert.Contains(t, out, "circumpolar: 1")
	assert.Contains(t, out, "1.500°")
}

func TestForecastModel(t *testing.T) {
	r := sampleReport(t, models.NewCalendarDate(2024, time.June, 21), 10)
	m := newForecastModel(r, 5)
	assert.Nil(t, m.Init())
	assert.Len(t, m.table.Rows(), 10)
	assert.Equal(t, 0, m.table.Cursor())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(forecastModel)
	assert.Equal(t, 1, m.table.Cursor())
	assert.Contains(t, m.View(), "10 days")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestSpinnerModel(t *testing.T) {
	boom := errors.New("boom")
	m := newSpinnerModel("Sweeping", func() (string, error) { return "partial", boom })
	assert.True(t, strings.Contains(m.View(), "Sweeping"))

	next, cmd := m.Update(workDoneMsg{output: "partial", err: boom})
	m = next.(spinnerModel)
	assert.True(t, m.done)
	assert.Equal(t, "partial", m.result.output)
	assert.ErrorIs(t, m.result.err, boom)
	assert.Empty(t, m.View())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	aborted, _ := newSpinnerModel("x", nil).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, aborted.(spinnerModel).aborted)
}
