package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/1F47E/sun-locator/pkg/accuracy"
	"github.com/1F47E/sun-locator/pkg/astronomy"
	"github.com/1F47E/sun-locator/pkg/export"
	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/gazetteer"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/1F47E/sun-locator/pkg/solar"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// EquinoxNote places an observation relative to the true equinox
type EquinoxNote struct {
	Event astronomy.Event
	Days  int
}

// Report is everything shown for one solve
type Report struct {
	Observation models.Observation
	Outcome     solar.Outcome
	Places      []gazetteer.Match
	Equinox     *EquinoxNote
	Engine      string
	Entries     []forecast.Entry
}

// RenderReport renders the solve panels and, when present, the forecast
// key moments
func RenderReport(r Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("☀ Solar position fix"))
	b.WriteString("\n")
	b.WriteString(renderLocation(r))
	b.WriteString("\n")
	if r.Outcome.LowConfidence() {
		b.WriteString(renderAdvisory(r))
		b.WriteString("\n")
	}
	b.WriteString(renderDerivation(r))
	b.WriteString("\n")
	if len(r.Places) > 0 {
		b.WriteString(renderPlaces(r.Places))
		b.WriteString("\n")
	}
	if s, ok := forecast.Summarize(r.Entries, r.Observation.UTCOffset); ok {
		b.WriteString(renderSummary(s, r.Observation.UTCOffset, r.Engine))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLocation(r Report) string {
	loc := r.Outcome.Location
	content := fmt.Sprintf(
		"Latitude:  %s\nLongitude: %s\n%s",
		statStyle.Render(fmt.Sprintf("%.4f°", loc.Lat)),
		statStyle.Render(fmt.Sprintf("%.4f°", loc.Lon)),
		dimStyle.Render(loc.String()),
	)
	return boxStyle.Render(subtitleStyle.Render("Location") + "\n\n" + content)
}

func renderAdvisory(r Report) string {
	content := warnStyle.Render("⚠ "+r.Outcome.Advisory.Message()) + "\n" +
		dimStyle.Render("advisory: "+r.Outcome.Advisory.String())
	if r.Equinox != nil {
		content += "\n" + infoStyle.Render(fmt.Sprintf("%s %s (%+d days from the observation)",
			r.Equinox.Event.Name, r.Equinox.Event.Date, r.Equinox.Days))
	}
	return boxStyle.Render(content)
}

func renderDerivation(r Report) string {
	d := r.Outcome.Derivation
	a := r.Outcome.Angles
	rows := [][2]string{
		{"Observed", fmt.Sprintf("%s  %s → %s  %s", r.Observation.Date, r.Observation.Sunrise,
			r.Observation.Sunset, models.FormatOffset(r.Observation.UTCOffset))},
		{"Day length", forecast.FormatDuration(d.DayLength())},
		{"Local solar noon", d.LocalSolarNoon().String()},
		{"Solar noon (UTC min)", fmt.Sprintf("%.2f", d.UTCNoonMinutes)},
		{"Longitude offset (min)", fmt.Sprintf("%.2f", d.LongitudeOffsetMinutes)},
		{"Equation of time (min)", fmt.Sprintf("%.2f", a.EquationOfTime)},
		{"Declination", fmt.Sprintf("%.4f°", a.DeclinationDegrees())},
		{"Hour angle", fmt.Sprintf("%.4f°", d.HourAngleDegrees)},
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-24s %s", row[0]+":", statStyle.Render(row[1])))
	}
	return boxStyle.Render(subtitleStyle.Render("Derivation") + "\n\n" + b.String())
}

func renderPlaces(matches []gazetteer.Match) string {
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n")
		}
		name := m.Place.Name
		if m.Place.Country != "" {
			name += ", " + m.Place.Country
		}
		b.WriteString(fmt.Sprintf("• %s %s", name, dimStyle.Render(fmt.Sprintf("%.0f km", m.DistanceKm))))
	}
	return boxStyle.Render(subtitleStyle.Render("Nearest places") + "\n\n" + b.String())
}

func renderSummary(s forecast.Summary, utcOffsetHours float64, engine string) string {
	moment := func(m forecast.Moment) string {
		return statStyle.Render(m.Time.String()) + dimStyle.Render(" on "+m.Date.String())
	}
	extent := func(e forecast.DayExtent) string {
		return statStyle.Render(forecast.FormatDuration(e.Length)) + dimStyle.Render(" on "+e.Date.String())
	}
	content := fmt.Sprintf(
		"Earliest sunrise: %s\nLatest sunrise:   %s\nEarliest sunset:  %s\nLatest sunset:    %s\nShortest day:     %s\nLongest day:      %s",
		moment(s.EarliestSunrise), moment(s.LatestSunrise),
		moment(s.EarliestSunset), moment(s.LatestSunset),
		extent(s.ShortestDay), extent(s.LongestDay),
	)
	title := fmt.Sprintf("Key moments over %d days (%s", s.Days, models.FormatOffset(utcOffsetHours))
	if engine != "" {
		title += ", " + engine
	}
	title += ")"
	return boxStyle.Render(subtitleStyle.Render(title) + "\n\n" + content)
}

// RenderForecastTable renders the forecast as a static table
func RenderForecastTable(entries []forecast.Entry, utcOffsetHours float64) string {
	if len(entries) == 0 {
		return warnStyle.Render("No sunrise or sunset in the requested range (polar day or night).")
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9"))).
		Headers(export.Header(utcOffsetHours)...).
		Rows(export.Rows(entries, utcOffsetHours)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// RenderSeasons renders the equinoxes and solstices of a year
func RenderSeasons(year int, events []astronomy.Event) string {
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-18s %s  %s", ev.Name, statStyle.Render(ev.Date.String()),
			dimStyle.Render(fmt.Sprintf("day %d", ev.Date.DayOfYear()))))
	}
	return titleStyle.Render(fmt.Sprintf("Seasons %d", year)) + "\n" + boxStyle.Render(b.String()) + "\n"
}

// RenderSweep renders an accuracy sweep report
func RenderSweep(r accuracy.Report) string {
	stats := func(s accuracy.Stats) string {
		return fmt.Sprintf("mean %s  median %s  p90 %s  max %s",
			statStyle.Render(fmt.Sprintf("%.3f°", s.Mean)),
			statStyle.Render(fmt.Sprintf("%.3f°", s.Median)),
			statStyle.Render(fmt.Sprintf("%.3f°", s.P90)),
			statStyle.Render(fmt.Sprintf("%.3f°", s.Max)))
	}
	content := fmt.Sprintf(
		"✓ Samples: %s  (%d workers, %s)\n"+
			"✓ Solved: %s  near equinox: %d  circumpolar: %d  past midnight: %d  failed: %d\n\n"+
			"Latitude error:  %s\n"+
			"Longitude error: %s\n\n"+
			"Worst: %s on %s solved as %s",
		statStyle.Render(fmt.Sprintf("%d", r.Samples)), r.Workers, r.Duration.Round(time.Millisecond),
		statStyle.Render(fmt.Sprintf("%d", r.Solved)), r.Advisories, r.Circumpolar, r.Invalid, r.Failed,
		stats(r.Lat), stats(r.Lon),
		r.Worst.Truth, r.Worst.Date, r.Worst.Solved,
	)
	return titleStyle.Render("Accuracy sweep ("+r.Engine+")") + "\n" +
		boxStyle.Render(successStyle.Render("Sweep complete") + "\n\n" + content) + "\n"
}
