package solar

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestAnglesRange(t *testing.T) {
	for _, year := range []int{2023, 2024} {
		start := models.NewCalendarDate(year, time.January, 1)
		for d := start; d.Year == year; d = d.AddDays(1) {
			a := ComputeAngles(d)
			assert.LessOrEqual(t, math.Abs(a.Declination), degToRad(23.45)+eps, d.String())
			assert.LessOrEqual(t, math.Abs(a.EquationOfTime), 20.0, d.String())
		}
	}
}

func TestAnglesEquinoxesAndSolstices(t *testing.T) {
	// day 81: B = 0
	a := anglesForDay(81)
	assert.Equal(t, 0.0, a.Declination)
	assert.InDelta(t, -7.53, a.EquationOfTime, eps)

	// the autumn zero crossing of this model falls between days 263 and 264
	minAbs := math.Inf(1)
	for d := 255; d <= 272; d++ {
		minAbs = math.Min(minAbs, math.Abs(anglesForDay(d).DeclinationDegrees()))
	}
	assert.Less(t, minAbs, 0.5)
	assert.Less(t, math.Abs(anglesForDay(266).DeclinationDegrees()), 1.1)

	// extremes
	summer := anglesForDay(172).Declination
	winter := anglesForDay(355).Declination
	assert.InDelta(t, 23.45, radToDeg(summer), 0.001)
	assert.InDelta(t, -23.45, radToDeg(winter), 0.001)
	for d := 1; d <= 366; d++ {
		decl := anglesForDay(d).Declination
		assert.LessOrEqual(t, decl, summer+eps, "day %d", d)
		assert.GreaterOrEqual(t, decl, winter-eps, "day %d", d)
	}
}

func TestSolveInvalidDayLength(t *testing.T) {
	dates := []models.CalendarDate{
		models.NewCalendarDate(2023, time.March, 22),
		models.NewCalendarDate(2023, time.June, 21),
		models.NewCalendarDate(2024, time.December, 21),
	}
	testCases := []struct {
		name    string
		sunrise models.ClockTime
		sunset  models.ClockTime
	}{
		{"equal", models.ClockTime{Hour: 6}, models.ClockTime{Hour: 6}},
		{"reversed", models.ClockTime{Hour: 18}, models.ClockTime{Hour: 6}},
		{"one second early", models.ClockTime{Hour: 12, Second: 1}, models.ClockTime{Hour: 12}},
		{"midnight sunset", models.ClockTime{Hour: 4}, models.ClockTime{}},
	}

	for _, tc := range testCases {
		for _, date := range dates {
			for _, offset := range []float64{-12, 0, 5.5, 14} {
				t.Run(fmt.Sprintf("%s/%v/%v", tc.name, date, offset), func(t *testing.T) {
					out, err := SolveLocation(date, tc.sunrise, tc.sunset, offset)
					assert.ErrorIs(t, err, ErrInvalidDayLength)
					assert.Equal(t, Outcome{}, out)
				})
			}
		}
	}
}

func TestSolveEquinoxSymmetry(t *testing.T) {
	date := models.NewCalendarDate(2023, time.March, 22) // day 81
	out, err := SolveLocation(date, models.ClockTime{Hour: 6}, models.ClockTime{Hour: 18}, 0)
	require.NoError(t, err)

	assert.Equal(t, AdvisoryNearEquinox, out.Advisory)
	assert.True(t, out.LowConfidence())
	assert.Equal(t, 0.0, out.Location.Lat)
	// solar noon at 12:00 UTC, only the equation of time moves it off 0
	assert.InDelta(t, 7.53/4, out.Location.Lon, eps)
	assert.InDelta(t, 0.0, out.Location.Lon, 2.0)
	assert.Equal(t, models.ClockTime{Hour: 12}, out.Derivation.LocalSolarNoon())
}

func TestSolveEquinoxExample(t *testing.T) {
	date := models.NewCalendarDate(2024, time.March, 21) // day 81 in a leap year
	out, err := SolveLocation(date,
		models.ClockTime{Hour: 6, Minute: 30},
		models.ClockTime{Hour: 18, Minute: 30},
		8.0)
	require.NoError(t, err)

	assert.Equal(t, 43200, out.Derivation.DayLengthSeconds)
	assert.Equal(t, 12*time.Hour, out.Derivation.DayLength())
	assert.InDelta(t, 750.0, out.Derivation.LocalSolarNoonMinutes, eps)
	assert.InDelta(t, 270.0, out.Derivation.UTCNoonMinutes, eps)
	assert.InDelta(t, 90.0, out.Derivation.HourAngleDegrees, eps)

	assert.Equal(t, AdvisoryNearEquinox, out.Advisory)
	assert.NotEmpty(t, out.Advisory.Message())
	assert.Equal(t, 0.0, out.Location.Lat)
	assert.InDelta(t, (720-270+7.53)/4, out.Location.Lon, eps)
	assert.InDelta(t, 120.0, out.Location.Lon, 6.0)
}

func TestSolveLongitudePerturbation(t *testing.T) {
	dates := []models.CalendarDate{
		models.NewCalendarDate(2023, time.March, 22),
		models.NewCalendarDate(2023, time.June, 21),
		models.NewCalendarDate(2023, time.November, 3),
	}
	sunrise := models.ClockTime{Hour: 5, Minute: 40, Second: 10}
	sunset := models.ClockTime{Hour: 19, Minute: 2, Second: 50}

	for _, date := range dates {
		t.Run(date.String(), func(t *testing.T) {
			base, err := SolveLocation(date, sunrise, sunset, 2)
			require.NoError(t, err)

			for _, shift := range []int{1, 7, -3} {
				d := time.Duration(shift) * time.Minute
				moved, err := SolveLocation(date, sunrise.Add(d), sunset.Add(d), 2)
				require.NoError(t, err)
				assert.InDelta(t, -0.25*float64(shift), moved.Location.Lon-base.Location.Lon, eps)
				// day length is unchanged so latitude is too
				assert.InDelta(t, base.Location.Lat, moved.Location.Lat, eps)
			}

			// shifting only sunset by 2 minutes moves noon by 1 minute
			later, err := SolveLocation(date, sunrise, sunset.Add(2*time.Minute), 2)
			require.NoError(t, err)
			assert.InDelta(t, -0.25, later.Location.Lon-base.Location.Lon, eps)
		})
	}
}

func TestSolveEquinoxThreshold(t *testing.T) {
	sunrise := models.ClockTime{Hour: 6, Minute: 2}
	sunset := models.ClockTime{Hour: 18, Minute: 11}

	testCases := []struct {
		date     models.CalendarDate
		advisory Advisory
	}{
		{models.NewCalendarDate(2023, time.March, 21), AdvisoryNone},        // day 80
		{models.NewCalendarDate(2023, time.March, 22), AdvisoryNearEquinox}, // day 81
		{models.NewCalendarDate(2023, time.March, 23), AdvisoryNone},        // day 82
		{models.NewCalendarDate(2024, time.March, 20), AdvisoryNone},        // day 80
		{models.NewCalendarDate(2024, time.March, 21), AdvisoryNearEquinox}, // day 81
		{models.NewCalendarDate(2023, time.September, 21), AdvisoryNone},    // day 264
	}

	for _, tc := range testCases {
		t.Run(tc.date.String(), func(t *testing.T) {
			out, err := SolveLocation(tc.date, sunrise, sunset, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.advisory, out.Advisory)

			tanDecl := math.Tan(ComputeAngles(tc.date).Declination)
			assert.InDelta(t, tanDecl, out.Derivation.TanDeclination, eps)
			if tc.advisory == AdvisoryNone {
				assert.GreaterOrEqual(t, math.Abs(tanDecl), equinoxTanThreshold)
				omega := degToRad(out.Derivation.HourAngleDegrees)
				expected := radToDeg(math.Atan(-math.Cos(omega) / tanDecl))
				assert.InDelta(t, expected, out.Location.Lat, eps)
				assert.NotEqual(t, 0.0, out.Location.Lat)
			} else {
				assert.Less(t, math.Abs(tanDecl), equinoxTanThreshold)
				assert.Equal(t, 0.0, out.Location.Lat)
			}
		})
	}
}

func TestSolveKnownLatitude(t *testing.T) {
	// day 172, a 15 hour day centred on 12:00 local
	date := models.NewCalendarDate(2023, time.June, 21)
	out, err := SolveLocation(date,
		models.ClockTime{Hour: 4, Minute: 30},
		models.ClockTime{Hour: 19, Minute: 30},
		0)
	require.NoError(t, err)
	assert.Equal(t, AdvisoryNone, out.Advisory)
	assert.InDelta(t, 41.4196, out.Location.Lat, 0.001)
	assert.InDelta(t, 112.5, out.Derivation.HourAngleDegrees, eps)

	// same day length in December mirrors into the southern hemisphere
	dec := models.NewCalendarDate(2023, time.December, 21)
	out, err = SolveLocation(dec,
		models.ClockTime{Hour: 4, Minute: 30},
		models.ClockTime{Hour: 19, Minute: 30},
		0)
	require.NoError(t, err)
	assert.InDelta(t, -41.4196, out.Location.Lat, 0.001)
}

func TestSolveObservation(t *testing.T) {
	obs := models.Observation{
		Date:      models.NewCalendarDate(2023, time.June, 21),
		Sunrise:   models.ClockTime{Hour: 4, Minute: 25},
		Sunset:    models.ClockTime{Hour: 19, Minute: 30},
		UTCOffset: -5,
	}
	out, err := SolveObservation(obs)
	require.NoError(t, err)
	assert.True(t, out.Location.Valid())

	obs.UTCOffset = 15
	_, err = SolveObservation(obs)
	assert.ErrorIs(t, err, models.ErrInvalidUTCOffset)
}

func TestSolveWrapsLongitudeAtExtremeOffsets(t *testing.T) {
	date := models.NewCalendarDate(2023, time.June, 21)
	tests := []struct {
		name    string
		sunrise models.ClockTime
		sunset  models.ClockTime
		offset  float64
	}{
		{"east of the dateline", models.ClockTime{Hour: 0, Minute: 30}, models.ClockTime{Hour: 1, Minute: 30}, 14},
		{"west of the dateline", models.ClockTime{Hour: 22}, models.ClockTime{Hour: 23, Minute: 50}, -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := SolveObservation(models.Observation{
				Date: date, Sunrise: tt.sunrise, Sunset: tt.sunset, UTCOffset: tt.offset,
			})
			require.NoError(t, err)
			assert.Equal(t, AdvisoryNone, out.Advisory)
			assert.True(t, out.Location.Valid(), "longitude %v", out.Location.Lon)

			// same meridian as the unwrapped noon offset
			raw := out.Derivation.LongitudeOffsetMinutes / minutesPerDegree
			assert.InDelta(t, 0, math.Remainder(raw-out.Location.Lon, 360), eps)
		})
	}
}

func TestWrapLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{179.5, 179.5},
		{180, 180},
		{-180, 180},
		{181, -179},
		{375.362, 15.362},
		{-343.388, 16.612},
		{540, 180},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.in), func(t *testing.T) {
			assert.InDelta(t, tt.want, wrapLongitude(tt.in), 1e-9)
		})
	}
}

func TestAdvisoryString(t *testing.T) {
	assert.Equal(t, "none", AdvisoryNone.String())
	assert.Equal(t, "near_equinox_low_confidence", AdvisoryNearEquinox.String())
	assert.Empty(t, AdvisoryNone.Message())
}

func BenchmarkSolveLocation(b *testing.B) {
	date := models.NewCalendarDate(2023, time.June, 21)
	sunrise := models.ClockTime{Hour: 4, Minute: 25}
	sunset := models.ClockTime{Hour: 19, Minute: 30}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SolveLocation(date, sunrise, sunset, -5)
	}
}
