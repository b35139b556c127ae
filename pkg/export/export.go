// Package export writes forecast tables as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/models"
)

// ErrUnsupportedFormat is returned for export paths with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Header returns the table header for a UTC offset
func Header(utcOffsetHours float64) []string {
	zone := models.FormatOffset(utcOffsetHours)
	return []string{
		"Date",
		fmt.Sprintf("Sunrise (%s)", zone),
		fmt.Sprintf("Sunset (%s)", zone),
		"Day Length",
	}
}

// Rows renders entries as local-time table rows
func Rows(entries []forecast.Entry, utcOffsetHours float64) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		l := e.Local(utcOffsetHours)
		rows = append(rows, []string{
			l.Date.String(),
			l.Sunrise.String(),
			l.Sunset.String(),
			forecast.FormatDuration(l.DayLength),
		})
	}
	return rows
}

// WriteCSV writes the forecast table as CSV
func WriteCSV(w io.Writer, entries []forecast.Entry, utcOffsetHours float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(utcOffsetHours)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(Rows(entries, utcOffsetHours)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteFile writes the forecast table to path, choosing the format by
// extension (.csv or .xlsx)
func WriteFile(path string, entries []forecast.Entry, utcOffsetHours float64) error {
	var write func(io.Writer, []forecast.Entry, float64) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = WriteCSV
	case ".xlsx":
		write = WriteXLSX
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(file, entries, utcOffsetHours); err != nil {
		file.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return file.Close()
}
