package gazetteer

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/1F47E/sun-locator/pkg/models"
)

//go:embed cities.csv
var citiesCSV []byte

var (
	defaultOnce  sync.Once
	defaultIndex *Index
	defaultErr   error
)

// ErrBadRecord is returned for a CSV row that cannot be parsed
var ErrBadRecord = errors.New("bad place record")

// Default returns the index of built-in world cities. It is built once.
func Default() (*Index, error) {
	defaultOnce.Do(func() {
		places, err := ReadCSV(bytes.NewReader(citiesCSV))
		if err != nil {
			defaultErr = fmt.Errorf("built-in cities: %w", err)
			return
		}
		defaultIndex = NewIndex()
		defaultIndex.Add(places)
	})
	return defaultIndex, defaultErr
}

// ReadCSV parses places from CSV with the header name,country,lat,lon.
// An optional id column is used when present; otherwise ids are
// generated from the row number.
func ReadCSV(r io.Reader) ([]*models.Place, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var places []*models.Place
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		lat, errLat := strconv.ParseFloat(field(record, cols, "lat"), 64)
		lon, errLon := strconv.ParseFloat(field(record, cols, "lon"), 64)
		if errLat != nil || errLon != nil {
			return nil, fmt.Errorf("line %d: %w: coordinates %q,%q", line, ErrBadRecord,
				field(record, cols, "lat"), field(record, cols, "lon"))
		}
		loc := &models.GeoLocation{Lat: lat, Lon: lon}
		if !loc.Valid() {
			return nil, fmt.Errorf("line %d: %w: %v out of range", line, ErrBadRecord, *loc)
		}

		id := field(record, cols, "id")
		if id == "" {
			id = strconv.Itoa(len(places) + 1)
		}
		places = append(places, &models.Place{
			ID:       id,
			Name:     field(record, cols, "name"),
			Country:  field(record, cols, "country"),
			Location: loc,
		})
	}
	return places, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
