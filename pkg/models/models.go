package models

import "fmt"

// GeoLocation represents a geographic location with latitude and longitude in degrees
type GeoLocation struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

func (l GeoLocation) String() string {
	ns, ew := "N", "E"
	lat, lon := l.Lat, l.Lon
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s", lat, ns, lon, ew)
}

// Valid reports whether the location lies within [-90, 90] x [-180, 180]
func (l GeoLocation) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Place is a named reference location
type Place struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Country  string       `json:"country"`
	Location *GeoLocation `json:"location"`
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft GeoLocation
	TopRight   GeoLocation
}

// Contains reports whether loc lies inside the box, edges included
func (b BoundingBox) Contains(loc GeoLocation) bool {
	return loc.Lat >= b.BottomLeft.Lat && loc.Lat <= b.TopRight.Lat &&
		loc.Lon >= b.BottomLeft.Lon && loc.Lon <= b.TopRight.Lon
}
