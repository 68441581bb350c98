package airport

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius
const EarthRadiusKm = 6371.0

// Airport is a reference location for an IATA code.
type Airport struct {
	Code string
	City string
	Lat  float64
	Lng  float64
}

var airports = map[string]Airport{
	"AKL": {"AKL", "Auckland", -37.0082, 174.7850},
	"KUL": {"KUL", "Kuala Lumpur", 2.7456, 101.7072},
	"PEN": {"PEN", "Penang", 5.2971, 100.2770},
	"TPE": {"TPE", "Taipei", 25.0797, 121.2342},
	"DMK": {"DMK", "Don Mueang", 13.9126, 100.6068},
	"IXB": {"IXB", "Bagdogra", 26.6812, 88.3286},
	"ICN": {"ICN", "Seoul", 37.4602, 126.4407},
	"CTS": {"CTS", "Sapporo", 42.7752, 141.6923},
	"SIN": {"SIN", "Singapore", 1.3644, 103.9915},
}

// Lookup returns the airport for an IATA code.
func Lookup(code string) (Airport, bool) {
	a, ok := airports[code]
	return a, ok
}

// LatLng returns the airport position.
func (a Airport) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(a.Lat, a.Lng)
}

// SplitRoute splits a six letter route code into origin and destination.
func SplitRoute(route string) (origin, destination string, ok bool) {
	if len(route) != 6 {
		return "", "", false
	}
	return route[:3], route[3:], true
}

// RouteDistanceKm returns the great-circle distance of a route when both
// airports are known.
func RouteDistanceKm(route string) (float64, bool) {
	origin, destination, ok := SplitRoute(route)
	if !ok {
		return 0, false
	}
	from, ok := Lookup(origin)
	if !ok {
		return 0, false
	}
	to, ok := Lookup(destination)
	if !ok {
		return 0, false
	}
	return from.LatLng().Distance(to.LatLng()).Radians() * EarthRadiusKm, true
}
