package forecast

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jengzang/flight-demand-go/internal/models"
	"gonum.org/v1/gonum/stat"
)

// LongHaulHours is the average duration above which a route counts as long haul.
const LongHaulHours = 6.0

var (
	// ErrRouteNotFound is returned when a route has no completed bookings.
	ErrRouteNotFound = errors.New("no data available for the selected route")
	// ErrInvalidDay is returned for a day outside Mon..Sun.
	ErrInvalidDay = errors.New("invalid flight day")
)

// Dataset is the read-only booking history the feature builder works from.
// It is built once at startup and shared by every request.
type Dataset struct {
	completed []models.BookingRecord
	rare      RouteSet
	routes    []string
}

// NewDataset keeps the completed records, in input order, and precomputes the
// rare route set and the sorted list of distinct routes.
func NewDataset(records []models.BookingRecord) *Dataset {
	completed := make([]models.BookingRecord, 0, len(records))
	distinct := make(map[string]struct{})
	for _, r := range records {
		if !r.BookingComplete {
			continue
		}
		completed = append(completed, r)
		distinct[r.Route] = struct{}{}
	}

	routes := make([]string, 0, len(distinct))
	for route := range distinct {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	return &Dataset{
		completed: completed,
		rare:      ComputeRareRoutes(completed),
		routes:    routes,
	}
}

// Routes returns the distinct routes among completed bookings, sorted.
func (d *Dataset) Routes() []string {
	out := make([]string, len(d.routes))
	copy(out, d.routes)
	return out
}

// IsRare reports whether route is collapsed into OtherRoute.
func (d *Dataset) IsRare(route string) bool {
	return d.rare.Contains(route)
}

// Size returns the number of completed bookings.
func (d *Dataset) Size() int {
	return len(d.completed)
}

// BuildFeatures assembles the model input for route and day.
func (d *Dataset) BuildFeatures(route string, day models.FlightDay) (models.FeatureRecord, error) {
	if _, err := models.ParseFlightDay(string(day)); err != nil {
		return models.FeatureRecord{}, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}

	routeForModel := route
	if d.rare.Contains(route) {
		routeForModel = models.OtherRoute
	}

	// Durations come from the selected route, never the substituted category.
	var durations []float64
	for _, r := range d.completed {
		if r.Route == route {
			durations = append(durations, r.FlightDuration)
		}
	}
	if len(durations) == 0 {
		return models.FeatureRecord{}, fmt.Errorf("%w: %s", ErrRouteNotFound, route)
	}

	avg := stat.Mean(durations, nil)
	return models.FeatureRecord{
		Route:             routeForModel,
		FlightDay:         day,
		AvgFlightDuration: avg,
		HaulType:          ClassifyHaul(avg),
	}, nil
}

// ClassifyHaul returns LongHaul only when hours is strictly above LongHaulHours.
func ClassifyHaul(hours float64) models.HaulType {
	if hours > LongHaulHours {
		return models.LongHaul
	}
	return models.ShortHaul
}
