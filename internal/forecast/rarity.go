package forecast

import "github.com/jengzang/flight-demand-go/internal/models"

// RareRouteThreshold is the minimum number of distinct (route, day) groups a
// route needs among completed bookings to be kept as its own category.
const RareRouteThreshold = 5

// RouteSet is a read-only set of route codes.
type RouteSet map[string]struct{}

// Contains reports whether route is in the set.
func (s RouteSet) Contains(route string) bool {
	_, ok := s[route]
	return ok
}

// Len returns the number of routes in the set.
func (s RouteSet) Len() int { return len(s) }

type routeDayKey struct {
	route string
	day   models.FlightDay
}

// groupRouteDays groups completed records by (route, day) and returns, per
// route, how many groups exist. Routes are returned in order of first occurrence.
func groupRouteDays(records []models.BookingRecord) ([]string, map[string]int) {
	seen := make(map[routeDayKey]struct{})
	counts := make(map[string]int)
	var order []string

	for _, r := range records {
		if !r.BookingComplete {
			continue
		}
		key := routeDayKey{route: r.Route, day: r.FlightDay}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := counts[r.Route]; !ok {
			order = append(order, r.Route)
		}
		counts[r.Route]++
	}
	return order, counts
}

// ComputeRareRoutes returns the routes whose (route, day) group count among
// completed bookings falls below RareRouteThreshold.
func ComputeRareRoutes(records []models.BookingRecord) RouteSet {
	order, counts := groupRouteDays(records)
	rare := make(RouteSet)
	for _, route := range order {
		if counts[route] < RareRouteThreshold {
			rare[route] = struct{}{}
		}
	}
	return rare
}
