package models

import "fmt"

// FlightDay is the day of week a flight departs, as it appears in the booking data.
type FlightDay string

const (
	Monday    FlightDay = "Mon"
	Tuesday   FlightDay = "Tue"
	Wednesday FlightDay = "Wed"
	Thursday  FlightDay = "Thu"
	Friday    FlightDay = "Fri"
	Saturday  FlightDay = "Sat"
	Sunday    FlightDay = "Sun"
)

// FlightDays lists every day in display order.
var FlightDays = []FlightDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseFlightDay returns the FlightDay matching s exactly.
func ParseFlightDay(s string) (FlightDay, error) {
	for _, d := range FlightDays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown flight day %q", s)
}

// BookingRecord is one historical booking row
type BookingRecord struct {
	ID              int64     `json:"id,omitempty" db:"id"`
	Route           string    `json:"route" db:"route"`
	FlightDay       FlightDay `json:"flight_day" db:"flight_day"`
	NumPassengers   int       `json:"num_passengers" db:"num_passengers"`
	FlightDuration  float64   `json:"flight_duration" db:"flight_duration"` // hours
	BookingComplete bool      `json:"booking_complete" db:"booking_complete"`
}
