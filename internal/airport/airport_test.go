package airport

import (
	"math"
	"testing"
)

func TestRouteDistanceKm(t *testing.T) {
	tests := []struct {
		route string
		want  float64 // approximate great-circle km
	}{
		{"AKLKUL", 8700},
		{"PENTPE", 3135},
		{"ICNCTS", 1420},
		{"CTSSIN", 5930},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			got, ok := RouteDistanceKm(tt.route)
			if !ok {
				t.Fatalf("RouteDistanceKm(%q) not ok", tt.route)
			}
			if math.Abs(got-tt.want)/tt.want > 0.05 {
				t.Errorf("RouteDistanceKm(%q) = %.0f, want about %.0f", tt.route, got, tt.want)
			}
		})
	}
}

func TestRouteDistanceSymmetric(t *testing.T) {
	a, _ := RouteDistanceKm("PENTPE")
	b, _ := RouteDistanceKm("TPEPEN")
	if math.Abs(a-b) > 1e-6 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestRouteDistanceUnknown(t *testing.T) {
	for _, route := range []string{"AKLDEL", "XYZ", "", "AKLKULX"} {
		if _, ok := RouteDistanceKm(route); ok {
			t.Errorf("RouteDistanceKm(%q) should not be ok", route)
		}
	}
}
