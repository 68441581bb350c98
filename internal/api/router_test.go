package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/flight-demand-go/internal/config"
	"github.com/jengzang/flight-demand-go/internal/forecast"
	"github.com/jengzang/flight-demand-go/internal/model"
	"github.com/jengzang/flight-demand-go/internal/models"
	"github.com/jengzang/flight-demand-go/internal/service"
	"github.com/rs/zerolog"
)

func testBookings() []models.BookingRecord {
	var records []models.BookingRecord
	add := func(route string, day models.FlightDay, duration float64, complete bool) {
		records = append(records, models.BookingRecord{
			Route: route, FlightDay: day, NumPassengers: 1, FlightDuration: duration, BookingComplete: complete,
		})
	}
	for i := 0; i < 10; i++ {
		duration := 5.0
		if i%2 == 1 {
			duration = 7.0
		}
		add("AKLKUL", models.FlightDays[i/2], duration, true)
	}
	add("PENTPE", models.Monday, 4.6, true)
	add("PENTPE", models.Tuesday, 4.6, true)
	for _, day := range models.FlightDays {
		add("ICNCTS", day, 2.5, true)
	}
	add("CTSSIN", models.Monday, 7.6, false)
	return records
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Mode = gin.TestMode
	cfg.RateLimit.Requests = 1000

	forest, err := model.LoadForest("../model/testdata/forest.json")
	if err != nil {
		t.Fatal(err)
	}
	svc := service.NewPredictionService(forecast.NewDataset(testBookings()), forest)

	r, err := SetupRouter(cfg, svc, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupRouter() error = %v", err)
	}
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func postJSON(t *testing.T, r http.Handler, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestCreatePrediction(t *testing.T) {
	r := newTestRouter(t)

	w, env := postJSON(t, r, "/api/v1/predictions", `{"route":"AKLKUL","flight_day":"Mon"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var p models.Prediction
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	want := models.FeatureRecord{Route: "AKLKUL", FlightDay: models.Monday, AvgFlightDuration: 6.0, HaulType: models.ShortHaul}
	if p.Features != want {
		t.Errorf("Features = %+v, want %+v", p.Features, want)
	}
	if p.Passengers != 65 || p.Demand != models.DemandModerate {
		t.Errorf("got %d/%s, want 65/Moderate", p.Passengers, p.Demand)
	}
}

func TestCreatePredictionRareRoute(t *testing.T) {
	r := newTestRouter(t)

	_, env := postJSON(t, r, "/api/v1/predictions", `{"route":"PENTPE","flight_day":"Sun"}`)
	var p models.Prediction
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Features.Route != models.OtherRoute {
		t.Errorf("model route = %q, want Other", p.Features.Route)
	}
	if p.Passengers != 45 || p.Demand != models.DemandLow {
		t.Errorf("got %d/%s, want 45/Low", p.Passengers, p.Demand)
	}
}

func TestCreatePredictionErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"no data", `{"route":"CTSSIN","flight_day":"Mon"}`, http.StatusNotFound, "No data available for the selected route: CTSSIN"},
		{"bad day", `{"route":"AKLKUL","flight_day":"Someday"}`, http.StatusBadRequest, "invalid flight day"},
		{"missing fields", `{}`, http.StatusBadRequest, "required"},
		{"unseen category", `{"route":"ICNCTS","flight_day":"Mon"}`, http.StatusInternalServerError, "prediction failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := postJSON(t, r, "/api/v1/predictions", tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if env.Code != tt.status || !strings.Contains(env.Message, tt.message) {
				t.Errorf("envelope = %+v, want message containing %q", env, tt.message)
			}
		})
	}
}

func TestGetOptions(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	var opts models.PredictionOptions
	if err := json.Unmarshal(env.Data, &opts); err != nil {
		t.Fatal(err)
	}
	var codes []string
	for _, o := range opts.Routes {
		codes = append(codes, o.Code)
	}
	if strings.Join(codes, ",") != "AKLKUL,ICNCTS,PENTPE" {
		t.Errorf("routes = %v", codes)
	}
	if opts.Model.MeanAbsoluteError != 2.36 {
		t.Errorf("model = %+v", opts.Model)
	}
}

func TestFormIdle(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`click "Predict Demand" to see the forecast`,
		"Auckland (AKL) to Kuala Lumpur (KUL)",
		"Seoul (ICN) to Sapporo (CTS)",
		`<option value="PENTPE"`,
		"0.79",
		"2.36 passengers",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func submitForm(r http.Handler, route, day string) *httptest.ResponseRecorder {
	form := url.Values{"route": {route}, "flight_day": {day}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFormResult(t *testing.T) {
	r := newTestRouter(t)

	w := submitForm(r, "AKLKUL", "Mon")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"Predicted Demand for: Auckland (AKL) to Kuala Lumpur (KUL)",
		`<div class="metric">65</div>`,
		"Moderate demand expected.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestFormNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := submitForm(r, "CTSSIN", "Mon")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No data available for the selected route: CTSSIN") {
		t.Error("page missing the not-found banner")
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
