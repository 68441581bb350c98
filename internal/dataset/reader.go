package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/flight-demand-go/internal/models"
	"golang.org/x/text/encoding/charmap"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

const (
	colRoute           = "route"
	colFlightDay       = "flight_day"
	colNumPassengers   = "num_passengers"
	colFlightDuration  = "flight_duration"
	colBookingComplete = "booking_complete"
)

var requiredColumns = []string{colRoute, colFlightDay, colNumPassengers, colFlightDuration, colBookingComplete}

// Row is one CSV line keyed by header name.
type Row map[string]string

// Reader reads booking rows from a latin1 encoded CSV stream. Extra columns
// are ignored.
type Reader struct {
	csv     *csv.Reader
	headers []string
	line    int
}

// NewReader reads the header line and checks the required columns are present.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.ReuseRecord = true

	headers, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rdr := &Reader{csv: cr, line: 1}
	rdr.headers = make([]string, len(headers))
	present := make(map[string]bool, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		rdr.headers[i] = h
		present[h] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return rdr, nil
}

// ReadRow returns the next row, or io.EOF.
func (r *Reader) ReadRow() (Row, error) {
	vals, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	r.line++
	if len(vals) != len(r.headers) {
		return nil, fmt.Errorf("line %d: header/val mismatch (%d/%d)", r.line, len(r.headers), len(vals))
	}

	row := make(Row, len(vals))
	for i, v := range vals {
		row[r.headers[i]] = strings.TrimSpace(v)
	}
	return row, nil
}

// Read returns the next booking record, or io.EOF.
func (r *Reader) Read() (models.BookingRecord, error) {
	row, err := r.ReadRow()
	if err != nil {
		return models.BookingRecord{}, err
	}
	rec, err := row.ToBooking()
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return rec, nil
}

// ReadAll returns every record in file order.
func (r *Reader) ReadAll() ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ToBooking converts the row into a BookingRecord.
func (row Row) ToBooking() (models.BookingRecord, error) {
	day, err := models.ParseFlightDay(row[colFlightDay])
	if err != nil {
		return models.BookingRecord{}, err
	}

	passengers, err := strconv.Atoi(row[colNumPassengers])
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("bad %s %q: %w", colNumPassengers, row[colNumPassengers], err)
	}

	duration, err := strconv.ParseFloat(row[colFlightDuration], 64)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("bad %s %q: %w", colFlightDuration, row[colFlightDuration], err)
	}

	complete, err := parseFlag(row[colBookingComplete])
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("bad %s: %w", colBookingComplete, err)
	}

	return models.BookingRecord{
		Route:           row[colRoute],
		FlightDay:       day,
		NumPassengers:   passengers,
		FlightDuration:  duration,
		BookingComplete: complete,
	}, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("unexpected flag %q", s)
}

// LoadFile reads every booking record from the CSV file at path.
func LoadFile(path string) ([]models.BookingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	rdr, err := NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	records, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
