package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/flight-demand-go/internal/database"
	"github.com/jengzang/flight-demand-go/internal/models"
)

// BookingRepository handles database operations for booking records
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ReplaceAll swaps the stored bookings for records, keeping their order.
func (r *BookingRepository) ReplaceAll(ctx context.Context, records []models.BookingRecord) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM bookings"); err != nil {
			return fmt.Errorf("failed to clear bookings: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO bookings (route, flight_day, num_passengers, flight_duration, booking_complete)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range records {
			_, err := stmt.ExecContext(ctx, rec.Route, string(rec.FlightDay), rec.NumPassengers, rec.FlightDuration, boolToInt(rec.BookingComplete))
			if err != nil {
				return fmt.Errorf("failed to insert booking %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListCompleted returns completed bookings in insertion order.
func (r *BookingRepository) ListCompleted(ctx context.Context) ([]models.BookingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, route, flight_day, num_passengers, flight_duration, booking_complete
		FROM bookings
		WHERE booking_complete = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var records []models.BookingRecord
	for rows.Next() {
		var rec models.BookingRecord
		var day string
		if err := rows.Scan(&rec.ID, &rec.Route, &day, &rec.NumPassengers, &rec.FlightDuration, &rec.BookingComplete); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		rec.FlightDay, err = models.ParseFlightDay(day)
		if err != nil {
			return nil, fmt.Errorf("booking %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return records, nil
}

// Count returns the number of stored bookings, complete or not.
func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
