package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using SQLite.
type ReservationRepository struct {
	pool *ConnectionPool
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{pool: store.Pool()}
}

// Timestamps are stored as RFC3339 UTC strings, so interval comparisons can
// run directly on the column values.
const conflictQuery = `
	SELECT COUNT(1)
	FROM reservations
	WHERE venue_id = ? AND day = ? AND status = 'ACTIVE'
	  AND start_time < ? AND ? < end_time
`

// CreateReservation inserts an ACTIVE reservation. The overlap predicate runs
// again inside the insert transaction, closing the window between a caller's
// conflict check and the write: two concurrent requests for overlapping
// intervals cannot both commit.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if !reservation.Start.Before(reservation.End) {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx, conflictQuery,
			reservation.VenueID,
			reservation.Day,
			reservation.End.UTC().Format(time.RFC3339),
			reservation.Start.UTC().Format(time.RFC3339),
		).Scan(&count)
		if err != nil {
			return mapError(err)
		}
		if count > 0 {
			return persistence.ErrConflict
		}

		query := `
			INSERT INTO reservations (id, subject, venue_id, day, start_time, end_time, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err = tx.ExecContext(ctx, query,
			reservation.ID,
			reservation.Subject,
			reservation.VenueID,
			reservation.Day,
			reservation.Start.UTC().Format(time.RFC3339),
			reservation.End.UTC().Format(time.RFC3339),
			string(reservation.Status),
			reservation.CreatedAt.UTC().Format(time.RFC3339),
			reservation.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}
		return nil
	})
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, subject, venue_id, day, start_time, end_time, status, created_at, updated_at
		FROM reservations
		WHERE id = ?
	`

	reservation, err := scanReservation(r.pool.DB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Reservation{}, persistence.ErrNotFound
		}
		return persistence.Reservation{}, err
	}
	return reservation, nil
}

// UpdateReservationStatus persists a status transition and returns the
// updated record.
func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id string, status persistence.ReservationStatus, updatedAt time.Time) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		UPDATE reservations
		SET status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.pool.DB().ExecContext(ctx, query,
		string(status),
		updatedAt.UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	return r.GetReservation(ctx, id)
}

// ListReservations lists reservations newest-first, optionally narrowed by
// the filter.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	query := `
		SELECT id, subject, venue_id, day, start_time, end_time, status, created_at, updated_at
		FROM reservations
	`

	var conditions []string
	var args []any

	if filter.Subject != "" {
		conditions = append(conditions, "subject = ?")
		args = append(args, filter.Subject)
	}
	if filter.VenueID != "" {
		conditions = append(conditions, "venue_id = ?")
		args = append(args, filter.VenueID)
	}
	if filter.Day != "" {
		conditions = append(conditions, "day = ?")
		args = append(args, filter.Day)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var reservation persistence.Reservation
	var status, startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&reservation.ID,
		&reservation.Subject,
		&reservation.VenueID,
		&reservation.Day,
		&startStr,
		&endStr,
		&status,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.Status = persistence.ReservationStatus(status)
	if reservation.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if reservation.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if reservation.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return reservation, nil
}
