package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

// VenueRepository implements persistence.VenueRepository using SQLite.
type VenueRepository struct {
	pool *ConnectionPool
}

// NewVenueRepository creates a new SQLite venue repository.
func NewVenueRepository(store *Store) *VenueRepository {
	return &VenueRepository{pool: store.Pool()}
}

// CreateVenue inserts a new venue catalog entry.
func (r *VenueRepository) CreateVenue(ctx context.Context, venue persistence.Venue) error {
	if venue.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO venues (id, name, location, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.DB().ExecContext(ctx, query,
		venue.ID,
		venue.Name,
		venue.Location,
		venue.Capacity,
		venue.CreatedAt.UTC().Format(time.RFC3339),
		venue.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// UpdateVenue updates an existing venue.
func (r *VenueRepository) UpdateVenue(ctx context.Context, venue persistence.Venue) error {
	if venue.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE venues
		SET name = ?, location = ?, capacity = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.pool.DB().ExecContext(ctx, query,
		venue.Name,
		venue.Location,
		venue.Capacity,
		venue.UpdatedAt.UTC().Format(time.RFC3339),
		venue.ID,
	)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetVenue retrieves a venue by ID.
func (r *VenueRepository) GetVenue(ctx context.Context, id string) (persistence.Venue, error) {
	if id == "" {
		return persistence.Venue{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, location, capacity, created_at, updated_at
		FROM venues
		WHERE id = ?
	`

	venue, err := scanVenue(r.pool.DB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Venue{}, persistence.ErrNotFound
		}
		return persistence.Venue{}, err
	}
	return venue, nil
}

// ListVenues lists all venues ordered by name.
func (r *VenueRepository) ListVenues(ctx context.Context) ([]persistence.Venue, error) {
	query := `
		SELECT id, name, location, capacity, created_at, updated_at
		FROM venues
		ORDER BY name ASC, id ASC
	`

	rows, err := r.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var venues []persistence.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return venues, nil
}

// DeleteVenue removes a venue and, via cascade, its reservations. The
// reservation delete is issued explicitly inside the same transaction so the
// cascade does not depend on the connection's foreign key pragma.
func (r *VenueRepository) DeleteVenue(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE venue_id = ?", id); err != nil {
			return mapError(err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM venues WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(row rowScanner) (persistence.Venue, error) {
	var venue persistence.Venue
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&venue.ID,
		&venue.Name,
		&venue.Location,
		&venue.Capacity,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Venue{}, err
	}

	if venue.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Venue{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if venue.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Venue{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return venue, nil
}
