package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for auth service accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// VenueRepository exposes CRUD operations for venues. Deleting a venue also
// deletes its reservations within the same transaction.
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue Venue) error
	UpdateVenue(ctx context.Context, venue Venue) error
	GetVenue(ctx context.Context, id string) (Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)
	DeleteVenue(ctx context.Context, id string) error
}

// ReservationFilter narrows reservation queries.
type ReservationFilter struct {
	Subject string
	VenueID string
	Day     string
}

// ReservationRepository stores reservations and answers overlap queries.
type ReservationRepository interface {
	// CreateReservation inserts an ACTIVE reservation, re-running the overlap
	// check inside the insert transaction. Returns ErrConflict when an active
	// reservation already occupies an overlapping interval for the same venue
	// and day, and ErrForeignKeyViolation when the venue does not exist.
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	// UpdateReservationStatus persists a status transition.
	UpdateReservationStatus(ctx context.Context, id string, status ReservationStatus, updatedAt time.Time) (Reservation, error)
	// ListReservations returns reservations newest-first. Callers narrow by
	// venue and day to run overlap checks over the returned rows.
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
}
