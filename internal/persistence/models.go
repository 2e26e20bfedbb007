package persistence

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
type ReservationStatus string

const (
	// ReservationStatusActive marks a live booking that occupies its interval.
	ReservationStatusActive ReservationStatus = "ACTIVE"
	// ReservationStatusCancelled marks a booking released by its owner or an admin.
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// User represents an account stored by the auth service.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Venue represents a bookable venue catalog entry.
type Venue struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents a booking of a venue for a half-open time interval
// on a single calendar day. Start and End carry the full timestamps; Day is
// the calendar date used by the conflict lookup index.
type Reservation struct {
	ID        string
	Subject   string
	VenueID   string
	Day       string
	Start     time.Time
	End       time.Time
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
