// Package testfixtures provides deterministic fixtures, clocks and storage
// harnesses shared by the auth and reservation service tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

var (
	userCounter        uint64
	venueCounter       uint64
	reservationCounter uint64
)

var referenceTime = time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// WithUsername overrides the fixture username.
func WithUsername(username string) UserOption {
	return func(u *persistence.User) { u.Username = username }
}

// WithRole overrides the fixture role.
func WithRole(role string) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// WithPasswordHash overrides the fixture password hash.
func WithPasswordHash(hash string) UserOption {
	return func(u *persistence.User) { u.PasswordHash = hash }
}

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           fmt.Sprintf("user-%03d", idx),
		Username:     fmt.Sprintf("user%03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         "USER",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// VenueOption configures a generated venue fixture.
type VenueOption func(*persistence.Venue)

// WithVenueName overrides the fixture venue name.
func WithVenueName(name string) VenueOption {
	return func(v *persistence.Venue) { v.Name = name }
}

// WithCapacity overrides the fixture capacity.
func WithCapacity(capacity int) VenueOption {
	return func(v *persistence.Venue) { v.Capacity = capacity }
}

// NewVenue returns a deterministic venue record with optional overrides.
func NewVenue(opts ...VenueOption) persistence.Venue {
	idx := atomic.AddUint64(&venueCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	venue := persistence.Venue{
		ID:        fmt.Sprintf("venue-%03d", idx),
		Name:      fmt.Sprintf("Venue %03d", idx),
		Location:  fmt.Sprintf("Floor %d", idx),
		Capacity:  50,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&venue)
	}
	return venue
}

// ReservationOption configures a generated reservation fixture.
type ReservationOption func(*persistence.Reservation)

// WithSubject overrides the reservation owner.
func WithSubject(subject string) ReservationOption {
	return func(r *persistence.Reservation) { r.Subject = subject }
}

// WithVenueID points the reservation at a specific venue.
func WithVenueID(venueID string) ReservationOption {
	return func(r *persistence.Reservation) { r.VenueID = venueID }
}

// WithInterval sets the reservation's day and half-open interval.
func WithInterval(day string, start, end time.Time) ReservationOption {
	return func(r *persistence.Reservation) {
		r.Day = day
		r.Start = start
		r.End = end
	}
}

// WithStatus overrides the reservation status.
func WithStatus(status persistence.ReservationStatus) ReservationOption {
	return func(r *persistence.Reservation) { r.Status = status }
}

// NewReservation returns a deterministic active reservation. Consecutive
// fixtures occupy back-to-back hour slots on the reference day so they never
// conflict unless a test opts in via WithInterval.
func NewReservation(opts ...ReservationOption) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	day := referenceTime.Truncate(24 * time.Hour)
	start := day.Add(time.Duration(idx) * time.Hour)
	reservation := persistence.Reservation{
		ID:        fmt.Sprintf("resv-%03d", idx),
		Subject:   fmt.Sprintf("user%03d", idx),
		VenueID:   "venue-001",
		Day:       day.Format("2006-01-02"),
		Start:     start,
		End:       start.Add(time.Hour),
		Status:    persistence.ReservationStatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}
