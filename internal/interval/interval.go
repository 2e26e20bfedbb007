package interval

import "time"

// Span is a half-open time interval [Start, End). The end point is excluded so
// back-to-back bookings on the same venue never register as overlapping.
type Span struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the span has a positive duration.
func (s Span) Valid() bool {
	return s.Start.Before(s.End)
}

// Overlaps reports whether two half-open spans share any instant.
// Touching endpoints (s.End == other.Start) do not overlap.
func (s Span) Overlaps(other Span) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Booking associates a span with the reservation occupying it.
type Booking struct {
	ReservationID string
	Span          Span
}

// FirstOverlap returns the first existing booking that overlaps the candidate
// span, if any. Callers are expected to pass only bookings competing for the
// same venue and date.
func FirstOverlap(existing []Booking, candidate Span) (Booking, bool) {
	for _, booking := range existing {
		if booking.Span.Overlaps(candidate) {
			return booking, true
		}
	}
	return Booking{}, false
}
