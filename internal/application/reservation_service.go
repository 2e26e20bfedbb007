package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/venue-booking/internal/interval"
	"github.com/example/venue-booking/internal/persistence"
)

const dayLayout = "2006-01-02"

// ReservationService manages the booking lifecycle: conflict-checked
// creation, owner-or-admin cancellation, listing and availability probes.
type ReservationService struct {
	reservations persistence.ReservationRepository
	venues       persistence.VenueRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService constructs a ReservationService.
func NewReservationService(reservations persistence.ReservationRepository, venues persistence.VenueRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		venues:       venues,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// findConflict lists the venue's reservations for the day and runs the
// overlap predicate over the ACTIVE ones. The repository re-runs the same
// predicate inside the insert transaction, so this is the fast path, not the
// authoritative one.
func (s *ReservationService) findConflict(ctx context.Context, input ReservationInput) (interval.Booking, bool, error) {
	rows, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{
		VenueID: input.VenueID,
		Day:     input.Day,
	})
	if err != nil {
		return interval.Booking{}, false, err
	}

	bookings := make([]interval.Booking, 0, len(rows))
	for _, row := range rows {
		if row.Status != persistence.ReservationStatusActive {
			continue
		}
		bookings = append(bookings, interval.Booking{
			ReservationID: row.ID,
			Span:          interval.Span{Start: row.Start, End: row.End},
		})
	}

	booking, found := interval.FirstOverlap(bookings, interval.Span{Start: input.Start, End: input.End})
	return booking, found, nil
}

func validateReservationInput(input ReservationInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.VenueID) == "" {
		vErr.add("venue_id", "venue_id is required")
	}
	if _, err := time.Parse(dayLayout, input.Day); err != nil {
		vErr.add("day", "day must be formatted YYYY-MM-DD")
	}
	span := interval.Span{Start: input.Start, End: input.End}
	if !span.Valid() {
		vErr.add("interval", "start must be strictly before end")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// Create books the venue for the half-open interval [Start, End) on the given
// day. Touching intervals do not conflict; only ACTIVE reservations block.
func (s *ReservationService) Create(ctx context.Context, claims ClaimSet, input ReservationInput) (reservation persistence.Reservation, err error) {
	if s == nil || s.reservations == nil || s.venues == nil {
		err = fmt.Errorf("reservation repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create", "subject", claims.Subject, "venue_id", input.VenueID, "day", input.Day)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "reservation creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if err = validateReservationInput(input); err != nil {
		return
	}

	if _, err = s.venues.GetVenue(ctx, input.VenueID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}

	blocking, conflict, err := s.findConflict(ctx, input)
	if err != nil {
		return
	}
	if conflict {
		logger = logger.With("conflicting_reservation_id", blocking.ReservationID)
		err = ErrConflict
		return
	}

	// The subject is checked last so interval, venue and conflict failures
	// keep their own statuses even on a degenerate claim set.
	if claims.Subject == "" {
		err = fmt.Errorf("%w: missing subject", ErrUnauthenticated)
		return
	}

	now := s.now()
	reservation = persistence.Reservation{
		ID:        s.idGenerator(),
		Subject:   claims.Subject,
		VenueID:   input.VenueID,
		Day:       input.Day,
		Start:     input.Start,
		End:       input.End,
		Status:    persistence.ReservationStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.reservations.CreateReservation(ctx, reservation); err != nil {
		switch {
		case errors.Is(err, persistence.ErrConflict):
			err = ErrConflict
		case errors.Is(err, persistence.ErrForeignKeyViolation):
			err = ErrNotFound
		}
		reservation = persistence.Reservation{}
		return
	}

	return reservation, nil
}

// Get fetches a reservation visible to the caller. Users see their own
// reservations; admins see all.
func (s *ReservationService) Get(ctx context.Context, claims ClaimSet, id string) (persistence.Reservation, error) {
	if s == nil || s.reservations == nil {
		return persistence.Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	logger := s.loggerWith(ctx, "Get", "subject", claims.Subject, "reservation_id", id)

	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		logger.ErrorContext(ctx, "reservation lookup failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.Reservation{}, err
	}

	if !claims.IsAdmin() && reservation.Subject != claims.Subject {
		err = fmt.Errorf("%w: not the reservation owner", ErrForbidden)
		logger.ErrorContext(ctx, "reservation lookup failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.Reservation{}, err
	}

	return reservation, nil
}

// Cancel transitions a reservation to CANCELLED. Only the owner or an admin
// may cancel. Cancelling an already cancelled reservation is a no-op.
func (s *ReservationService) Cancel(ctx context.Context, claims ClaimSet, id string) (reservation persistence.Reservation, err error) {
	if s == nil || s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Cancel", "subject", claims.Subject, "reservation_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "reservation cancellation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled")
	}()

	reservation, err = s.reservations.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		reservation = persistence.Reservation{}
		return
	}

	if !claims.IsAdmin() && reservation.Subject != claims.Subject {
		err = fmt.Errorf("%w: not the reservation owner", ErrForbidden)
		reservation = persistence.Reservation{}
		return
	}

	if reservation.Status == persistence.ReservationStatusCancelled {
		return reservation, nil
	}

	reservation, err = s.reservations.UpdateReservationStatus(ctx, id, persistence.ReservationStatusCancelled, s.now())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		reservation = persistence.Reservation{}
		return
	}

	return reservation, nil
}

// List returns reservations newest-first. Non-admin callers only see their
// own reservations regardless of the requested filter.
func (s *ReservationService) List(ctx context.Context, claims ClaimSet, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	if s == nil || s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	if !claims.IsAdmin() {
		filter.Subject = claims.Subject
	}

	reservations, err := s.reservations.ListReservations(ctx, filter)
	if err != nil {
		s.loggerWith(ctx, "List", "subject", claims.Subject).
			ErrorContext(ctx, "reservation listing failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return reservations, nil
}

// CheckAvailability reports whether the half-open interval [start, end) is
// free of ACTIVE reservations for the venue on the given day.
func (s *ReservationService) CheckAvailability(ctx context.Context, input ReservationInput) (bool, error) {
	if s == nil || s.reservations == nil || s.venues == nil {
		return false, fmt.Errorf("reservation repositories not configured")
	}

	logger := s.loggerWith(ctx, "CheckAvailability", "venue_id", input.VenueID, "day", input.Day)

	if err := validateReservationInput(input); err != nil {
		logger.ErrorContext(ctx, "availability check failed", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}

	if _, err := s.venues.GetVenue(ctx, input.VenueID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		logger.ErrorContext(ctx, "availability check failed", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}

	_, conflict, err := s.findConflict(ctx, input)
	if err != nil {
		logger.ErrorContext(ctx, "availability check failed", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}
	return !conflict, nil
}
