package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

// VenueService manages the venue catalog. All mutating operations are
// restricted to ADMIN callers; reads carry no claims and are public.
type VenueService struct {
	venues      persistence.VenueRepository
	guard       *Guard
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewVenueService constructs a VenueService.
func NewVenueService(venues persistence.VenueRepository, guard *Guard, idGenerator func() string, now func() time.Time, logger *slog.Logger) *VenueService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &VenueService{
		venues:      venues,
		guard:       guard,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *VenueService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "VenueService", operation, attrs...)
}

func validateVenueInput(input VenueInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// CreateVenue adds a venue to the catalog. ADMIN only.
func (s *VenueService) CreateVenue(ctx context.Context, claims ClaimSet, input VenueInput) (venue persistence.Venue, err error) {
	if s == nil || s.venues == nil {
		err = fmt.Errorf("venue repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateVenue", "subject", claims.Subject, "name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "venue creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("venue_id", venue.ID).InfoContext(ctx, "venue created")
	}()

	if err = s.guard.RequireRole(ctx, claims, RoleAdmin); err != nil {
		return
	}
	if err = validateVenueInput(input); err != nil {
		return
	}

	now := s.now()
	venue = persistence.Venue{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Location:  strings.TrimSpace(input.Location),
		Capacity:  input.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.venues.CreateVenue(ctx, venue); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = ErrAlreadyExists
		}
		venue = persistence.Venue{}
		return
	}

	return venue, nil
}

// GetVenue fetches a venue by identifier.
func (s *VenueService) GetVenue(ctx context.Context, id string) (persistence.Venue, error) {
	if s == nil || s.venues == nil {
		return persistence.Venue{}, fmt.Errorf("venue repository not configured")
	}

	venue, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		s.loggerWith(ctx, "GetVenue", "venue_id", id).
			ErrorContext(ctx, "venue lookup failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.Venue{}, err
	}
	return venue, nil
}

// ListVenues returns the full catalog ordered by name.
func (s *VenueService) ListVenues(ctx context.Context) ([]persistence.Venue, error) {
	if s == nil || s.venues == nil {
		return nil, fmt.Errorf("venue repository not configured")
	}

	venues, err := s.venues.ListVenues(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListVenues").
			ErrorContext(ctx, "venue listing failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return venues, nil
}

// UpdateVenue applies a partial update to a venue. ADMIN only.
func (s *VenueService) UpdateVenue(ctx context.Context, claims ClaimSet, id string, patch VenuePatch) (venue persistence.Venue, err error) {
	if s == nil || s.venues == nil {
		err = fmt.Errorf("venue repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateVenue", "subject", claims.Subject, "venue_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "venue update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "venue updated")
	}()

	if err = s.guard.RequireRole(ctx, claims, RoleAdmin); err != nil {
		return
	}

	venue, err = s.venues.GetVenue(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		venue = persistence.Venue{}
		return
	}

	if patch.Name != nil {
		venue.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Location != nil {
		venue.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Capacity != nil {
		venue.Capacity = *patch.Capacity
	}

	if err = validateVenueInput(VenueInput{Name: venue.Name, Location: venue.Location, Capacity: venue.Capacity}); err != nil {
		venue = persistence.Venue{}
		return
	}

	venue.UpdatedAt = s.now()

	if err = s.venues.UpdateVenue(ctx, venue); err != nil {
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			err = ErrNotFound
		case errors.Is(err, persistence.ErrDuplicate):
			err = ErrAlreadyExists
		}
		venue = persistence.Venue{}
		return
	}

	return venue, nil
}

// DeleteVenue removes a venue and cascades to its reservations. ADMIN only.
func (s *VenueService) DeleteVenue(ctx context.Context, claims ClaimSet, id string) (err error) {
	if s == nil || s.venues == nil {
		return fmt.Errorf("venue repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteVenue", "subject", claims.Subject, "venue_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "venue deletion failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "venue deleted")
	}()

	if err = s.guard.RequireRole(ctx, claims, RoleAdmin); err != nil {
		return
	}

	if err = s.venues.DeleteVenue(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}
	return nil
}
