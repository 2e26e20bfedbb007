package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/venue-booking/internal/application"
	"github.com/example/venue-booking/internal/persistence"
	"github.com/example/venue-booking/internal/token"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger overrides the logger injected into constructed services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// AuthService builds an auth service over the given repository using a token
// service signed with a fixed test secret.
func (f *ServiceFactory) AuthService(users persistence.UserRepository) *application.AuthService {
	tokens := token.NewService("testfixtures-secret", time.Hour, f.Clock.NowFunc())
	return application.NewAuthService(users, tokens, nil, nil, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// VenueService builds a venue service whose guard trusts the provided validator.
func (f *ServiceFactory) VenueService(venues persistence.VenueRepository, validator application.ClaimValidator) *application.VenueService {
	guard := application.NewGuard(validator, f.Logger)
	return application.NewVenueService(venues, guard, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// ReservationService builds a reservation service over the given repositories.
func (f *ServiceFactory) ReservationService(reservations persistence.ReservationRepository, venues persistence.VenueRepository) *application.ReservationService {
	return application.NewReservationService(reservations, venues, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}
