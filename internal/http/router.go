package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// AuthRouterConfig wires the auth service's HTTP surface.
type AuthRouterConfig struct {
	Auth       *AuthHandler
	Ping       func(ctx context.Context) error
	Middleware []func(http.Handler) http.Handler
}

// NewAuthRouter builds the auth service router:
//
//	POST /auth/register  create an account
//	POST /auth/login     exchange credentials for a bearer token
//	GET  /auth/validate  validate the presented bearer token
//	GET  /healthz        liveness and storage probe
func NewAuthRouter(cfg AuthRouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", healthHandler(cfg.Ping))

	if cfg.Auth != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Get("/validate", cfg.Auth.Validate)
		})
	}

	return r
}

// ReservationRouterConfig wires the reservation service's HTTP surface.
type ReservationRouterConfig struct {
	Venues       *VenueHandler
	Reservations *ReservationHandler
	// Authenticate guards every route except /healthz, typically
	// RequireClaims backed by the remote token validator.
	Authenticate func(http.Handler) http.Handler
	Ping         func(ctx context.Context) error
	Middleware   []func(http.Handler) http.Handler
}

// NewReservationRouter builds the reservation service router. Venue reads and
// the availability probe are public; everything else requires a validated
// bearer token.
//
//	GET    /venues                             list the catalog (public)
//	GET    /venues/{venue_id}                  fetch one venue (public)
//	GET    /availability                       probe an interval without booking (public)
//	POST   /venues                             create a venue (admin)
//	PATCH  /venues/{venue_id}                  update a venue (admin)
//	DELETE /venues/{venue_id}                  delete a venue and its reservations (admin)
//	POST   /reservations                       book an interval
//	GET    /reservations                       list reservations (own, or all for admins)
//	GET    /reservations/{reservation_id}      fetch one reservation
//	POST   /reservations/{reservation_id}/cancel  cancel a reservation
//	DELETE /reservations/{reservation_id}      cancel (alias)
//	GET    /healthz                            liveness and storage probe
func NewReservationRouter(cfg ReservationRouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", healthHandler(cfg.Ping))

	if cfg.Venues != nil {
		r.Get("/venues", cfg.Venues.List)
		r.Get("/venues/{venue_id}", cfg.Venues.Get)
	}
	if cfg.Reservations != nil {
		r.Get("/availability", cfg.Reservations.Availability)
		// Alias kept for callers addressing the probe under the collection.
		r.Get("/reservations/availability", cfg.Reservations.Availability)
	}

	r.Group(func(r chi.Router) {
		if cfg.Authenticate != nil {
			r.Use(cfg.Authenticate)
		}

		if cfg.Venues != nil {
			r.Post("/venues", cfg.Venues.Create)
			r.Patch("/venues/{venue_id}", cfg.Venues.Update)
			r.Delete("/venues/{venue_id}", cfg.Venues.Delete)
		}

		if cfg.Reservations != nil {
			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", cfg.Reservations.List)
				r.Post("/", cfg.Reservations.Create)
				r.Get("/{reservation_id}", cfg.Reservations.Get)
				r.Post("/{reservation_id}/cancel", cfg.Reservations.Cancel)
				r.Delete("/{reservation_id}", cfg.Reservations.Cancel)
			})
		}
	})

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
