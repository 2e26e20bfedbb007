package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/venue-booking/internal/application"
	"github.com/example/venue-booking/internal/authclient"
	"github.com/example/venue-booking/internal/config"
	httptransport "github.com/example/venue-booking/internal/http"
	"github.com/example/venue-booking/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	cfg, err := config.LoadReservation()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	validator, err := authclient.New(cfg.AuthBaseURL, authclient.WithTimeout(cfg.AuthTimeout))
	if err != nil {
		logger.Error("failed to configure auth client", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return uuid.NewString() }

	venueRepo := sqlite.NewVenueRepository(store)
	reservationRepo := sqlite.NewReservationRepository(store)

	guard := application.NewGuard(validator, logger)
	venueService := application.NewVenueService(venueRepo, guard, idGenerator, time.Now, logger)
	reservationService := application.NewReservationService(reservationRepo, venueRepo, idGenerator, time.Now, logger)

	router := httptransport.NewReservationRouter(httptransport.ReservationRouterConfig{
		Venues:       httptransport.NewVenueHandler(venueService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Authenticate: httptransport.RequireClaims(guard, logger),
		Ping:         store.Pool().Ping,
		Middleware:   []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
