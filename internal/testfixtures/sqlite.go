package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/venue-booking/internal/persistence"
	"github.com/example/venue-booking/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite store
// for integration-style persistence tests.
type SQLiteHarness struct {
	Users        persistence.UserRepository
	Venues       persistence.VenueRepository
	Reservations persistence.ReservationRepository

	store   *sqlite.Store
	cleanup func()
}

// Store exposes the underlying store, mainly for health probes.
func (h *SQLiteHarness) Store() *sqlite.Store {
	if h == nil {
		return nil
	}
	return h.store
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness over a temporary migrated database.
// Cleanup is registered with the provided testing.TB automatically.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "booking.db")

	store, err := sqlite.Open("file:" + path + "?_foreign_keys=on")
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		tb.Fatalf("failed to migrate sqlite store: %v", err)
	}

	harness := &SQLiteHarness{
		Users:        sqlite.NewUserRepository(store),
		Venues:       sqlite.NewVenueRepository(store),
		Reservations: sqlite.NewReservationRepository(store),
		store:        store,
		cleanup: func() {
			store.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
