package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

func setupReservationTest(t *testing.T) (*ReservationRepository, *VenueRepository) {
	t.Helper()

	store := setupStore(t)
	venues := NewVenueRepository(store)
	reservations := NewReservationRepository(store)

	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	venue := persistence.Venue{
		ID:        "venue1",
		Name:      "Grand Hall",
		Location:  "Main Street 1",
		Capacity:  10,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := venues.CreateVenue(context.Background(), venue); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}

	return reservations, venues
}

func dayTime(hour, min int) time.Time {
	return time.Date(2026, time.January, 6, hour, min, 0, 0, time.UTC)
}

func activeReservation(id string, startHour, endHour int) persistence.Reservation {
	created := dayTime(0, 0)
	return persistence.Reservation{
		ID:        id,
		Subject:   "alice",
		VenueID:   "venue1",
		Day:       "2026-01-06",
		Start:     dayTime(startHour, 0),
		End:       dayTime(endHour, 0),
		Status:    persistence.ReservationStatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestReservationRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupReservationTest(t)
	ctx := context.Background()

	if err := repo.CreateReservation(ctx, activeReservation("res1", 10, 12)); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	stored, err := repo.GetReservation(ctx, "res1")
	if err != nil {
		t.Fatalf("GetReservation failed: %v", err)
	}
	if stored.Subject != "alice" {
		t.Errorf("expected subject alice, got %q", stored.Subject)
	}
	if stored.Status != persistence.ReservationStatusActive {
		t.Errorf("expected ACTIVE status, got %q", stored.Status)
	}
	if !stored.Start.Equal(dayTime(10, 0)) || !stored.End.Equal(dayTime(12, 0)) {
		t.Errorf("stored interval mismatch: %v - %v", stored.Start, stored.End)
	}
}

func TestReservationRepository_CreateRejectsOverlap(t *testing.T) {
	repo, _ := setupReservationTest(t)
	ctx := context.Background()

	if err := repo.CreateReservation(ctx, activeReservation("res1", 10, 12)); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	err := repo.CreateReservation(ctx, activeReservation("res2", 11, 13))
	if !errors.Is(err, persistence.ErrConflict) {
		t.Fatalf("expected ErrConflict for overlapping insert, got %v", err)
	}

	// Back-to-back intervals commit cleanly.
	if err := repo.CreateReservation(ctx, activeReservation("res3", 12, 13)); err != nil {
		t.Fatalf("back-to-back insert failed: %v", err)
	}
	if err := repo.CreateReservation(ctx, activeReservation("res4", 9, 10)); err != nil {
		t.Fatalf("preceding back-to-back insert failed: %v", err)
	}
}

func TestReservationRepository_CreateRejectsUnknownVenue(t *testing.T) {
	repo, _ := setupReservationTest(t)

	reservation := activeReservation("res1", 10, 12)
	reservation.VenueID = "missing"

	err := repo.CreateReservation(context.Background(), reservation)
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestReservationRepository_CancelledRowsDoNotConflict(t *testing.T) {
	repo, _ := setupReservationTest(t)
	ctx := context.Background()

	if err := repo.CreateReservation(ctx, activeReservation("res1", 10, 12)); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if _, err := repo.UpdateReservationStatus(ctx, "res1", persistence.ReservationStatusCancelled, dayTime(9, 0)); err != nil {
		t.Fatalf("UpdateReservationStatus failed: %v", err)
	}

	if err := repo.CreateReservation(ctx, activeReservation("res2", 10, 12)); err != nil {
		t.Fatalf("insert over cancelled reservation failed: %v", err)
	}
}

func TestReservationRepository_InsertConflictPredicate(t *testing.T) {
	repo, _ := setupReservationTest(t)
	ctx := context.Background()

	if err := repo.CreateReservation(ctx, activeReservation("res1", 10, 12)); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	cases := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{name: "identical", start: dayTime(10, 0), end: dayTime(12, 0), wantErr: true},
		{name: "overlap at end", start: dayTime(11, 0), end: dayTime(13, 0), wantErr: true},
		{name: "overlap at start", start: dayTime(9, 0), end: dayTime(11, 0), wantErr: true},
		{name: "back-to-back after", start: dayTime(12, 0), end: dayTime(13, 0), wantErr: false},
		{name: "back-to-back before", start: dayTime(9, 0), end: dayTime(10, 0), wantErr: false},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := activeReservation(fmt.Sprintf("cand%d", i), 0, 1)
			candidate.Start = tc.start
			candidate.End = tc.end

			err := repo.CreateReservation(ctx, candidate)
			if tc.wantErr {
				if !errors.Is(err, persistence.ErrConflict) {
					t.Fatalf("expected ErrConflict, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateReservation failed: %v", err)
			}
		})
	}

	// Same interval on another day commits.
	other := activeReservation("other-day", 10, 12)
	other.Day = "2026-01-07"
	other.Start = other.Start.AddDate(0, 0, 1)
	other.End = other.End.AddDate(0, 0, 1)
	if err := repo.CreateReservation(ctx, other); err != nil {
		t.Fatalf("insert on another day failed: %v", err)
	}
}

func TestReservationRepository_UpdateStatusMissing(t *testing.T) {
	repo, _ := setupReservationTest(t)

	_, err := repo.UpdateReservationStatus(context.Background(), "missing", persistence.ReservationStatusCancelled, dayTime(9, 0))
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReservationRepository_ListNewestFirst(t *testing.T) {
	repo, _ := setupReservationTest(t)
	ctx := context.Background()

	first := activeReservation("res1", 9, 10)
	first.CreatedAt = dayTime(8, 0)
	first.UpdatedAt = first.CreatedAt
	second := activeReservation("res2", 10, 11)
	second.Subject = "bob"
	second.CreatedAt = dayTime(8, 30)
	second.UpdatedAt = second.CreatedAt

	if err := repo.CreateReservation(ctx, first); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if err := repo.CreateReservation(ctx, second); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	all, err := repo.ListReservations(ctx, persistence.ReservationFilter{})
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(all))
	}
	if all[0].ID != "res2" || all[1].ID != "res1" {
		t.Errorf("expected newest-first order, got %s then %s", all[0].ID, all[1].ID)
	}

	mine, err := repo.ListReservations(ctx, persistence.ReservationFilter{Subject: "bob"})
	if err != nil {
		t.Fatalf("ListReservations by subject failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "res2" {
		t.Errorf("expected only bob's reservation, got %v", mine)
	}
}

func TestVenueRepository_DeleteCascadesReservations(t *testing.T) {
	repo, venues := setupReservationTest(t)
	ctx := context.Background()

	if err := repo.CreateReservation(ctx, activeReservation("res1", 10, 12)); err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}

	if err := venues.DeleteVenue(ctx, "venue1"); err != nil {
		t.Fatalf("DeleteVenue failed: %v", err)
	}

	_, err := repo.GetReservation(ctx, "res1")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected reservation to be removed with its venue, got %v", err)
	}
}
