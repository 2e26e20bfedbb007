package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

func testVenue(id, name string) persistence.Venue {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return persistence.Venue{
		ID:        id,
		Name:      name,
		Location:  "Main Street 1",
		Capacity:  25,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestVenueRepository_CreateAndGet(t *testing.T) {
	store := setupStore(t)
	repo := NewVenueRepository(store)
	ctx := context.Background()

	if err := repo.CreateVenue(ctx, testVenue("venue1", "Grand Hall")); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}

	stored, err := repo.GetVenue(ctx, "venue1")
	if err != nil {
		t.Fatalf("GetVenue failed: %v", err)
	}
	if stored.Name != "Grand Hall" {
		t.Errorf("expected name 'Grand Hall', got %q", stored.Name)
	}
	if stored.Capacity != 25 {
		t.Errorf("expected capacity 25, got %d", stored.Capacity)
	}
}

func TestVenueRepository_DuplicateName(t *testing.T) {
	store := setupStore(t)
	repo := NewVenueRepository(store)
	ctx := context.Background()

	if err := repo.CreateVenue(ctx, testVenue("venue1", "Grand Hall")); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}

	err := repo.CreateVenue(ctx, testVenue("venue2", "Grand Hall"))
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for duplicate name, got %v", err)
	}
}

func TestVenueRepository_ZeroCapacityRejected(t *testing.T) {
	store := setupStore(t)
	repo := NewVenueRepository(store)

	venue := testVenue("venue1", "Grand Hall")
	venue.Capacity = 0

	err := repo.CreateVenue(context.Background(), venue)
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation for zero capacity, got %v", err)
	}
}

func TestVenueRepository_Update(t *testing.T) {
	store := setupStore(t)
	repo := NewVenueRepository(store)
	ctx := context.Background()

	if err := repo.CreateVenue(ctx, testVenue("venue1", "Grand Hall")); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}

	updated := testVenue("venue1", "Grand Hall East")
	updated.Capacity = 40
	if err := repo.UpdateVenue(ctx, updated); err != nil {
		t.Fatalf("UpdateVenue failed: %v", err)
	}

	stored, err := repo.GetVenue(ctx, "venue1")
	if err != nil {
		t.Fatalf("GetVenue failed: %v", err)
	}
	if stored.Name != "Grand Hall East" || stored.Capacity != 40 {
		t.Errorf("update not applied: %+v", stored)
	}

	if err := repo.UpdateVenue(ctx, testVenue("missing", "Nowhere")); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing venue, got %v", err)
	}
}

func TestVenueRepository_List(t *testing.T) {
	store := setupStore(t)
	repo := NewVenueRepository(store)
	ctx := context.Background()

	if err := repo.CreateVenue(ctx, testVenue("venue2", "Ballroom")); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}
	if err := repo.CreateVenue(ctx, testVenue("venue1", "Atrium")); err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}

	venues, err := repo.ListVenues(ctx)
	if err != nil {
		t.Fatalf("ListVenues failed: %v", err)
	}
	if len(venues) != 2 {
		t.Fatalf("expected 2 venues, got %d", len(venues))
	}
	if venues[0].Name != "Atrium" || venues[1].Name != "Ballroom" {
		t.Errorf("expected name order, got %q then %q", venues[0].Name, venues[1].Name)
	}
}

func TestVenueRepository_DeleteMissing(t *testing.T) {
	store := setupStore(t)
	repo := NewVenueRepository(store)

	if err := repo.DeleteVenue(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
