package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/venue-booking/internal/persistence"
)

func testUser(id, username string) persistence.User {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return persistence.User{
		ID:           id,
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         "USER",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	store := setupStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, testUser("user1", "alice")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byID, err := repo.GetUser(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("expected username alice, got %q", byID.Username)
	}

	byName, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if byName.ID != "user1" {
		t.Errorf("expected user1, got %q", byName.ID)
	}
	if byName.Role != "USER" {
		t.Errorf("expected USER role, got %q", byName.Role)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	store := setupStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, testUser("user1", "alice")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	err := repo.CreateUser(ctx, testUser("user2", "alice"))
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_Missing(t *testing.T) {
	store := setupStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	if _, err := repo.GetUser(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
