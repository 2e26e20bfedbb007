package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/venue-booking/internal/persistence"
	"github.com/example/venue-booking/internal/token"
)

type userRepoStub struct {
	createErr error
	created   persistence.User

	byUsername persistence.User
	getErr     error
}

func (r *userRepoStub) CreateUser(ctx context.Context, user persistence.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = user
	return nil
}

func (r *userRepoStub) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if r.getErr != nil {
		return persistence.User{}, r.getErr
	}
	return r.byUsername, nil
}

func (r *userRepoStub) GetUserByUsername(ctx context.Context, username string) (persistence.User, error) {
	if r.getErr != nil {
		return persistence.User{}, r.getErr
	}
	if r.byUsername.Username != username {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.byUsername, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + string(rune('0'+n))
	}
}

func newTokenService(t *testing.T) token.Service {
	t.Helper()
	return token.NewService("test-secret", time.Hour, nil)
}

func TestAuthService_Register(t *testing.T) {
	now := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)

	t.Run("creates user with USER role and hashed password", func(t *testing.T) {
		repo := &userRepoStub{}
		svc := NewAuthService(repo, newTokenService(t), nil, nil, sequentialIDs("user"), fixedClock(now), nil)

		user, err := svc.Register(context.Background(), RegisterParams{Username: "  alice  ", Password: "s3cret"})
		if err != nil {
			t.Fatalf("Register returned error: %v", err)
		}
		if user.Username != "alice" {
			t.Fatalf("expected trimmed username alice, got %q", user.Username)
		}
		if user.Role != string(RoleUser) {
			t.Fatalf("expected USER role, got %q", user.Role)
		}
		if user.PasswordHash == "" || user.PasswordHash == "s3cret" {
			t.Fatalf("expected hashed password, got %q", user.PasswordHash)
		}
		if !user.CreatedAt.Equal(now) {
			t.Fatalf("expected CreatedAt %v, got %v", now, user.CreatedAt)
		}
		if repo.created.ID != user.ID {
			t.Fatalf("expected persisted user %q, got %q", user.ID, repo.created.ID)
		}
	})

	t.Run("rejects blank username and password", func(t *testing.T) {
		svc := NewAuthService(&userRepoStub{}, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.Register(context.Background(), RegisterParams{Username: "   ", Password: ""})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["username"]; !ok {
			t.Fatalf("expected username field error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["password"]; !ok {
			t.Fatalf("expected password field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("maps duplicate username to already exists", func(t *testing.T) {
		repo := &userRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewAuthService(repo, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.Register(context.Background(), RegisterParams{Username: "alice", Password: "s3cret"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	stored := persistence.User{ID: "user-1", Username: "alice", PasswordHash: hash, Role: string(RoleUser)}

	t.Run("issues a token the auth service can validate", func(t *testing.T) {
		tokens := newTokenService(t)
		svc := NewAuthService(&userRepoStub{byUsername: stored}, tokens, nil, nil, nil, nil, nil)

		result, err := svc.Login(context.Background(), LoginParams{Username: "alice", Password: "s3cret"})
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if result.AccessToken == "" {
			t.Fatal("expected a non-empty access token")
		}

		claims, err := svc.ValidateToken(context.Background(), result.AccessToken)
		if err != nil {
			t.Fatalf("ValidateToken returned error: %v", err)
		}
		if claims.Subject != "alice" || claims.Role != RoleUser {
			t.Fatalf("unexpected claims %+v", claims)
		}
	})

	t.Run("rejects wrong password as invalid credentials", func(t *testing.T) {
		svc := NewAuthService(&userRepoStub{byUsername: stored}, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.Login(context.Background(), LoginParams{Username: "alice", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects unknown username as invalid credentials", func(t *testing.T) {
		svc := NewAuthService(&userRepoStub{}, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.Login(context.Background(), LoginParams{Username: "mallory", Password: "s3cret"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects blank credentials without hitting the repository", func(t *testing.T) {
		svc := NewAuthService(&userRepoStub{getErr: errors.New("should not be called")}, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.Login(context.Background(), LoginParams{})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	t.Run("rejects empty token", func(t *testing.T) {
		svc := NewAuthService(&userRepoStub{}, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.ValidateToken(context.Background(), "   ")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		svc := NewAuthService(&userRepoStub{}, newTokenService(t), nil, nil, nil, nil, nil)

		_, err := svc.ValidateToken(context.Background(), "not-a-token")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("rejects token carrying an unknown role", func(t *testing.T) {
		tokens := newTokenService(t)
		signed, err := tokens.GenerateToken("alice", "SUPERUSER")
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		svc := NewAuthService(&userRepoStub{}, tokens, nil, nil, nil, nil, nil)
		_, err = svc.ValidateToken(context.Background(), signed)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		issued := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)
		current := issued

		tokens := token.NewService("test-secret", time.Minute, func() time.Time { return current })
		signed, err := tokens.GenerateToken("alice", string(RoleUser))
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		current = issued.Add(2 * time.Minute)

		svc := NewAuthService(&userRepoStub{}, tokens, nil, nil, nil, nil, nil)
		_, err = svc.ValidateToken(context.Background(), signed)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}
