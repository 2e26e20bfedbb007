package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/venue-booking/internal/application"
)

func TestServiceFactoryDefaults(t *testing.T) {
	factory := NewServiceFactory()

	if factory.Clock == nil || factory.IDGenerator == nil {
		t.Fatal("expected factory defaults to be populated")
	}
	if !factory.Clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected clock at ReferenceTime, got %v", factory.Clock.Now())
	}
}

func TestServiceFactoryBuildsWorkingAuthService(t *testing.T) {
	clock := NewClock(time.Time{})
	factory := NewServiceFactory(WithClock(clock), WithIDGenerator(NewIDGenerator("acct")))

	harness := NewSQLiteHarness(t)
	svc := factory.AuthService(harness.Users)

	user, err := svc.Register(context.Background(), application.RegisterParams{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID != "acct-1" {
		t.Fatalf("expected deterministic id acct-1, got %q", user.ID)
	}
	if !user.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected CreatedAt at ReferenceTime, got %v", user.CreatedAt)
	}

	result, err := svc.Login(context.Background(), application.LoginParams{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	claims, err := svc.ValidateToken(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}
