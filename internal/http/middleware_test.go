package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/venue-booking/internal/application"
)

func TestRequireClaims(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("expected claims in context")
		}
		if claims.Subject != "alice" {
			t.Errorf("expected subject alice, got %q", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes authenticated requests through", func(t *testing.T) {
		guard := application.NewGuard(staticValidator{claims: application.ClaimSet{Subject: "alice", Role: application.RoleUser}}, nil)
		handler := RequireClaims(guard, nil)(next)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		req.Header.Set("Authorization", "Bearer good")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects requests without an authorization header", func(t *testing.T) {
		guard := application.NewGuard(staticValidator{}, nil)
		handler := RequireClaims(guard, nil)(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reservations", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects requests the validator turns down", func(t *testing.T) {
		guard := application.NewGuard(staticValidator{err: application.ErrUnauthenticated}, nil)
		handler := RequireClaims(guard, nil)(next)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		req.Header.Set("Authorization", "Bearer bad")
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLogger(nil)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Fatal("expected the wrapped handler to run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
