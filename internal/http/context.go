package http

import (
	"context"

	"github.com/example/venue-booking/internal/application"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns a derived context carrying the caller's validated claims.
func ContextWithClaims(ctx context.Context, claims application.ClaimSet) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the caller's claims from context if available.
func ClaimsFromContext(ctx context.Context) (application.ClaimSet, bool) {
	claims, ok := ctx.Value(claimsContextKey).(application.ClaimSet)
	return claims, ok
}
