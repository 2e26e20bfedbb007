package application

import (
	"context"
	"fmt"
	"log/slog"
)

// ClaimValidator resolves a raw Authorization header value into a validated
// claim set. Implementations may call out to a remote auth service.
type ClaimValidator interface {
	Validate(ctx context.Context, authorizationHeader string) (ClaimSet, error)
}

// Guard authenticates callers and enforces role requirements for the
// reservation service. Every failure, including validator outages, collapses
// to ErrUnauthenticated so callers never leak validator internals.
type Guard struct {
	validator ClaimValidator
	logger    *slog.Logger
}

// NewGuard constructs a Guard backed by the given validator.
func NewGuard(validator ClaimValidator, logger *slog.Logger) *Guard {
	return &Guard{validator: validator, logger: defaultLogger(logger)}
}

func (g *Guard) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, g.logger, "Guard", operation, attrs...)
}

// CurrentClaims resolves the caller's identity from the Authorization header.
func (g *Guard) CurrentClaims(ctx context.Context, authorizationHeader string) (ClaimSet, error) {
	if g == nil || g.validator == nil {
		return ClaimSet{}, fmt.Errorf("claim validator not configured")
	}

	logger := g.loggerWith(ctx, "CurrentClaims")

	if authorizationHeader == "" {
		err := fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)
		logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
		return ClaimSet{}, err
	}

	claims, err := g.validator.Validate(ctx, authorizationHeader)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		logger.ErrorContext(ctx, "authentication failed", "error", wrapped, "error_kind", ErrorKind(wrapped))
		return ClaimSet{}, wrapped
	}

	logger.With("subject", claims.Subject, "role", string(claims.Role)).DebugContext(ctx, "caller authenticated")
	return claims, nil
}

// RequireRole checks that the claims carry the wanted role.
func (g *Guard) RequireRole(ctx context.Context, claims ClaimSet, role Role) error {
	if claims.Role == role {
		return nil
	}
	err := fmt.Errorf("%w: role %s required", ErrForbidden, role)
	g.loggerWith(ctx, "RequireRole", "subject", claims.Subject).
		ErrorContext(ctx, "authorization failed", "error", err, "error_kind", ErrorKind(err))
	return err
}
