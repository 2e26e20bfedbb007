package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/venue-booking/internal/persistence"
	"github.com/example/venue-booking/internal/token"
)

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates account registration, login and token validation
// for the auth service's HTTP surface.
type AuthService struct {
	users          persistence.UserRepository
	tokens         token.Service
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
// Nil hashers, verifiers, generators and clocks fall back to defaults.
func NewAuthService(users persistence.UserRepository, tokens token.Service, hash PasswordHasher, verify PasswordVerifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if hash == nil {
		hash = HashPassword
	}
	if verify == nil {
		verify = VerifyPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:          users,
		tokens:         tokens,
		hashPassword:   hash,
		verifyPassword: verify,
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register creates a new account with the USER role.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (user persistence.User, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	username := strings.TrimSpace(params.Username)
	logger := s.loggerWith(ctx, "Register", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	}()

	vErr := &ValidationError{}
	if username == "" {
		vErr.add("username", "username is required")
	}
	if params.Password == "" {
		vErr.add("password", "password is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(params.Password)
	if err != nil {
		return
	}

	now := s.now()
	user = persistence.User{
		ID:           s.idGenerator(),
		Username:     username,
		PasswordHash: hash,
		Role:         string(RoleUser),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = ErrAlreadyExists
		}
		user = persistence.User{}
		return
	}

	return user, nil
}

// Login verifies credentials and issues a signed bearer token carrying the
// account's subject and role.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result LoginResult, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}
	if s.tokens == nil {
		err = fmt.Errorf("token service not configured")
		return
	}

	username := strings.TrimSpace(params.Username)
	logger := s.loggerWith(ctx, "Login", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	if username == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	var user persistence.User
	user, err = s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if err = s.verifyPassword(user.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	var signed string
	signed, err = s.tokens.GenerateToken(user.Username, user.Role)
	if err != nil {
		return
	}

	result = LoginResult{AccessToken: signed}
	return
}

// ValidateToken decodes and verifies a raw bearer token, returning its claim
// set. Any verification failure, including an unknown role value, surfaces as
// ErrUnauthenticated.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (claims ClaimSet, err error) {
	if s == nil || s.tokens == nil {
		err = fmt.Errorf("token service not configured")
		return
	}

	logger := s.loggerWith(ctx, "ValidateToken", "token_provided", strings.TrimSpace(tokenString) != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "token validation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("subject", claims.Subject).InfoContext(ctx, "token validated")
	}()

	trimmed := strings.TrimSpace(tokenString)
	if trimmed == "" {
		err = fmt.Errorf("%w: missing token", ErrUnauthenticated)
		return
	}

	decoded, verr := s.tokens.ValidateToken(trimmed)
	if verr != nil {
		if errors.Is(verr, token.ErrExpiredToken) {
			err = fmt.Errorf("%w: token expired", ErrUnauthenticated)
			return
		}
		err = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
		return
	}

	role, perr := ParseRole(decoded.Role)
	if perr != nil {
		err = fmt.Errorf("%w: %v", ErrUnauthenticated, perr)
		return
	}
	if decoded.Subject == "" {
		err = fmt.Errorf("%w: missing subject", ErrUnauthenticated)
		return
	}

	claims = ClaimSet{Subject: decoded.Subject, Role: role, ExpiresAt: decoded.ExpiresAt}
	return
}
