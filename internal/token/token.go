package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token cannot be parsed or fails validation.
	ErrInvalidToken = errors.New("token: invalid token")
	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token: token expired")
	// ErrInvalidSignature is returned when the signature or signing method is wrong.
	ErrInvalidSignature = errors.New("token: invalid signature")
)

// Claims is the decoded identity assertion carried by a bearer token.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Service issues and verifies signed bearer tokens.
type Service interface {
	GenerateToken(subject, role string) (string, error)
	ValidateToken(tokenString string) (Claims, error)
}

type wireClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service signing HS256 tokens with the given
// secret and time-to-live. A nil now falls back to time.Now.
func NewService(secret string, ttl time.Duration, now func() time.Time) Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &service{secret: []byte(secret), ttl: ttl, now: now}
}

// GenerateToken creates a signed token carrying the subject and role.
func (s *service) GenerateToken(subject, role string) (string, error) {
	now := s.now()
	claims := &wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken verifies the signature and expiry and returns the claims.
func (s *service) ValidateToken(tokenString string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &wireClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrInvalidSignature
		}
		return Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*wireClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	decoded := Claims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}

	return decoded, nil
}
