package application

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a caller can hold. Raw role strings from
// tokens are parsed at the boundary; unknown values are rejected early.
type Role string

const (
	// RoleUser may create and manage its own reservations.
	RoleUser Role = "USER"
	// RoleAdmin may manage venues and any reservation.
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a raw role string into a Role, rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// ClaimSet is a validated identity assertion: who the caller is, what role
// they hold, and when the assertion stops being valid. Immutable once issued.
type ClaimSet struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the claims carry the ADMIN role.
func (c ClaimSet) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// RegisterParams captures the data required to create an account.
type RegisterParams struct {
	Username string
	Password string
}

// LoginParams captures the data required to authenticate.
type LoginParams struct {
	Username string
	Password string
}

// LoginResult carries the signed bearer token issued on successful login.
type LoginResult struct {
	AccessToken string
}

// VenueInput captures caller provided venue fields.
type VenueInput struct {
	Name     string
	Location string
	Capacity int
}

// VenuePatch captures a partial venue update; nil fields are left unchanged.
type VenuePatch struct {
	Name     *string
	Location *string
	Capacity *int
}

// ReservationInput captures a booking request for a venue. Start and End are
// full timestamps on the calendar day named by Day (formatted YYYY-MM-DD);
// the interval is half-open, so End is excluded.
type ReservationInput struct {
	VenueID string
	Day     string
	Start   time.Time
	End     time.Time
}
