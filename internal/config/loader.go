package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig captures environment driven configuration for the auth service.
type AuthConfig struct {
	HTTPPort    int
	SQLiteDSN   string
	TokenSecret string
	TokenTTL    time.Duration
}

// ReservationConfig captures environment driven configuration for the
// reservation service.
type ReservationConfig struct {
	HTTPPort    int
	SQLiteDSN   string
	AuthBaseURL string
	AuthTimeout time.Duration
}

// LoadAuth parses the auth service configuration from the process
// environment. Optional fields fall back to defaults; AUTH_TOKEN_SECRET is
// required.
func LoadAuth() (AuthConfig, error) {
	cfg := AuthConfig{
		HTTPPort:  8081,
		SQLiteDSN: "file:auth.db?_foreign_keys=on",
		TokenTTL:  time.Hour,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if port, ok, err := intEnv("AUTH_HTTP_PORT"); err != nil {
		invalid = append(invalid, "AUTH_HTTP_PORT")
	} else if ok {
		cfg.HTTPPort = port
	}

	if dsn := strings.TrimSpace(os.Getenv("AUTH_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("AUTH_TOKEN_SECRET")); secret == "" {
		missing = append(missing, "AUTH_TOKEN_SECRET")
	} else {
		cfg.TokenSecret = secret
	}

	if ttl, ok, err := durationEnv("AUTH_TOKEN_TTL"); err != nil {
		invalid = append(invalid, "AUTH_TOKEN_TTL")
	} else if ok {
		cfg.TokenTTL = ttl
	}

	if err := report(missing, invalid); err != nil {
		return AuthConfig{}, err
	}
	return cfg, nil
}

// LoadReservation parses the reservation service configuration from the
// process environment. RESERVATION_AUTH_BASE_URL is required; it names the
// auth service used for remote token validation.
func LoadReservation() (ReservationConfig, error) {
	cfg := ReservationConfig{
		HTTPPort:    8080,
		SQLiteDSN:   "file:reservations.db?_foreign_keys=on",
		AuthTimeout: 5 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if port, ok, err := intEnv("RESERVATION_HTTP_PORT"); err != nil {
		invalid = append(invalid, "RESERVATION_HTTP_PORT")
	} else if ok {
		cfg.HTTPPort = port
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVATION_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if baseURL := strings.TrimSpace(os.Getenv("RESERVATION_AUTH_BASE_URL")); baseURL == "" {
		missing = append(missing, "RESERVATION_AUTH_BASE_URL")
	} else {
		cfg.AuthBaseURL = baseURL
	}

	if timeout, ok, err := durationEnv("RESERVATION_AUTH_TIMEOUT"); err != nil {
		invalid = append(invalid, "RESERVATION_AUTH_TIMEOUT")
	} else if ok {
		cfg.AuthTimeout = timeout
	}

	if err := report(missing, invalid); err != nil {
		return ReservationConfig{}, err
	}
	return cfg, nil
}

func intEnv(key string) (int, bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false, fmt.Errorf("invalid value for %s", key)
	}
	return parsed, true, nil
}

func durationEnv(key string) (time.Duration, bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return 0, false, fmt.Errorf("invalid value for %s", key)
	}
	return parsed, true, nil
}

func report(missing, invalid []string) error {
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}
	return nil
}
