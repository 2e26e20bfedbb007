package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/venue-booking/internal/application"
	"github.com/example/venue-booking/internal/persistence"
)

type authService interface {
	Register(ctx context.Context, params application.RegisterParams) (persistence.User, error)
	Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error)
	ValidateToken(ctx context.Context, tokenString string) (application.ClaimSet, error)
}

// AuthHandler serves registration, login and token validation.
type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "username", req.Username)

	user, err := h.service.Register(r.Context(), application.RegisterParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Login", "username", req.Username)

	result, err := h.service.Login(r.Context(), application.LoginParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "login succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
	})
}

// Validate handles GET /auth/validate. It answers the reservation service's
// remote validation calls: 200 with the claim payload for a good token, 401
// with {"valid": false} otherwise.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token := bearerToken(r)
	logger := h.log(r.Context(), "Validate", "token_present", token != "")

	claims, err := h.service.ValidateToken(r.Context(), token)
	if err != nil {
		logger.ErrorContext(r.Context(), "token validation failed", "error", err, "error_kind", application.ErrorKind(err))
		if errors.Is(err, application.ErrUnauthenticated) {
			h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, validateResponse{Valid: false})
			return
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("subject", claims.Subject).InfoContext(r.Context(), "token validated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, validateResponse{
		Valid: true,
		Payload: &validatePayload{
			Subject: claims.Subject,
			Role:    string(claims.Role),
			Exp:     claims.ExpiresAt.Unix(),
		},
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type validatePayload struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	Exp     int64  `json:"exp"`
}

type validateResponse struct {
	Valid   bool             `json:"valid"`
	Payload *validatePayload `json:"payload,omitempty"`
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
	return ""
}
