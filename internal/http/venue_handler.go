package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/venue-booking/internal/application"
	"github.com/example/venue-booking/internal/persistence"
)

type venueService interface {
	CreateVenue(ctx context.Context, claims application.ClaimSet, input application.VenueInput) (persistence.Venue, error)
	GetVenue(ctx context.Context, id string) (persistence.Venue, error)
	ListVenues(ctx context.Context) ([]persistence.Venue, error)
	UpdateVenue(ctx context.Context, claims application.ClaimSet, id string, patch application.VenuePatch) (persistence.Venue, error)
	DeleteVenue(ctx context.Context, claims application.ClaimSet, id string) error
}

// VenueHandler serves the venue catalog endpoints.
type VenueHandler struct {
	service   venueService
	responder responder
	logger    *slog.Logger
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(service venueService, logger *slog.Logger) *VenueHandler {
	base := defaultLogger(logger)
	return &VenueHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *VenueHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "VenueHandler", operation, attrs...)
}

// Create handles POST /venues.
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode venue request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "name", req.Name)

	venue, err := h.service.CreateVenue(r.Context(), claims, application.VenueInput{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "venue creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("venue_id", venue.ID).InfoContext(r.Context(), "venue created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toVenueResponse(venue))
}

// List handles GET /venues.
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	venues, err := h.service.ListVenues(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "venue listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]venueResponse, 0, len(venues))
	for _, venue := range venues {
		out = append(out, toVenueResponse(venue))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Get handles GET /venues/{venue_id}.
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "venue_id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingVenueID)
		return
	}

	venue, err := h.service.GetVenue(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "Get", "venue_id", id).ErrorContext(r.Context(), "venue lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toVenueResponse(venue))
}

// Update handles PATCH /venues/{venue_id}.
func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	id := chi.URLParam(r, "venue_id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingVenueID)
		return
	}

	var req venuePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode venue patch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "venue_id", id)

	venue, err := h.service.UpdateVenue(r.Context(), claims, id, application.VenuePatch{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "venue update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "venue updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toVenueResponse(venue))
}

// Delete handles DELETE /venues/{venue_id}.
func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	id := chi.URLParam(r, "venue_id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingVenueID)
		return
	}

	logger := h.log(r.Context(), "Delete", "venue_id", id)

	if err := h.service.DeleteVenue(r.Context(), claims, id); err != nil {
		logger.ErrorContext(r.Context(), "venue deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "venue deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type venueRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

type venuePatchRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Capacity *int    `json:"capacity"`
}

type venueResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	Capacity  int    `json:"capacity"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toVenueResponse(venue persistence.Venue) venueResponse {
	return venueResponse{
		ID:        venue.ID,
		Name:      venue.Name,
		Location:  venue.Location,
		Capacity:  venue.Capacity,
		CreatedAt: venue.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: venue.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
