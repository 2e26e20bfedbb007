package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/venue-booking/internal/application"
	"github.com/example/venue-booking/internal/persistence"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

type reservationService interface {
	Create(ctx context.Context, claims application.ClaimSet, input application.ReservationInput) (persistence.Reservation, error)
	Get(ctx context.Context, claims application.ClaimSet, id string) (persistence.Reservation, error)
	Cancel(ctx context.Context, claims application.ClaimSet, id string) (persistence.Reservation, error)
	List(ctx context.Context, claims application.ClaimSet, filter persistence.ReservationFilter) ([]persistence.Reservation, error)
	CheckAvailability(ctx context.Context, input application.ReservationInput) (bool, error)
}

// ReservationHandler serves the booking endpoints.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// wireField is a named wire value, so validation errors cite the field or
// query parameter that carried it.
type wireField struct {
	name  string
	value string
}

// parseInterval converts the wire format (calendar day plus wall-clock start
// and end) into a ReservationInput. Field issues are reported as a map so the
// handler can answer 400 without round-tripping through the service.
func parseInterval(venueID string, day, start, end wireField) (application.ReservationInput, map[string]string) {
	fieldErrors := make(map[string]string)

	if venueID == "" {
		fieldErrors["venue_id"] = "venue_id is required"
	}

	dayValue, err := time.Parse(dayLayout, day.value)
	if err != nil {
		fieldErrors[day.name] = day.name + " must be formatted YYYY-MM-DD"
	}

	startClock, err := time.Parse(timeLayout, start.value)
	if err != nil {
		fieldErrors[start.name] = start.name + " must be formatted HH:MM"
	}
	endClock, err := time.Parse(timeLayout, end.value)
	if err != nil {
		fieldErrors[end.name] = end.name + " must be formatted HH:MM"
	}

	if len(fieldErrors) > 0 {
		return application.ReservationInput{}, fieldErrors
	}

	return application.ReservationInput{
		VenueID: venueID,
		Day:     dayValue.Format(dayLayout),
		Start:   time.Date(dayValue.Year(), dayValue.Month(), dayValue.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC),
		End:     time.Date(dayValue.Year(), dayValue.Month(), dayValue.Day(), endClock.Hour(), endClock.Minute(), 0, 0, time.UTC),
	}, nil
}

// Create handles POST /reservations.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "venue_id", req.VenueID, "day", req.Day)

	input, fieldErrors := parseInterval(req.VenueID, wireField{"day", req.Day}, wireField{"start", req.Start}, wireField{"end", req.End})
	if fieldErrors != nil {
		logger.With("error_kind", "validation").ErrorContext(r.Context(), "reservation request rejected", "errors", fieldErrors)
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: "the request contains invalid fields",
			Errors:  fieldErrors,
		})
		return
	}

	reservation, err := h.service.Create(r.Context(), claims, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toReservationResponse(reservation))
}

// List handles GET /reservations with optional venue_id, day and subject filters.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	query := r.URL.Query()
	filter := persistence.ReservationFilter{
		Subject: query.Get("subject"),
		VenueID: query.Get("venue_id"),
		Day:     query.Get("day"),
	}

	reservations, err := h.service.List(r.Context(), claims, filter)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "reservation listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]reservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationResponse(reservation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// Get handles GET /reservations/{reservation_id}.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	id := chi.URLParam(r, "reservation_id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResvID)
		return
	}

	reservation, err := h.service.Get(r.Context(), claims, id)
	if err != nil {
		h.log(r.Context(), "Get", "reservation_id", id).ErrorContext(r.Context(), "reservation lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationResponse(reservation))
}

// Cancel handles POST /reservations/{reservation_id}/cancel and the DELETE
// alias on the reservation itself. The cancelled reservation is echoed back
// so callers can observe the final state.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	id := chi.URLParam(r, "reservation_id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResvID)
		return
	}

	logger := h.log(r.Context(), "Cancel", "reservation_id", id)

	reservation, err := h.service.Cancel(r.Context(), claims, id)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationResponse(reservation))
}

// queryField reads the first non-empty value among the named query
// parameters. When none are set, the reported name is the first one, so
// validation errors cite the documented parameter.
func queryField(query url.Values, names ...string) wireField {
	for _, name := range names {
		if value := query.Get(name); value != "" {
			return wireField{name: name, value: value}
		}
	}
	return wireField{name: names[0]}
}

// Availability handles GET /availability. The interval arrives as venue_id,
// date, start_time and end_time query parameters; day, start and end are
// accepted as aliases.
func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	day := queryField(query, "date", "day")
	start := queryField(query, "start_time", "start")
	end := queryField(query, "end_time", "end")

	logger := h.log(r.Context(), "Availability", "venue_id", query.Get("venue_id"), "date", day.value)

	input, fieldErrors := parseInterval(query.Get("venue_id"), day, start, end)
	if fieldErrors != nil {
		logger.With("error_kind", "validation").ErrorContext(r.Context(), "availability request rejected", "errors", fieldErrors)
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: "the request contains invalid fields",
			Errors:  fieldErrors,
		})
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), input)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability check failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{Available: available})
}

type reservationRequest struct {
	VenueID string `json:"venue_id"`
	Day     string `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type reservationResponse struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	VenueID   string `json:"venue_id"`
	Day       string `json:"day"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func toReservationResponse(reservation persistence.Reservation) reservationResponse {
	return reservationResponse{
		ID:        reservation.ID,
		Subject:   reservation.Subject,
		VenueID:   reservation.VenueID,
		Day:       reservation.Day,
		Start:     reservation.Start.UTC().Format(timeLayout),
		End:       reservation.End.UTC().Format(timeLayout),
		Status:    string(reservation.Status),
		CreatedAt: reservation.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: reservation.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
