package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/middleware"
	"github.com/hotelbook/hotel-api/internal/pkg/logger"
	"github.com/hotelbook/hotel-api/internal/pkg/response"
	"github.com/hotelbook/hotel-api/internal/pkg/validator"
)

const (
	msgUnavailable       = "Room is not available for the selected dates/times"
	msgNoLongerAvailable = "Room is no longer available for these dates"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func decodeStay(w http.ResponseWriter, r *http.Request) (*CreateBookingRequest, bool) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return nil, false
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return nil, false
	}
	return &req, true
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStay(w, r)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	details, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}

	response.Created(w, details)
}

// Calculate handles POST /bookings/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStay(w, r)
	if !ok {
		return
	}

	quote, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}

	response.OK(w, quote)
}

// ListMine handles GET /bookings/user
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}
	response.OK(w, bookings)
}

// ListAll handles GET /bookings/all (admin)
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}
	response.OK(w, bookings)
}

// Approve handles PUT /bookings/approve/{id} (admin)
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	details, err := h.service.Approve(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, msgNoLongerAvailable)
		return
	}
	response.OKWithMessage(w, "Booking approved", details)
}

// Reject handles PUT /bookings/reject/{id} (admin)
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	details, err := h.service.Reject(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}
	response.OKWithMessage(w, "Booking rejected", details)
}

// Cancel handles PUT /bookings/cancel/{id}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	details, err := h.service.Cancel(ctx, id, middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}
	response.OKWithMessage(w, "Booking cancelled", details)
}

// Delete handles DELETE /bookings/delete/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	details, err := h.service.Delete(ctx, id, middleware.GetUserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		h.writeError(w, r, err, msgUnavailable)
		return
	}
	response.OKWithMessage(w, "Booking deleted successfully", details)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, unavailableMsg string) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		response.RoomUnavailable(w, unavailableMsg, conflict.Conflicts)
	case errors.Is(err, ErrRoomUnavailable):
		response.RoomUnavailable(w, unavailableMsg, nil)
	case errors.Is(err, ErrInvalidDateFormat):
		response.Error(w, http.StatusBadRequest, "INVALID_DATE", "Invalid date format. Expected YYYY-MM-DD")
	case errors.Is(err, ErrInvalidTimeFormat):
		response.Error(w, http.StatusBadRequest, "INVALID_TIME", "Invalid time format. Expected HH:MM")
	case errors.Is(err, ErrInvalidRange):
		response.Error(w, http.StatusBadRequest, "INVALID_RANGE", "Check-out date/time must be after check-in date/time")
	case errors.Is(err, ErrPastBooking):
		response.Error(w, http.StatusBadRequest, "PAST_BOOKING", "Cannot book in the past")
	case errors.Is(err, ErrNotPending):
		response.Error(w, http.StatusBadRequest, "NOT_PENDING", "Booking is not in a pending state")
	case errors.Is(err, ErrActiveBooking):
		response.Error(w, http.StatusBadRequest, "ACTIVE_BOOKING", "Cannot delete an active or completed booking")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, "Access denied. You can only manage your own bookings.")
	case errors.Is(err, ErrRoomNotFound):
		response.NotFound(w, "Room not found")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	default:
		logger.LogError(r.Context(), err, "booking request failed")
		response.InternalError(w)
	}
}
