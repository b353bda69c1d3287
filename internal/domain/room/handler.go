package room

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/pkg/logger"
	"github.com/hotelbook/hotel-api/internal/pkg/response"
	"github.com/hotelbook/hotel-api/internal/pkg/validator"
)

// Handler handles room HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates room handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /rooms
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.List(r.Context())
	if err != nil {
		logger.LogError(r.Context(), err, "list rooms failed")
		response.InternalError(w)
		return
	}
	response.OK(w, rooms)
}

// GetByID handles GET /rooms/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	room, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, room)
}

// Create handles POST /rooms (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	room, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Room added successfully",
		"room":    room,
	})
}

// Update handles PUT /rooms/{id} (admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	room, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OKWithMessage(w, "Room updated successfully", room)
}

// Delete handles DELETE /rooms/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OKWithMessage(w, "Room deleted successfully", nil)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		response.NotFound(w, "Room not found")
	case errors.Is(err, ErrRoomHasBookings):
		response.Conflict(w, "Room has bookings and cannot be deleted")
	default:
		logger.LogError(r.Context(), err, "room request failed")
		response.InternalError(w)
	}
}
