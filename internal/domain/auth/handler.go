package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hotelbook/hotel-api/internal/domain/user"
	"github.com/hotelbook/hotel-api/internal/pkg/logger"
	"github.com/hotelbook/hotel-api/internal/pkg/password"
	"github.com/hotelbook/hotel-api/internal/pkg/response"
	"github.com/hotelbook/hotel-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	u, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserAlreadyExists):
			response.BadRequest(w, "Username or email already exists")
		case errors.Is(err, user.ErrAdminAlreadyExists):
			response.Forbidden(w, "An admin already exists. Only one admin is allowed.")
		case errors.Is(err, ErrInvalidDateOfBirth):
			response.ValidationError(w, map[string]string{"dob": "Invalid date. Expected YYYY-MM-DD"})
		case errors.Is(err, password.ErrTooLong):
			response.ValidationError(w, map[string]string{"password": "Password is too long"})
		default:
			logger.LogError(r.Context(), err, "register failed")
			response.InternalError(w)
		}
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    u,
	})
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		logger.LogError(r.Context(), err, "login failed")
		response.InternalError(w)
		return
	}

	response.OK(w, resp)
}
