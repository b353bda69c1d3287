package user

import (
	"errors"
	"net/http"

	"github.com/hotelbook/hotel-api/internal/middleware"
	"github.com/hotelbook/hotel-api/internal/pkg/logger"
	"github.com/hotelbook/hotel-api/internal/pkg/response"
	"github.com/hotelbook/hotel-api/internal/pkg/storage"
)

// multipart overhead on top of the picture itself
const maxUploadBody = MaxPictureSize + 1<<20

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetProfile handles GET /users/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, profile)
}

// UploadProfilePicture handles POST /users/profile-picture
// Multipart form: profilePicture
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	file, _, err := r.FormFile("profilePicture")
	if err != nil {
		response.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	url, err := h.service.UploadProfilePicture(r.Context(), middleware.GetUserID(r.Context()), file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OKWithMessage(w, "Profile picture updated", map[string]string{
		"profilePictureUrl": url,
	})
}

// RemoveProfilePicture handles DELETE /users/profile-picture
func (h *Handler) RemoveProfilePicture(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveProfilePicture(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OKWithMessage(w, "Profile picture removed", nil)
}

// DeleteAccount handles DELETE /users/account
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OKWithMessage(w, "Account deleted successfully", nil)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrNoProfilePicture):
		response.BadRequest(w, "No profile picture to remove")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(w, "File exceeds maximum size of 5MB")
	case errors.Is(err, storage.ErrInvalidMimeType), errors.Is(err, ErrInvalidImage):
		response.BadRequest(w, "Only JPEG, PNG, WebP and GIF images are allowed")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "File is empty")
	default:
		logger.LogError(r.Context(), err, "user request failed")
		response.InternalError(w)
	}
}
