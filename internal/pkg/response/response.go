// Package response writes the JSON envelope every hotel API endpoint answers with:
// {"success", "message", "data", "error"}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Response is the envelope. Failed booking writes may carry both Error and
// Data, the latter listing the confirmed bookings that blocked the request.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo is a machine readable code (ROOM_UNAVAILABLE, NOT_PENDING, ...)
// plus a message meant for guests and admins. Details maps request fields to
// validation messages.
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// conflictPayload is the data of a ROOM_UNAVAILABLE error
type conflictPayload struct {
	Conflicts interface{} `json:"conflicts"`
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warn().Err(err).Int("status", status).Msg("Failed to encode response")
	}
}

// JSON writes data; success follows the status class
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// OKWithMessage is used by state changes (approve, cancel, delete) that
// report what happened alongside the affected booking, room or profile
func OKWithMessage(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error writes a failed envelope with no data
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}

// ErrorWithDetails adds per-field messages to a failed envelope
func ErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	write(w, status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, Details: details},
	})
}

// ErrorWithData writes a failed envelope that still carries a payload
func ErrorWithData(w http.ResponseWriter, status int, code, message string, data interface{}) {
	write(w, status, Response{
		Success: false,
		Data:    data,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}

// RoomUnavailable answers a booking create or approve that overlaps a
// confirmed stay. conflicts is omitted when the blocking bookings are unknown.
func RoomUnavailable(w http.ResponseWriter, message string, conflicts interface{}) {
	if conflicts == nil {
		Error(w, http.StatusBadRequest, "ROOM_UNAVAILABLE", message)
		return
	}
	ErrorWithData(w, http.StatusBadRequest, "ROOM_UNAVAILABLE", message, conflictPayload{Conflicts: conflicts})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized covers a missing, malformed or expired bearer token
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden covers admin-only routes and bookings owned by someone else
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

// Conflict is used for duplicate accounts and rooms that still have bookings
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}

// ValidationError answers a request body rejected by the validator; the
// hotel API keeps these at 400 like every other client error
func ValidationError(w http.ResponseWriter, details map[string]string) {
	ErrorWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
}

// InternalError hides the cause; callers log it first
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}
