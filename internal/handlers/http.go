package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log"
	"net/http"

	"github.com/mpreston/teamsync/internal/errors"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnknownAction    = "UNKNOWN_ACTION"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeUnavailable      = "STORE_UNAVAILABLE"
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error with custom message and code
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// MethodNotAllowed creates a 405 error with custom message
func MethodNotAllowed(message string) *APIError {
	return &APIError{Status: http.StatusMethodNotAllowed, Code: ErrCodeMethodNotAllowed, Message: message}
}

// InternalError creates a 500 error, logs the original error
func InternalError(err error) *APIError {
	log.Printf("Internal error: %v", err)
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*APIError); ok {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	apiErr := ToAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSONLenient decodes a request body into the target, treating a
// missing or malformed body as an empty object. The action protocol does
// its own precondition checks, so the transport stays permissive.
func decodeJSONLenient(r *http.Request, target interface{}) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		return
	}
	if err := json.Unmarshal(body, target); err != nil {
		// Malformed bodies are treated as {}
		return
	}
}

// ToAPIError converts application errors to appropriate API errors
func ToAPIError(err error) *APIError {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case errors.ErrNotFound:
			return NotFound(appErr.Message)
		case errors.ErrRejected:
			return &APIError{Status: http.StatusBadRequest, Code: ErrCodeUnknownAction, Message: appErr.Message}
		case errors.ErrValidation:
			return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: appErr.Message}
		case errors.ErrUnavailable:
			return &APIError{Status: http.StatusServiceUnavailable, Code: ErrCodeUnavailable, Message: appErr.Message}
		default:
			return InternalError(err)
		}
	}
	return InternalError(err)
}
