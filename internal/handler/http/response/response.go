package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is written for every failed request. Client errors carry a
// machine readable code; unexpected failures attach the underlying error text.
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// MessageBody pairs a confirmation message with one named payload, e.g.
// {"message": "Check-in successful", "attendance": {...}}.
type MessageBody map[string]interface{}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fallback := ErrorBody{
			Code:    "ENCODING_ERROR",
			Message: "Failed to encode response",
		}
		_ = json.NewEncoder(w).Encode(fallback)
	}
}

// Success responses
func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

// WithMessage writes {"message": message, key: data} with the given status.
func WithMessage(w http.ResponseWriter, statusCode int, message string, key string, data interface{}) {
	body := MessageBody{"message": message}
	if key != "" {
		body[key] = data
	}
	writeJSON(w, statusCode, body)
}

// Error responses
func BadRequest(w http.ResponseWriter, code string, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	BadRequest(w, "VALIDATION_ERROR", "Validation failed", details)
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, ErrorBody{
		Code:    "UNAUTHORIZED",
		Message: message,
	})
}

func Forbidden(w http.ResponseWriter, code string, message string) {
	writeJSON(w, http.StatusForbidden, ErrorBody{
		Code:    code,
		Message: message,
	})
}

func NotFound(w http.ResponseWriter, code string, message string) {
	writeJSON(w, http.StatusNotFound, ErrorBody{
		Code:    code,
		Message: message,
	})
}

// InternalServerError is the only response that exposes the raw error text.
func InternalServerError(w http.ResponseWriter, message string, err error) {
	body := ErrorBody{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
