package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/finledger/finledger-backend/internal/domain"
)

// SuccessEnvelope wraps every successful response
type SuccessEnvelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorEnvelope wraps every error response
type ErrorEnvelope struct {
	Error            string              `json:"error"`
	Message          string              `json:"message"`
	Path             string              `json:"path"`
	Timestamp        time.Time           `json:"timestamp"`
	ValidationErrors []domain.FieldError `json:"validationErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, SuccessEnvelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// writeError maps a domain error to its HTTP status and error envelope.
// Unexpected errors are logged and reported as INTERNAL_ERROR without detail.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	envelope := ErrorEnvelope{
		Path:      r.URL.Path,
		Timestamp: time.Now().UTC(),
	}

	var status int
	switch {
	case domain.IsValidation(err):
		ve := asValidation(err)
		status = http.StatusBadRequest
		envelope.Error = ve.Code
		envelope.Message = ve.Message
		envelope.ValidationErrors = ve.Fields
	case domain.IsNotFound(err):
		status = http.StatusNotFound
		envelope.Error = "NOT_FOUND"
		envelope.Message = err.Error()
	case domain.IsConflict(err):
		status = http.StatusConflict
		envelope.Error = "CONFLICT"
		envelope.Message = err.Error()
	default:
		status = http.StatusInternalServerError
		envelope.Error = "INTERNAL_ERROR"
		envelope.Message = "an unexpected error occurred"
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	writeJSON(w, status, envelope)
}

func asValidation(err error) *domain.ValidationError {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &domain.ValidationError{Code: domain.CodeValidation, Message: err.Error()}
}
