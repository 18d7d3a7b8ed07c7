package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bloodlink-api/internal/domain"
	"go.uber.org/zap"
)

// Envelope is the success response wrapper.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the failure response wrapper. Errors lists per-field
// validation failures and is never null.
type ErrorEnvelope struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Success    bool                `json:"success"`
	Errors     []domain.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data interface{}, msg string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, Envelope{StatusCode: status, Data: data, Message: msg, Success: status < 400})
}

func writeError(w http.ResponseWriter, status int, msg string, fields ...domain.FieldError) {
	if fields == nil {
		fields = []domain.FieldError{}
	}
	writeJSON(w, status, ErrorEnvelope{StatusCode: status, Message: msg, Errors: fields})
}

// httpError maps a service error to its status. Unclassified errors are
// logged and answered with a generic message.
func httpError(w http.ResponseWriter, log *zap.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrInternal):
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.Message(err))
		return
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeError(w, status, domain.Message(err), domain.Fields(err)...)
}

// decode reads a JSON body into v, answering 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
