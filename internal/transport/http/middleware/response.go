package middleware

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Success    bool          `json:"success"`
	Errors     []interface{} `json:"errors"`
}

// writeJSONError writes the error envelope with the correct Content-Type.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{StatusCode: status, Message: msg, Errors: []interface{}{}})
}
