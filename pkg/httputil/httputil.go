// Package httputil centralizes JSON encoding, decoding, and error envelopes
// so handlers stay thin and error responses stay consistent.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"smartbin/pkg/apperrors"
)

var validate = validator.New()

// Decode reads a JSON body into T and runs struct validation.
func Decode[T any](r *http.Request) (T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperrors.Wrap(apperrors.CodeValidation, "invalid request body", err)
	}
	if err := validate.Struct(req); err != nil {
		return req, apperrors.Wrap(apperrors.CodeValidation, "invalid request", err)
	}
	return req, nil
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	WriteJSON(w, apperrors.ToHTTPStatus(code), map[string]string{
		"error":             string(code),
		"error_description": err.Error(),
	})
}
