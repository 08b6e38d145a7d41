// Package httputil holds the JSON plumbing shared by the HTTP adapters.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bnema/stevedore/internal/adapters/dto"
	"github.com/bnema/stevedore/internal/domain"
)

// MaxRequestSize caps request bodies accepted by DecodeJSON.
const MaxRequestSize = 1 << 20

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError writes an {"error": message} body.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, dto.ErrorResponse{Error: message})
}

// DecodeJSON reads a single JSON object from the request body into dst.
// Content-Type is not checked: the console posts some bodies without one.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestSize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.NewValidationError("body", "request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("body", "request body is required")
		default:
			return domain.NewValidationError("body", "invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return domain.NewValidationError("body", "request body must contain a single JSON object")
	}
	return nil
}

// ErrorStatus maps an error to its HTTP status and the message safe to return.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrEngine):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, domain.ErrParse):
		return http.StatusInternalServerError, domain.ErrComposeInvalid.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// WriteDomainError writes err with the status ErrorStatus assigns it.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, message := ErrorStatus(err)
	WriteError(w, status, message)
}
