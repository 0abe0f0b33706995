package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dragnotes/logger"
	"dragnotes/middleware"
	"dragnotes/models"
	"dragnotes/service"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that field validation reports what is missing. A well-formed
// body with a value of the wrong type is a validation error on that field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &service.ValidationError{Fields: []service.FieldError{{
			Field:   typeErr.Field,
			Message: "Invalid value type",
		}}}
	}
	return fmt.Errorf("%w: %w", errInvalidJSON, err)
}

// identity returns the caller set by the auth guard. Routes that reach a
// handler without one are misconfigured; the request is refused.
func identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Str("uri", r.RequestURI).Msg("no identity in context")
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Authentication failed. Token not provided or invalid format."})
	}
	return id, ok
}
