package handlers

import (
	"errors"
	"net/http"

	"dragnotes/logger"
	"dragnotes/service"
)

// errInvalidJSON is returned by decodeJSON for bodies that are not valid
// JSON for the target type.
var errInvalidJSON = errors.New("invalid JSON was passed")

var errorStatusMap = map[error]int{
	errInvalidJSON:            http.StatusBadRequest,
	service.ErrValidation:     http.StatusUnprocessableEntity,
	service.ErrConflict:       http.StatusUnprocessableEntity,
	service.ErrAuthentication: http.StatusUnauthorized,
	service.ErrNotFound:       http.StatusNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// failure holds the caller-facing messages of one endpoint.
type failure struct {
	notFound string
	internal string
}

type errorResponse struct {
	Message string               `json:"message"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

// writeError answers with the status mapped from err. Unexpected errors are
// logged with full detail and reported with f.internal only.
func writeError(w http.ResponseWriter, r *http.Request, err error, f failure) {
	status := statusFromError(err)
	resp := errorResponse{}

	switch {
	case errors.Is(err, errInvalidJSON):
		resp.Message = "Invalid JSON was passed"
	case errors.Is(err, service.ErrValidation):
		resp.Message = "Validation failed"
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			resp.Errors = verr.Fields
		}
	case errors.Is(err, service.ErrConflict):
		resp.Message = "Email already exists."
	case errors.Is(err, service.ErrAuthentication):
		resp.Message = "Authentication failed. Invalid email or password."
	case errors.Is(err, service.ErrNotFound):
		resp.Message = f.notFound
	default:
		logger.FromRequest(r).Error().Err(err).Msg(f.internal)
		resp.Message = f.internal
	}

	writeJSON(w, status, resp)
}
