// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/steritrack/pkg/httpx"
	"github.com/ghuser/steritrack/services/tracking/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict // 409
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, domain.ErrPreconditionNotMet):
		return http.StatusPreconditionFailed // 412
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden // 403
	default:
		return http.StatusInternalServerError // 500
	}
}
