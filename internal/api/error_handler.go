package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrStepLocked):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUnknownStep),
		errors.Is(err, domain.ErrUnknownDocumentSlot),
		errors.Is(err, domain.ErrPickupIndexOutOfRange),
		errors.Is(err, domain.ErrDraftNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusUnprocessableEntity, "only PDF, JPEG, and PNG files are accepted"
	case errors.Is(err, domain.ErrIncompleteRegistration):
		return http.StatusUnprocessableEntity, "Please complete all sections before submitting."
	case errors.Is(err, domain.ErrLastPickupAddress),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrSubmitInFlight),
		errors.Is(err, domain.ErrVendorNotLinked):
		return http.StatusConflict, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
