package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes upstream gym API errors through with their status and message.
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

	// Upstream gym API rejections carry their own status and message.
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		msg := ue.Message
		if msg == "" {
			msg = http.StatusText(ue.StatusCode)
		}
		// 5xx upstream means the collaborator broke, not this service.
		if ue.StatusCode >= 500 {
			log.Error().Err(err).Str("path", c.Path()).Msg("gym api failure")
			return http.StatusBadGateway, "gym service unavailable"
		}
		return ue.StatusCode, msg
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrEmptyToken), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "could not verify session, please log in again"
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusUnauthorized, "not logged in"
	case errors.Is(err, domain.ErrProfileIncomplete):
		return http.StatusBadGateway, "gym service returned an incomplete profile"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
