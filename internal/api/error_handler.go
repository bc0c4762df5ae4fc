package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/insighthq/insight-api/internal/api/response"
	"github.com/insighthq/insight-api/internal/core/domain"
)

// NewHTTPErrorHandler returns the central translator from the error taxonomy
// to the response envelope. Handlers and middleware just return errors; this
// is the only place status codes and envelope codes are decided.
//
// In production, unexpected errors are logged with their cause but the
// client sees a generic message with no stack trace.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg, details := resolveError(err, log, c, production)
		_ = response.Error(c, status, code, msg, details)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, production bool) (int, string, string, any) {
	// Aggregated input validation → 400 with per-field details.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, response.CodeValidation, "Validation failed", ve.Fields
	}

	// Upstream failures keep their message; the kind picks the status.
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		switch ue.Kind {
		case domain.UpstreamRateLimited:
			return http.StatusTooManyRequests, response.CodeTooManyRequests, ue.Message, nil
		case domain.UpstreamUnauthorized:
			return http.StatusUnauthorized, response.CodeUnauthorized, ue.Message, nil
		case domain.UpstreamNotFound:
			return http.StatusNotFound, response.CodeNotFound, ue.Message, nil
		case domain.UpstreamMalformed:
			return http.StatusBadRequest, response.CodeValidation, ue.Message, nil
		}
	}

	// Known domain errors → deterministic codes.
	switch {
	case errors.Is(err, domain.ErrTokenMissing),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenUserGone),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.CodeUnauthorized, err.Error(), nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, response.CodeForbidden, "You do not have permission to access this resource", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, response.CodeNotFound, "User not found", nil
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, response.CodeConflict, "User already exists", nil
	}

	// Echo's own errors (bind failures, 404/405 from the router, limiter
	// rejections raised as HTTPErrors).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, codeForStatus(he.Code), fmt.Sprintf("%v", he.Message), nil
	}

	// Unexpected: log the real cause, hide it from the client in production.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	var details any
	if !production {
		details = map[string]string{"stack": string(debug.Stack())}
	}
	return http.StatusInternalServerError, response.CodeInternal, "An unexpected error occurred", details
}

// codeForStatus maps a bare HTTP status to its envelope code.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return response.CodeValidation
	case http.StatusUnauthorized:
		return response.CodeUnauthorized
	case http.StatusForbidden:
		return response.CodeForbidden
	case http.StatusNotFound:
		return response.CodeNotFound
	case http.StatusConflict:
		return response.CodeConflict
	case http.StatusTooManyRequests:
		return response.CodeTooManyRequests
	default:
		return response.CodeInternal
	}
}
