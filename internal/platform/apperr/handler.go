package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// body is the JSON error envelope written to clients.
type body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPErrorHandler returns an Echo error handler that renders *Error values
// as {code, message} bodies. echo.HTTPError values (from Bind, routing, body
// limit) are translated to the same envelope; anything else becomes a 500
// INTERNAL_ERROR with the detail kept out of the response.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := body{Code: "INTERNAL_ERROR", Message: "Internal server error"}

		if ae := From(err); ae != nil {
			status = ae.Status
			resp = body{Code: ae.Code, Message: ae.Message}
			if status >= http.StatusInternalServerError {
				logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
			}
		} else if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			resp = body{Code: codeForStatus(he.Code), Message: messageOf(he)}
		} else {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_BODY"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "INSUFFICIENT_PERMISSIONS"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

func messageOf(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}
