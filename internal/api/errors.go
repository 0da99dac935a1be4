package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"informatica-search/internal/logging"
	"informatica-search/internal/services"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError is a malformed or incomplete request body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// statusFor maps an error to the HTTP status returned to the caller.
func statusFor(err error) int {
	var validation *ValidationError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoXMLFiles):
		return http.StatusNotFound
	case errors.As(err, &httpErr):
		return httpErr.Code
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	return err.Error()
}

// NewHTTPErrorHandler converts handler errors into {"error": message}
// responses. Server-side failures are logged with the route.
func NewHTTPErrorHandler(logger *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorResponse{Error: messageFor(err)})
		}
		if err != nil {
			logger.Error("Failed to write error response", "error", err)
		}
	}
}
