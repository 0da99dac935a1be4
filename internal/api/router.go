package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"informatica-search/internal/logging"
)

// ServiceName identifies this service in traces.
const ServiceName = "informatica-search"

// NewRouter builds the echo instance with middleware, validation, error
// mapping and every route mounted under prefix.
func NewRouter(h *Handler, prefix string, logger *logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(ServiceName))

	RegisterHandlers(e.Group(prefix), h)
	return e
}
