package config

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware installs the global middleware and the JSON error handler.
func SetupMiddleware(e *echo.Echo, requestLogger echo.MiddlewareFunc, logger *zap.Logger) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.HTTPErrorHandler = ErrorHandler(logger)
}

// ErrorHandler renders every error as {"error": "<message>"}.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else if he.Message != nil {
				msg = http.StatusText(code)
			}
		} else {
			logger.Error("Unhandled error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, echo.Map{"error": msg})
		}
		if respErr != nil {
			logger.Error("Failed to write error response", zap.Error(respErr))
		}
	}
}
