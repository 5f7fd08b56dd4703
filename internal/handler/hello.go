package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"shop-service/pkg/logger"
)

func Hello(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Hello from shop-service")
	return c.JSON(http.StatusOK, echo.Map{"message": "hello from shop-service"})
}

// HealthCheck handles the service liveness endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "shop-service",
	})
}

// requestContext returns the request context with the request-scoped logger
// attached, so components below the handler layer log with the request id.
func requestContext(c echo.Context) context.Context {
	return logger.WithContext(c.Request().Context(), logger.FromEcho(c))
}
