package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/alert"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
)

// AlertHandler exposes the alert history endpoints
type AlertHandler struct {
	dispatcher *alert.Dispatcher
}

// NewAlertHandler creates an alert handler
func NewAlertHandler(d *alert.Dispatcher) *AlertHandler {
	return &AlertHandler{dispatcher: d}
}

// ListAlerts returns the alert history for one tenant, newest first
func (h *AlertHandler) ListAlerts(c echo.Context) error {
	log := logger.FromEcho(c)
	tenantID := c.Param("tenant_id")

	alerts, err := h.dispatcher.List(requestContext(c), tenantID)
	if err != nil {
		log.Error("Failed to list alerts", zap.String("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list alerts"})
	}
	return c.JSON(http.StatusOK, alerts)
}

// AcknowledgeAlert marks one alert as seen
func (h *AlertHandler) AcknowledgeAlert(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid alert ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid alert ID"})
	}

	if err := h.dispatcher.Acknowledge(requestContext(c), uint(id)); err != nil {
		if errors.Is(err, store.ErrAlertNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "alert not found"})
		}
		log.Error("Failed to acknowledge alert", zap.Uint64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to acknowledge alert"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "alert acknowledged"})
}
