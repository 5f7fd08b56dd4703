package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/health"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
)

// MonitorHandler exposes the health monitoring endpoints
type MonitorHandler struct {
	monitor *health.Monitor
	store   store.Store
}

// NewMonitorHandler creates a monitor handler
func NewMonitorHandler(m *health.Monitor, s store.Store) *MonitorHandler {
	return &MonitorHandler{monitor: m, store: s}
}

// CheckShopHealth runs one health pass for a single tenant
func (h *MonitorHandler) CheckShopHealth(c echo.Context) error {
	log := logger.FromEcho(c)
	tenantID := c.Param("tenant_id")
	ctx := requestContext(c)

	// Reject unknown tenants up front; the checks themselves assume the shop exists
	if _, err := h.store.GetShop(ctx, tenantID); err != nil {
		if errors.Is(err, store.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		log.Error("Failed to resolve shop", zap.String("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve shop"})
	}

	report := h.monitor.CheckShop(ctx, tenantID)
	return c.JSON(http.StatusOK, report)
}

// RunHealthPass runs a health pass over every registered shop
func (h *MonitorHandler) RunHealthPass(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := requestContext(c)

	shops, err := h.store.ListShops(ctx)
	if err != nil {
		log.Error("Failed to list shops for health pass", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list shops"})
	}

	tenantIDs := make([]string, 0, len(shops))
	for _, s := range shops {
		if s.IsActive {
			tenantIDs = append(tenantIDs, s.TenantID)
		}
	}

	reports := h.monitor.CheckAllShops(ctx, tenantIDs)
	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}
