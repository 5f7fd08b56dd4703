package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/provision"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
)

// ShopHandler exposes provisioning and shop management endpoints
type ShopHandler struct {
	orchestrator *provision.Orchestrator
	store        store.Store
}

// NewShopHandler creates a shop handler
func NewShopHandler(o *provision.Orchestrator, s store.Store) *ShopHandler {
	return &ShopHandler{orchestrator: o, store: s}
}

// SetupShop handles new shop provisioning
func (h *ShopHandler) SetupShop(c echo.Context) error {
	log := logger.FromEcho(c)

	var req provision.SetupRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse shop setup request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	result := h.orchestrator.SetupShop(requestContext(c), &req)
	if !result.Success {
		// Partial failures still return the full step report
		return c.JSON(http.StatusUnprocessableEntity, result)
	}
	return c.JSON(http.StatusCreated, result)
}

// BatchUpdateShops applies a list of independent partial updates
func (h *ShopHandler) BatchUpdateShops(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Updates []provision.UpdateRequest `json:"updates"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse batch update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "updates are required"})
	}

	results := h.orchestrator.BatchUpdateShops(requestContext(c), req.Updates)
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// GetShop retrieves one shop by tenant id
func (h *ShopHandler) GetShop(c echo.Context) error {
	log := logger.FromEcho(c)
	tenantID := c.Param("tenant_id")

	shop, err := h.store.GetShop(requestContext(c), tenantID)
	if err != nil {
		if errors.Is(err, store.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		log.Error("Failed to retrieve shop", zap.String("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve shop"})
	}
	return c.JSON(http.StatusOK, shop)
}

// ListShops retrieves all shops
func (h *ShopHandler) ListShops(c echo.Context) error {
	log := logger.FromEcho(c)

	shops, err := h.store.ListShops(requestContext(c))
	if err != nil {
		log.Error("Failed to retrieve shops", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve shops"})
	}
	return c.JSON(http.StatusOK, shops)
}
