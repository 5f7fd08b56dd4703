package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/schema"
	"shop-service/pkg/logger"
)

// AdminHandler exposes database administration endpoints
type AdminHandler struct {
	registry *schema.Registry
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(r *schema.Registry) *AdminHandler {
	return &AdminHandler{registry: r}
}

// InitDatabase ensures every declared collection exists and reports the
// per-collection outcome. A failing collection is reported, not fatal.
func (h *AdminHandler) InitDatabase(c echo.Context) error {
	log := logger.FromEcho(c)

	results := h.registry.InitializeDatabase(requestContext(c))

	failed := 0
	for _, r := range results {
		if r.Status == schema.InitStatusError {
			failed++
		}
	}
	if failed > 0 {
		log.Warn("database initialization completed with failures", zap.Int("failed", failed))
	} else {
		log.Info("database initialization completed")
	}

	return c.JSON(http.StatusOK, echo.Map{"results": results})
}
