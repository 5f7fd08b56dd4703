package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shop-service/internal/backup"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
)

// BackupHandler exposes the backup endpoint
type BackupHandler struct {
	service *backup.Service
}

// NewBackupHandler creates a backup handler
func NewBackupHandler(s *backup.Service) *BackupHandler {
	return &BackupHandler{service: s}
}

// BackupShop creates and returns a full snapshot for one tenant
func (h *BackupHandler) BackupShop(c echo.Context) error {
	log := logger.FromEcho(c)
	tenantID := c.Param("tenant_id")

	archive, err := h.service.BackupShop(requestContext(c), tenantID)
	if err != nil {
		if errors.Is(err, store.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		log.Error("Backup failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "backup failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"filename":  archive.Filename,
		"size":      archive.Size,
		"timestamp": archive.Timestamp,
		"data":      json.RawMessage(archive.Data),
	})
}
