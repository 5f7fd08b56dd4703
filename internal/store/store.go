package store

import (
	"context"
	"errors"

	"shop-service/internal/model"
)

// Sentinel errors translated from the backing store
var (
	ErrShopNotFound            = errors.New("shop not found")
	ErrConfigNotFound          = errors.New("monitoring config not found")
	ErrAlertNotFound           = errors.New("alert not found")
	ErrDuplicateShop           = errors.New("shop already exists")
	ErrDuplicateRecommendation = errors.New("recommendation already exists for this dish")
	ErrStoreUnavailable        = errors.New("backing store unavailable")
)

// Store is the data access surface used by the orchestrator, the health
// monitor, the alert dispatcher and the backup service. Implementations hold
// no business logic.
type Store interface {
	// Shops
	CreateShop(ctx context.Context, shop *model.Shop) error
	GetShop(ctx context.Context, tenantID string) (*model.Shop, error)
	ListShops(ctx context.Context) ([]model.Shop, error)
	UpdateShop(ctx context.Context, tenantID string, update *model.ShopUpdate) error
	DeleteShop(ctx context.Context, tenantID string) error

	// Dishes and recommendations
	CreateDishes(ctx context.Context, dishes []model.Dish) error
	ListDishes(ctx context.Context, tenantID string) ([]model.Dish, error)
	CreateRecommendations(ctx context.Context, recs []model.Recommendation) error

	// Settings
	CreateSettings(ctx context.Context, settings []model.Setting) error
	ListSettings(ctx context.Context, tenantID string) ([]model.Setting, error)

	// Monitoring configuration
	CreateMonitoringConfig(ctx context.Context, cfg *model.MonitoringConfig) error
	GetMonitoringConfig(ctx context.Context, tenantID string) (*model.MonitoringConfig, error)

	// Alerts
	CreateAlert(ctx context.Context, alert *model.Alert) error
	ListAlerts(ctx context.Context, tenantID string) ([]model.Alert, error)
	AcknowledgeAlert(ctx context.Context, id uint) error

	// Orders (read-only: the order stream is written elsewhere)
	PendingOrders(ctx context.Context, tenantID string) ([]model.Order, error)
	RecentOrders(ctx context.Context, tenantID string, limit int) ([]model.Order, error)

	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error
}
