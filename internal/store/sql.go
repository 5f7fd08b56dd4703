package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"shop-service/internal/model"
	"shop-service/prometheus"
)

// SQLStore implements Store on top of gorm/postgres
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store backed by the given database handle
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// ExecDDL executes a raw DDL statement. Satisfies schema.DDLExecutor.
func (s *SQLStore) ExecDDL(ctx context.Context, stmt string) error {
	return s.db.WithContext(ctx).Exec(stmt).Error
}

const pgUniqueViolation = "23505"

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrShopNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("unique constraint %q: %w", pgErr.ConstraintName, gorm.ErrDuplicatedKey)
	}
	return err
}

func (s *SQLStore) CreateShop(ctx context.Context, shop *model.Shop) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := translate(s.db.WithContext(ctx).Create(shop).Error)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateShop, shop.TenantID)
	}
	return err
}

func (s *SQLStore) GetShop(ctx context.Context, tenantID string) (*model.Shop, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var shop model.Shop
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&shop).Error; err != nil {
		return nil, translate(err)
	}
	return &shop, nil
}

func (s *SQLStore) ListShops(ctx context.Context) ([]model.Shop, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var shops []model.Shop
	if err := s.db.WithContext(ctx).Order("tenant_id").Find(&shops).Error; err != nil {
		return nil, translate(err)
	}
	return shops, nil
}

func (s *SQLStore) UpdateShop(ctx context.Context, tenantID string, update *model.ShopUpdate) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	fields := update.Fields()
	if len(fields) == 0 {
		_, err := s.GetShop(ctx, tenantID)
		return err
	}
	result := s.db.WithContext(ctx).Model(&model.Shop{}).Where("tenant_id = ?", tenantID).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrShopNotFound, tenantID)
	}
	return nil
}

// DeleteShop removes a shop and all dependent rows. Child tables cascade on
// the tenant_id foreign key; settings carry no FK and are cleaned explicitly.
func (s *SQLStore) DeleteShop(ctx context.Context, tenantID string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&model.Setting{}).Error; err != nil {
			return translate(err)
		}
		result := tx.Where("tenant_id = ?", tenantID).Delete(&model.Shop{})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrShopNotFound, tenantID)
		}
		return nil
	})
}

func (s *SQLStore) CreateDishes(ctx context.Context, dishes []model.Dish) error {
	if len(dishes) == 0 {
		return nil
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(&dishes).Error)
}

func (s *SQLStore) ListDishes(ctx context.Context, tenantID string) ([]model.Dish, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var dishes []model.Dish
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("sort_order").Find(&dishes).Error; err != nil {
		return nil, translate(err)
	}
	return dishes, nil
}

func (s *SQLStore) CreateRecommendations(ctx context.Context, recs []model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := translate(s.db.WithContext(ctx).Create(&recs).Error)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRecommendation
	}
	return err
}

func (s *SQLStore) CreateSettings(ctx context.Context, settings []model.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(&settings).Error)
}

func (s *SQLStore) ListSettings(ctx context.Context, tenantID string) ([]model.Setting, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var settings []model.Setting
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("setting_key").Find(&settings).Error; err != nil {
		return nil, translate(err)
	}
	return settings, nil
}

func (s *SQLStore) CreateMonitoringConfig(ctx context.Context, cfg *model.MonitoringConfig) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(cfg).Error)
}

func (s *SQLStore) GetMonitoringConfig(ctx context.Context, tenantID string) (*model.MonitoringConfig, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var cfg model.MonitoringConfig
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, tenantID)
		}
		return nil, translate(err)
	}
	return &cfg, nil
}

func (s *SQLStore) CreateAlert(ctx context.Context, alert *model.Alert) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translate(s.db.WithContext(ctx).Create(alert).Error)
}

func (s *SQLStore) ListAlerts(ctx context.Context, tenantID string) ([]model.Alert, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var alerts []model.Alert
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, translate(err)
	}
	return alerts, nil
}

func (s *SQLStore) AcknowledgeAlert(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).
		Updates(map[string]interface{}{"acknowledged": true, "acknowledged_at": &now})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrAlertNotFound, id)
	}
	return nil
}

func (s *SQLStore) PendingOrders(ctx context.Context, tenantID string) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.OrderStatusNew).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (s *SQLStore) RecentOrders(ctx context.Context, tenantID string, limit int) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
