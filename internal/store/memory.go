package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shop-service/internal/model"
)

// MemoryStore is an in-memory Store implementation used by tests and local
// development. Behavior mirrors SQLStore: unique constraints, cascade delete
// on shop removal, referential checks against the shop table.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  uint
	shops   map[string]*model.Shop // keyed by tenant id
	dishes  []model.Dish
	recs    []model.Recommendation
	setting []model.Setting
	configs map[string]*model.MonitoringConfig
	alerts  []model.Alert
	orders  []model.Order

	// FailNext, when set, makes the named operation fail once with the given
	// error. Used to exercise partial-failure paths.
	failMu   sync.Mutex
	failures map[string]error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		shops:    make(map[string]*model.Shop),
		configs:  make(map[string]*model.MonitoringConfig),
		failures: make(map[string]error),
	}
}

// FailNext arranges for the next call of the named operation to fail
func (m *MemoryStore) FailNext(op string, err error) {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	m.failures[op] = err
}

func (m *MemoryStore) takeFailure(op string) error {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	if err, ok := m.failures[op]; ok {
		delete(m.failures, op)
		return err
	}
	return nil
}

func (m *MemoryStore) id() uint {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemoryStore) requireShop(tenantID string) error {
	if _, ok := m.shops[tenantID]; !ok {
		return fmt.Errorf("%w: %s", ErrShopNotFound, tenantID)
	}
	return nil
}

func (m *MemoryStore) CreateShop(ctx context.Context, shop *model.Shop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateShop"); err != nil {
		return err
	}
	if _, exists := m.shops[shop.TenantID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateShop, shop.TenantID)
	}
	now := time.Now()
	shop.ID = m.id()
	shop.CreatedAt = now
	shop.UpdatedAt = now
	cp := *shop
	m.shops[shop.TenantID] = &cp
	return nil
}

func (m *MemoryStore) GetShop(ctx context.Context, tenantID string) (*model.Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shop, ok := m.shops[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShopNotFound, tenantID)
	}
	cp := *shop
	return &cp, nil
}

func (m *MemoryStore) ListShops(ctx context.Context) ([]model.Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shops := make([]model.Shop, 0, len(m.shops))
	for _, s := range m.shops {
		shops = append(shops, *s)
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].TenantID < shops[j].TenantID })
	return shops, nil
}

func (m *MemoryStore) UpdateShop(ctx context.Context, tenantID string, update *model.ShopUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("UpdateShop"); err != nil {
		return err
	}
	shop, ok := m.shops[tenantID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrShopNotFound, tenantID)
	}
	fields := update.Fields()
	if v, ok := fields["name"]; ok {
		shop.Name = v.(string)
	}
	if v, ok := fields["slug"]; ok {
		shop.Slug = v.(string)
	}
	if v, ok := fields["contact_name"]; ok {
		shop.ContactName = v.(string)
	}
	if v, ok := fields["contact_phone"]; ok {
		shop.ContactPhone = v.(string)
	}
	if v, ok := fields["contact_email"]; ok {
		shop.ContactEmail = v.(string)
	}
	if v, ok := fields["description"]; ok {
		shop.Description = v.(string)
	}
	if v, ok := fields["shop_type"]; ok {
		shop.ShopType = v.(string)
	}
	if v, ok := fields["theme_color"]; ok {
		shop.ThemeColor = v.(string)
	}
	if v, ok := fields["wechat_qr_url"]; ok {
		shop.WechatQRURL = v.(string)
	}
	if v, ok := fields["alipay_qr_url"]; ok {
		shop.AlipayQRURL = v.(string)
	}
	if v, ok := fields["is_active"]; ok {
		shop.IsActive = v.(bool)
	}
	shop.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) DeleteShop(ctx context.Context, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireShop(tenantID); err != nil {
		return err
	}
	delete(m.shops, tenantID)
	delete(m.configs, tenantID)
	m.dishes = filterOut(m.dishes, func(d model.Dish) bool { return d.TenantID == tenantID })
	m.recs = filterOut(m.recs, func(r model.Recommendation) bool { return r.TenantID == tenantID })
	m.setting = filterOut(m.setting, func(s model.Setting) bool { return s.TenantID == tenantID })
	m.alerts = filterOut(m.alerts, func(a model.Alert) bool { return a.TenantID == tenantID })
	m.orders = filterOut(m.orders, func(o model.Order) bool { return o.TenantID == tenantID })
	return nil
}

func filterOut[T any](items []T, drop func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if !drop(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func (m *MemoryStore) CreateDishes(ctx context.Context, dishes []model.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateDishes"); err != nil {
		return err
	}
	for i := range dishes {
		if err := m.requireShop(dishes[i].TenantID); err != nil {
			return err
		}
		dishes[i].ID = m.id()
		dishes[i].CreatedAt = time.Now()
		m.dishes = append(m.dishes, dishes[i])
	}
	return nil
}

func (m *MemoryStore) ListDishes(ctx context.Context, tenantID string) ([]model.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("ListDishes"); err != nil {
		return nil, err
	}
	var dishes []model.Dish
	for _, d := range m.dishes {
		if d.TenantID == tenantID {
			dishes = append(dishes, d)
		}
	}
	sort.Slice(dishes, func(i, j int) bool { return dishes[i].SortOrder < dishes[j].SortOrder })
	return dishes, nil
}

func (m *MemoryStore) CreateRecommendations(ctx context.Context, recs []model.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateRecommendations"); err != nil {
		return err
	}
	for i := range recs {
		if err := m.requireShop(recs[i].TenantID); err != nil {
			return err
		}
		for _, existing := range m.recs {
			if existing.TenantID == recs[i].TenantID && existing.DishID == recs[i].DishID {
				return ErrDuplicateRecommendation
			}
		}
		recs[i].ID = m.id()
		recs[i].CreatedAt = time.Now()
		m.recs = append(m.recs, recs[i])
	}
	return nil
}

// Recommendations lists a tenant's recommendations in sort order. Not part
// of the Store interface; used for test inspection.
func (m *MemoryStore) Recommendations(tenantID string) []model.Recommendation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var recs []model.Recommendation
	for _, r := range m.recs {
		if r.TenantID == tenantID {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].SortOrder < recs[j].SortOrder })
	return recs
}

func (m *MemoryStore) CreateSettings(ctx context.Context, settings []model.Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateSettings"); err != nil {
		return err
	}
	for i := range settings {
		if err := m.requireShop(settings[i].TenantID); err != nil {
			return err
		}
		settings[i].ID = m.id()
		settings[i].CreatedAt = time.Now()
		m.setting = append(m.setting, settings[i])
	}
	return nil
}

func (m *MemoryStore) ListSettings(ctx context.Context, tenantID string) ([]model.Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("ListSettings"); err != nil {
		return nil, err
	}
	var settings []model.Setting
	for _, s := range m.setting {
		if s.TenantID == tenantID {
			settings = append(settings, s)
		}
	}
	return settings, nil
}

func (m *MemoryStore) CreateMonitoringConfig(ctx context.Context, cfg *model.MonitoringConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateMonitoringConfig"); err != nil {
		return err
	}
	if err := m.requireShop(cfg.TenantID); err != nil {
		return err
	}
	if _, exists := m.configs[cfg.TenantID]; exists {
		return fmt.Errorf("monitoring config already exists for %s", cfg.TenantID)
	}
	now := time.Now()
	cfg.ID = m.id()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	cp := *cfg
	m.configs[cfg.TenantID] = &cp
	return nil
}

func (m *MemoryStore) GetMonitoringConfig(ctx context.Context, tenantID string) (*model.MonitoringConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("GetMonitoringConfig"); err != nil {
		return nil, err
	}
	cfg, ok := m.configs[tenantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, tenantID)
	}
	cp := *cfg
	return &cp, nil
}

func (m *MemoryStore) CreateAlert(ctx context.Context, alert *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("CreateAlert"); err != nil {
		return err
	}
	if err := m.requireShop(alert.TenantID); err != nil {
		return err
	}
	alert.ID = m.id()
	alert.CreatedAt = time.Now()
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *MemoryStore) ListAlerts(ctx context.Context, tenantID string) ([]model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var alerts []model.Alert
	for _, a := range m.alerts {
		if a.TenantID == tenantID {
			alerts = append(alerts, a)
		}
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].CreatedAt.After(alerts[j].CreatedAt) })
	return alerts, nil
}

func (m *MemoryStore) AcknowledgeAlert(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			now := time.Now()
			m.alerts[i].Acknowledged = true
			m.alerts[i].AcknowledgedAt = &now
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrAlertNotFound, id)
}

// AddOrder seeds an order row. The order stream is written by the ordering
// frontend in production; tests use this to stage backlog states.
func (m *MemoryStore) AddOrder(order model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == 0 {
		order.ID = m.id()
	}
	m.orders = append(m.orders, order)
}

func (m *MemoryStore) PendingOrders(ctx context.Context, tenantID string) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("PendingOrders"); err != nil {
		return nil, err
	}
	var orders []model.Order
	for _, o := range m.orders {
		if o.TenantID == tenantID && o.Status == model.OrderStatusNew {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

func (m *MemoryStore) RecentOrders(ctx context.Context, tenantID string, limit int) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("RecentOrders"); err != nil {
		return nil, err
	}
	var orders []model.Order
	for _, o := range m.orders {
		if o.TenantID == tenantID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure("Ping"); err != nil {
		return err
	}
	return nil
}
