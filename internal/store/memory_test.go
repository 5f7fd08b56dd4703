package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/model"
)

func seedShop(t *testing.T, m *MemoryStore, tenantID string) {
	t.Helper()
	err := m.CreateShop(context.Background(), &model.Shop{
		TenantID: tenantID,
		Name:     "Shop " + tenantID,
		IsActive: true,
	})
	require.NoError(t, err)
}

func TestCreateShop_Duplicate(t *testing.T) {
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")

	err := m.CreateShop(context.Background(), &model.Shop{TenantID: "shop_001", Name: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateShop)
}

func TestGetShop_NotFound(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.GetShop(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestRecommendation_Uniqueness(t *testing.T) {
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")

	recs := []model.Recommendation{{TenantID: "shop_001", DishID: 7, SortOrder: 1}}
	require.NoError(t, m.CreateRecommendations(context.Background(), recs))

	// A second recommendation for the same (tenant, dish) pair must fail,
	// never silently overwrite
	dup := []model.Recommendation{{TenantID: "shop_001", DishID: 7, SortOrder: 2}}
	err := m.CreateRecommendations(context.Background(), dup)
	assert.ErrorIs(t, err, ErrDuplicateRecommendation)
}

func TestDeleteShop_Cascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")
	seedShop(t, m, "shop_002")

	require.NoError(t, m.CreateDishes(ctx, []model.Dish{
		{TenantID: "shop_001", Name: "Noodles", Price: 12},
		{TenantID: "shop_002", Name: "Rice", Price: 8},
	}))
	require.NoError(t, m.CreateSettings(ctx, model.DefaultSettings("shop_001")))
	require.NoError(t, m.CreateMonitoringConfig(ctx, &model.MonitoringConfig{
		TenantID:   "shop_001",
		AlertRules: model.DefaultAlertRules(),
	}))

	require.NoError(t, m.DeleteShop(ctx, "shop_001"))

	_, err := m.GetShop(ctx, "shop_001")
	assert.ErrorIs(t, err, ErrShopNotFound)

	dishes, err := m.ListDishes(ctx, "shop_001")
	require.NoError(t, err)
	assert.Empty(t, dishes)

	settings, err := m.ListSettings(ctx, "shop_001")
	require.NoError(t, err)
	assert.Empty(t, settings)

	_, err = m.GetMonitoringConfig(ctx, "shop_001")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	// The other tenant is untouched
	dishes, err = m.ListDishes(ctx, "shop_002")
	require.NoError(t, err)
	assert.Len(t, dishes, 1)
}

func TestReferentialIntegrity(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	err := m.CreateDishes(ctx, []model.Dish{{TenantID: "ghost", Name: "Soup", Price: 5}})
	assert.ErrorIs(t, err, ErrShopNotFound)

	err = m.CreateAlert(ctx, &model.Alert{TenantID: "ghost", AlertType: model.AlertTypeHealthCheck, AlertTitle: "x"})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestUpdateShop_Partial(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")

	name := "Renamed"
	inactive := false
	err := m.UpdateShop(ctx, "shop_001", &model.ShopUpdate{Name: &name, IsActive: &inactive})
	require.NoError(t, err)

	shop, err := m.GetShop(ctx, "shop_001")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", shop.Name)
	assert.False(t, shop.IsActive)

	err = m.UpdateShop(ctx, "nope", &model.ShopUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestPendingOrders_OrderingAndFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")

	now := time.Now()
	m.AddOrder(model.Order{TenantID: "shop_001", Status: model.OrderStatusNew, CreatedAt: now.Add(-10 * time.Minute)})
	m.AddOrder(model.Order{TenantID: "shop_001", Status: model.OrderStatusNew, CreatedAt: now.Add(-40 * time.Minute)})
	m.AddOrder(model.Order{TenantID: "shop_001", Status: model.OrderStatusDone, CreatedAt: now.Add(-60 * time.Minute)})

	pending, err := m.PendingOrders(ctx, "shop_001")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Ascending by creation time: oldest first
	assert.True(t, pending[0].CreatedAt.Before(pending[1].CreatedAt))
}

func TestRecentOrders_Limit(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")

	now := time.Now()
	for i := 0; i < 5; i++ {
		m.AddOrder(model.Order{TenantID: "shop_001", Status: model.OrderStatusDone, CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
	}

	orders, err := m.RecentOrders(ctx, "shop_001", 3)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	// Descending by creation time: newest first
	assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))
}

func TestAcknowledgeAlert(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seedShop(t, m, "shop_001")

	a := &model.Alert{TenantID: "shop_001", AlertType: model.AlertTypeHealthCheck, AlertTitle: "t"}
	require.NoError(t, m.CreateAlert(ctx, a))

	require.NoError(t, m.AcknowledgeAlert(ctx, a.ID))

	alerts, err := m.ListAlerts(ctx, "shop_001")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Acknowledged)
	assert.NotNil(t, alerts[0].AcknowledgedAt)

	assert.ErrorIs(t, m.AcknowledgeAlert(ctx, 9999), ErrAlertNotFound)
}
