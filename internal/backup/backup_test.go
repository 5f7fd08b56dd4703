package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/model"
	"shop-service/internal/store"
)

func seedTenant(t *testing.T, m *store.MemoryStore, tenantID string, dishes, settings, orders int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.CreateShop(ctx, &model.Shop{TenantID: tenantID, Name: "Shop " + tenantID, IsActive: true}))

	for i := 0; i < dishes; i++ {
		require.NoError(t, m.CreateDishes(ctx, []model.Dish{
			{TenantID: tenantID, Name: fmt.Sprintf("Dish %d", i), Price: float64(i + 1)},
		}))
	}
	for i := 0; i < settings; i++ {
		require.NoError(t, m.CreateSettings(ctx, []model.Setting{
			{TenantID: tenantID, Key: fmt.Sprintf("key_%d", i), Value: "v"},
		}))
	}
	for i := 0; i < orders; i++ {
		m.AddOrder(model.Order{
			TenantID:  tenantID,
			Status:    model.OrderStatusDone,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
}

func TestBackupShop_RoundTrip(t *testing.T) {
	m := store.NewMemoryStore()
	seedTenant(t, m, "shop_001", 3, 4, 2)

	archive, err := NewService(m).BackupShop(context.Background(), "shop_001")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("backup_shop_001_%s.json", time.Now().UTC().Format("2006-01-02")), archive.Filename)
	assert.Equal(t, len(archive.Data), archive.Size)
	assert.False(t, archive.Timestamp.IsZero())

	// Re-parsing the serialized document yields structurally identical data
	var doc Document
	require.NoError(t, json.Unmarshal(archive.Data, &doc))
	require.NotNil(t, doc.Shop)
	assert.Equal(t, "shop_001", doc.Shop.TenantID)
	assert.Len(t, doc.Dishes, 3)
	assert.Len(t, doc.Settings, 4)
	assert.Len(t, doc.RecentOrders, 2)
}

func TestBackupShop_MissingTenantFatal(t *testing.T) {
	m := store.NewMemoryStore()

	_, err := NewService(m).BackupShop(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrShopNotFound)
}

// Read failures on optional sub-collections degrade to empty collections
// rather than aborting the backup
func TestBackupShop_OptionalReadFailuresDegrade(t *testing.T) {
	m := store.NewMemoryStore()
	seedTenant(t, m, "shop_001", 2, 2, 2)

	m.FailNext("ListDishes", errors.New("read timeout"))
	m.FailNext("RecentOrders", errors.New("read timeout"))

	archive, err := NewService(m).BackupShop(context.Background(), "shop_001")
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(archive.Data, &doc))
	assert.Empty(t, doc.Dishes)
	assert.Empty(t, doc.RecentOrders)
	assert.Len(t, doc.Settings, 2)
}

func TestBackupShop_RecentOrderLimit(t *testing.T) {
	m := store.NewMemoryStore()
	seedTenant(t, m, "shop_001", 0, 0, 120)

	archive, err := NewService(m).BackupShop(context.Background(), "shop_001")
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(archive.Data, &doc))
	assert.Len(t, doc.RecentOrders, 100)
	// Newest first
	assert.True(t, doc.RecentOrders[0].CreatedAt.After(doc.RecentOrders[99].CreatedAt))
}
