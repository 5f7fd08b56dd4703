package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/model"
	"shop-service/internal/store"
)

func newStoreWithShop(t *testing.T, tenantID string) *store.MemoryStore {
	t.Helper()
	m := store.NewMemoryStore()
	err := m.CreateShop(context.Background(), &model.Shop{TenantID: tenantID, Name: "Shop", IsActive: true})
	require.NoError(t, err)
	return m
}

func TestDispatch_KnownType(t *testing.T) {
	ctx := context.Background()
	m := newStoreWithShop(t, "shop_001")
	d := NewDispatcher(m)

	d.Dispatch(ctx, "shop_001", model.AlertTypeOrderOverflow, map[string]int{"pending": 25})

	alerts, err := m.ListAlerts(ctx, "shop_001")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertTypeOrderOverflow, alerts[0].AlertType)
	assert.Equal(t, "Order backlog alert", alerts[0].AlertTitle)
	assert.Contains(t, alerts[0].AlertDesc, "shop_001")
	assert.Contains(t, alerts[0].AlertData, `"pending":25`)
	assert.False(t, alerts[0].Acknowledged)
}

// Unrecognized alert types get the generic template; dispatch never fails on
// them
func TestDispatch_UnknownTypeFallsBack(t *testing.T) {
	ctx := context.Background()
	m := newStoreWithShop(t, "shop_001")
	d := NewDispatcher(m)

	d.Dispatch(ctx, "shop_001", model.AlertType("disk_full"), nil)

	alerts, err := m.ListAlerts(ctx, "shop_001")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "System alert", alerts[0].AlertTitle)
}

// Persistence failures are swallowed: alerting must never fail the caller
func TestDispatch_PersistFailureNotPropagated(t *testing.T) {
	ctx := context.Background()
	m := newStoreWithShop(t, "shop_001")
	d := NewDispatcher(m)

	m.FailNext("CreateAlert", errors.New("insert failed"))
	d.Dispatch(ctx, "shop_001", model.AlertTypeHealthCheck, nil)

	alerts, err := m.ListAlerts(ctx, "shop_001")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestAcknowledge(t *testing.T) {
	ctx := context.Background()
	m := newStoreWithShop(t, "shop_001")
	d := NewDispatcher(m)

	d.Dispatch(ctx, "shop_001", model.AlertTypeConnectionLost, nil)
	alerts, err := d.List(ctx, "shop_001")
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	require.NoError(t, d.Acknowledge(ctx, alerts[0].ID))

	alerts, err = d.List(ctx, "shop_001")
	require.NoError(t, err)
	assert.True(t, alerts[0].Acknowledged)
	assert.NotNil(t, alerts[0].AcknowledgedAt)
}

func TestParseAlertType(t *testing.T) {
	assert.Equal(t, model.AlertTypeHealthCheck, model.ParseAlertType("health_check"))
	assert.Equal(t, model.AlertTypeUnknown, model.ParseAlertType("whatever"))
}
