package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/alert"
	"shop-service/internal/backup"
	"shop-service/internal/health"
	"shop-service/internal/provision"
	"shop-service/internal/store"
)

func newTestEnv() (*store.MemoryStore, *provision.Orchestrator) {
	m := store.NewMemoryStore()
	return m, provision.NewOrchestrator(m, 4)
}

func postJSON(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSetupShopHandler(t *testing.T) {
	m, o := newTestEnv()
	h := NewShopHandler(o, m)

	body := `{
		"tenant_id": "shop_001",
		"name": "Noodle House",
		"dishes": [{"id": 1, "name": "Beef Noodles", "price": 15.5}]
	}`
	c, rec := postJSON("/shops/setup", body)

	require.NoError(t, h.SetupShop(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var result provision.SetupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Len(t, result.Steps, 5)

	_, err := m.GetShop(context.Background(), "shop_001")
	assert.NoError(t, err)
}

func TestSetupShopHandler_FailureReturnsStepReport(t *testing.T) {
	m, o := newTestEnv()
	h := NewShopHandler(o, m)

	c, rec := postJSON("/shops/setup", `{"name": "No Tenant ID"}`)
	require.NoError(t, h.SetupShop(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result provision.SetupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestBatchUpdateHandler(t *testing.T) {
	m, o := newTestEnv()
	h := NewShopHandler(o, m)

	setup := provision.SetupRequest{TenantID: "shop_a", Name: "A"}
	require.True(t, o.SetupShop(context.Background(), &setup).Success)

	body := `{"updates": [
		{"tenant_id": "shop_a", "update": {"name": "Renamed"}},
		{"tenant_id": "shop_b", "update": {"name": "Ghost"}}
	]}`
	c, rec := postJSON("/shops/batch-update", body)

	require.NoError(t, h.BatchUpdateShops(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []provision.UpdateResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	byTenant := map[string]provision.UpdateResult{}
	for _, r := range resp.Results {
		byTenant[r.TenantID] = r
	}
	assert.True(t, byTenant["shop_a"].Success)
	assert.False(t, byTenant["shop_b"].Success)
}

func TestCheckShopHealthHandler(t *testing.T) {
	m, o := newTestEnv()
	setup := provision.SetupRequest{TenantID: "shop_001", Name: "Shop"}
	require.True(t, o.SetupShop(context.Background(), &setup).Success)

	monitor := health.NewMonitor(m, alert.NewDispatcher(m), 5*time.Second, 2)
	h := NewMonitorHandler(monitor, m)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/shops/shop_001/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tenant_id")
	c.SetParamValues("shop_001")

	require.NoError(t, h.CheckShopHealth(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var report health.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "shop_001", report.TenantID)
	assert.Equal(t, health.StatusHealthy, report.OverallStatus)
	assert.Len(t, report.Checks, 3)
}

func TestCheckShopHealthHandler_UnknownTenant(t *testing.T) {
	m, _ := newTestEnv()
	monitor := health.NewMonitor(m, alert.NewDispatcher(m), 5*time.Second, 2)
	h := NewMonitorHandler(monitor, m)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/shops/ghost/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tenant_id")
	c.SetParamValues("ghost")

	require.NoError(t, h.CheckShopHealth(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackupShopHandler(t *testing.T) {
	m, o := newTestEnv()
	setup := provision.SetupRequest{
		TenantID: "shop_001",
		Name:     "Shop",
		Dishes:   []provision.DishInput{{ID: 1, Name: "Rice", Price: 8}},
	}
	require.True(t, o.SetupShop(context.Background(), &setup).Success)

	h := NewBackupHandler(backup.NewService(m))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/shops/shop_001/backup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tenant_id")
	c.SetParamValues("shop_001")

	require.NoError(t, h.BackupShop(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Filename string          `json:"filename"`
		Size     int             `json:"size"`
		Data     json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Filename, "backup_shop_001_")

	var doc backup.Document
	require.NoError(t, json.Unmarshal(resp.Data, &doc))
	require.NotNil(t, doc.Shop)
	assert.Len(t, doc.Dishes, 1)
}
