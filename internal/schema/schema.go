package schema

import (
	"context"
	"errors"
	"fmt"
)

// Collection identifies one logical record collection managed by this service
type Collection string

const (
	CollectionShops             Collection = "shops"
	CollectionDishes            Collection = "dishes"
	CollectionRecommendations   Collection = "recommendations"
	CollectionMonitoringConfigs Collection = "monitoring_configs"
	CollectionAlertsHistory     Collection = "alerts_history"
	CollectionUnknown           Collection = "unknown"
)

// ErrUnknownCollection is returned when a collection name has no declared shape
var ErrUnknownCollection = errors.New("unknown collection")

// Collections returns every declared collection in creation order. Parent
// tables come first so foreign keys resolve.
func Collections() []Collection {
	return []Collection{
		CollectionShops,
		CollectionDishes,
		CollectionRecommendations,
		CollectionMonitoringConfigs,
		CollectionAlertsHistory,
	}
}

// ParseCollection maps a raw name to a declared collection
func ParseCollection(name string) Collection {
	switch Collection(name) {
	case CollectionShops, CollectionDishes, CollectionRecommendations,
		CollectionMonitoringConfigs, CollectionAlertsHistory:
		return Collection(name)
	}
	return CollectionUnknown
}

// ddl holds the creation statement per collection. The alert_rules default
// mirrors model.DefaultAlertRules.
var ddl = map[Collection]string{
	CollectionShops: `
		CREATE TABLE IF NOT EXISTS shops (
			id SERIAL PRIMARY KEY,
			tenant_id VARCHAR(50) UNIQUE NOT NULL,
			name VARCHAR(100) NOT NULL,
			slug VARCHAR(50),
			contact_name VARCHAR(50),
			contact_phone VARCHAR(20),
			contact_email VARCHAR(100),
			description TEXT,
			shop_type VARCHAR(20),
			theme_color VARCHAR(20),
			wechat_qr_url TEXT,
			alipay_qr_url TEXT,
			admin_password VARCHAR(100),
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		);`,

	CollectionDishes: `
		CREATE TABLE IF NOT EXISTS dishes (
			id SERIAL PRIMARY KEY,
			tenant_id VARCHAR(50) NOT NULL,
			name VARCHAR(100) NOT NULL,
			price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
			category VARCHAR(50),
			emoji VARCHAR(10),
			tags JSONB DEFAULT '[]',
			is_active BOOLEAN DEFAULT true,
			sort_order INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			FOREIGN KEY (tenant_id) REFERENCES shops(tenant_id) ON DELETE CASCADE
		);`,

	CollectionRecommendations: `
		CREATE TABLE IF NOT EXISTS recommendations (
			id SERIAL PRIMARY KEY,
			tenant_id VARCHAR(50) NOT NULL,
			dish_id INTEGER REFERENCES dishes(id) ON DELETE CASCADE,
			sort_order INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(tenant_id, dish_id)
		);`,

	CollectionMonitoringConfigs: `
		CREATE TABLE IF NOT EXISTS monitoring_configs (
			id SERIAL PRIMARY KEY,
			tenant_id VARCHAR(50) UNIQUE NOT NULL,
			shop_name VARCHAR(100),
			alert_rules JSONB DEFAULT '{
				"max_pending_orders": 10,
				"max_waiting_time": 30,
				"check_interval": 5,
				"alert_channels": ["dashboard", "email"]
			}',
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			FOREIGN KEY (tenant_id) REFERENCES shops(tenant_id) ON DELETE CASCADE
		);`,

	CollectionAlertsHistory: `
		CREATE TABLE IF NOT EXISTS alerts_history (
			id SERIAL PRIMARY KEY,
			tenant_id VARCHAR(50) NOT NULL,
			alert_type VARCHAR(20) NOT NULL,
			alert_title VARCHAR(200) NOT NULL,
			alert_description TEXT,
			alert_data JSONB DEFAULT '{}',
			acknowledged BOOLEAN DEFAULT false,
			acknowledged_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			FOREIGN KEY (tenant_id) REFERENCES shops(tenant_id) ON DELETE CASCADE
		);`,
}

// DDLExecutor executes a raw DDL statement against the backing store
type DDLExecutor interface {
	ExecDDL(ctx context.Context, stmt string) error
}

// InitStatus is the outcome of one collection initialization
type InitStatus string

const (
	InitStatusSuccess InitStatus = "success"
	InitStatusError   InitStatus = "error"
)

// InitResult reports the outcome of ensuring one collection
type InitResult struct {
	Collection Collection `json:"collection"`
	Status     InitStatus `json:"status"`
	Message    string     `json:"message,omitempty"`
}

// Registry declares the managed collections and creates them on demand
type Registry struct {
	exec DDLExecutor
}

// NewRegistry creates a schema registry backed by the given executor
func NewRegistry(exec DDLExecutor) *Registry {
	return &Registry{exec: exec}
}

// EnsureCollection idempotently guarantees the named collection exists with
// its declared shape
func (r *Registry) EnsureCollection(ctx context.Context, c Collection) error {
	stmt, ok := ddl[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	if err := r.exec.ExecDDL(ctx, stmt); err != nil {
		return fmt.Errorf("ensure collection %s: %w", c, err)
	}
	return nil
}

// InitializeDatabase ensures every declared collection exists. A failing
// collection never aborts the rest; each outcome is reported independently.
func (r *Registry) InitializeDatabase(ctx context.Context) []InitResult {
	results := make([]InitResult, 0, len(Collections()))
	for _, c := range Collections() {
		if err := r.EnsureCollection(ctx, c); err != nil {
			results = append(results, InitResult{Collection: c, Status: InitStatusError, Message: err.Error()})
			continue
		}
		results = append(results, InitResult{Collection: c, Status: InitStatusSuccess})
	}
	return results
}
