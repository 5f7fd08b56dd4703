package model

import (
	"time"
)

// Setting is a per-tenant key/value pair seeded at provisioning
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_setting"`
	Key       string    `json:"setting_key" gorm:"column:setting_key;type:varchar(50);not null;uniqueIndex:idx_tenant_setting"`
	Value     string    `json:"setting_value" gorm:"column:setting_value;type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings seeded for a newly provisioned shop
func DefaultSettings(tenantID string) []Setting {
	return []Setting{
		{TenantID: tenantID, Key: "sequence_prefix", Value: "A"},
		{TenantID: tenantID, Key: "sequence_counter", Value: "1"},
		{TenantID: tenantID, Key: "auto_refresh", Value: "true"},
		{TenantID: tenantID, Key: "notification_enabled", Value: "true"},
	}
}
