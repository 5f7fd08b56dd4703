package model

import (
	"time"
)

// AlertChannel is a recognized alert delivery channel. Delivery itself is
// configuration data here, not implemented transport.
type AlertChannel string

const (
	ChannelDashboard AlertChannel = "dashboard"
	ChannelEmail     AlertChannel = "email"
	ChannelWebhook   AlertChannel = "webhook"
)

// AlertRules holds the per-tenant monitoring thresholds
type AlertRules struct {
	MaxPendingOrders int            `json:"max_pending_orders"`
	MaxWaitingTime   int            `json:"max_waiting_time"` // minutes
	CheckInterval    int            `json:"check_interval"`   // minutes
	AlertChannels    []AlertChannel `json:"alert_channels"`
}

// DefaultAlertRules is the single canonical threshold default. Both the
// schema DDL and the provisioning pipeline use it.
func DefaultAlertRules() AlertRules {
	return AlertRules{
		MaxPendingOrders: 10,
		MaxWaitingTime:   30,
		CheckInterval:    5,
		AlertChannels:    []AlertChannel{ChannelDashboard, ChannelEmail},
	}
}

// MonitoringConfig holds the alerting thresholds for one shop
type MonitoringConfig struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	TenantID   string     `json:"tenant_id" gorm:"type:varchar(50);uniqueIndex;not null"`
	ShopName   string     `json:"shop_name" gorm:"type:varchar(100)"`
	AlertRules AlertRules `json:"alert_rules" gorm:"type:jsonb;serializer:json"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
