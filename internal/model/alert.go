package model

import (
	"time"
)

// AlertType classifies a persisted alert. Unrecognized values parse to
// AlertTypeUnknown rather than failing.
type AlertType string

const (
	AlertTypeHealthCheck    AlertType = "health_check"
	AlertTypeOrderOverflow  AlertType = "order_overflow"
	AlertTypeConnectionLost AlertType = "connection_lost"
	AlertTypeUnknown        AlertType = "unknown"
)

// ParseAlertType maps a raw string to a known alert type
func ParseAlertType(s string) AlertType {
	switch AlertType(s) {
	case AlertTypeHealthCheck, AlertTypeOrderOverflow, AlertTypeConnectionLost:
		return AlertType(s)
	}
	return AlertTypeUnknown
}

// Alert is an append-only record of a detected anomaly. Acknowledgement is
// the only permitted mutation.
type Alert struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	TenantID       string     `json:"tenant_id" gorm:"type:varchar(50);index;not null"`
	AlertType      AlertType  `json:"alert_type" gorm:"type:varchar(20);not null"`
	AlertTitle     string     `json:"alert_title" gorm:"type:varchar(200);not null"`
	AlertDesc      string     `json:"alert_description" gorm:"column:alert_description;type:text"`
	AlertData      string     `json:"alert_data" gorm:"type:jsonb"`
	Acknowledged   bool       `json:"acknowledged" gorm:"default:false"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName keeps the historical table name
func (Alert) TableName() string {
	return "alerts_history"
}
