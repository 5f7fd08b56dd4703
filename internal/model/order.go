package model

import (
	"time"
)

// Order statuses. The order stream itself is written by the ordering
// frontend; this service only reads it.
const (
	OrderStatusNew       = "new"
	OrderStatusPreparing = "preparing"
	OrderStatusDone      = "done"
)

// Order represents a customer order belonging to one shop
type Order struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:varchar(50);index;not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);index;not null"`
	Total     float64   `json:"total" gorm:"type:decimal(10,2);default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
