package model

import (
	"time"
)

// Dish represents a menu item belonging to one shop
type Dish struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:varchar(50);index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Category  string    `json:"category" gorm:"type:varchar(50)"`
	Emoji     string    `json:"emoji" gorm:"type:varchar(10)"`
	Tags      []string  `json:"tags" gorm:"type:jsonb;serializer:json"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

// Recommendation links a shop to one of its dishes with a display position.
// At most one recommendation may exist per (tenant, dish) pair.
type Recommendation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_dish"`
	DishID    uint      `json:"dish_id" gorm:"not null;uniqueIndex:idx_tenant_dish"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}
