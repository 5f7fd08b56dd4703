package model

import (
	"time"
)

// Shop represents a tenant shop stored in the database.
// This is the root record of the multi-tenant platform: every other record
// references a shop through its TenantID.
type Shop struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TenantID      string    `json:"tenant_id" gorm:"type:varchar(50);uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"type:varchar(100);not null"`
	Slug          string    `json:"slug" gorm:"type:varchar(50)"`
	ContactName   string    `json:"contact_name" gorm:"type:varchar(50)"`
	ContactPhone  string    `json:"contact_phone" gorm:"type:varchar(20)"`
	ContactEmail  string    `json:"contact_email" gorm:"type:varchar(100)"`
	Description   string    `json:"description" gorm:"type:text"`
	ShopType      string    `json:"shop_type" gorm:"type:varchar(20)"`
	ThemeColor    string    `json:"theme_color" gorm:"type:varchar(20)"`
	WechatQRURL   string    `json:"wechat_qr_url" gorm:"type:text"`
	AlipayQRURL   string    `json:"alipay_qr_url" gorm:"type:text"`
	AdminPassword string    `json:"-" gorm:"type:varchar(100)"` // Opaque credential, passed through as-is
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ShopUpdate carries a partial update for a shop. Nil fields are left
// untouched.
type ShopUpdate struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Description  *string `json:"description,omitempty"`
	ShopType     *string `json:"shop_type,omitempty"`
	ThemeColor   *string `json:"theme_color,omitempty"`
	WechatQRURL  *string `json:"wechat_qr_url,omitempty"`
	AlipayQRURL  *string `json:"alipay_qr_url,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// Fields returns the update as a column/value map suitable for gorm Updates.
func (u *ShopUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Slug != nil {
		fields["slug"] = *u.Slug
	}
	if u.ContactName != nil {
		fields["contact_name"] = *u.ContactName
	}
	if u.ContactPhone != nil {
		fields["contact_phone"] = *u.ContactPhone
	}
	if u.ContactEmail != nil {
		fields["contact_email"] = *u.ContactEmail
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.ShopType != nil {
		fields["shop_type"] = *u.ShopType
	}
	if u.ThemeColor != nil {
		fields["theme_color"] = *u.ThemeColor
	}
	if u.WechatQRURL != nil {
		fields["wechat_qr_url"] = *u.WechatQRURL
	}
	if u.AlipayQRURL != nil {
		fields["alipay_qr_url"] = *u.AlipayQRURL
	}
	if u.IsActive != nil {
		fields["is_active"] = *u.IsActive
	}
	return fields
}
