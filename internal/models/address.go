package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 收货地址
type Address struct {
	ID         uint           `gorm:"primarykey" json:"id"`                              // 主键
	CustomerID uint           `gorm:"index;not null" json:"customer_id"`                 // 顾客ID
	Name       string         `gorm:"type:varchar(120);not null" json:"name"`            // 收件人
	Phone      string         `gorm:"type:varchar(32);not null" json:"phone"`            // 联系电话
	Line1      string         `gorm:"type:varchar(255);not null" json:"line1"`           // 地址行 1
	Line2      string         `gorm:"type:varchar(255);default:''" json:"line2"`         // 地址行 2
	City       string         `gorm:"type:varchar(120);not null" json:"city"`            // 城市
	State      string         `gorm:"type:varchar(120);not null" json:"state"`           // 邦/省
	Pincode    string         `gorm:"type:varchar(16);not null" json:"pincode"`          // 邮编
	Country    string         `gorm:"type:varchar(64);not null;default:'IN'" json:"country"` // 国家
	IsDefault  bool           `gorm:"not null;default:false" json:"is_default"`          // 是否默认
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// Snapshot 生成订单使用的地址快照
func (a Address) Snapshot() JSON {
	return JSON{
		"name":    a.Name,
		"phone":   a.Phone,
		"line1":   a.Line1,
		"line2":   a.Line2,
		"city":    a.City,
		"state":   a.State,
		"pincode": a.Pincode,
		"country": a.Country,
	}
}
