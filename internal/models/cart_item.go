package models

import (
	"time"
)

// Cart 顾客购物车（每位顾客一个，version 每次变更递增）
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                  // 主键
	CustomerID uint      `gorm:"uniqueIndex;not null" json:"customer_id"` // 顾客ID
	Version    int64     `gorm:"not null;default:0" json:"version"`     // 版本号
	CreatedAt  time.Time `json:"created_at"`                            // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                            // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"cart_items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项
type CartItem struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                                              // 主键
	CartID           uint      `gorm:"not null;uniqueIndex:idx_cart_variant_option" json:"cart_id"`                       // 购物车ID
	ProductVariantID uint      `gorm:"not null;uniqueIndex:idx_cart_variant_option" json:"product_variant_id"`            // 款式ID
	OptionType       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_variant_option" json:"option_type"` // 选项类型
	OptionID         uint      `gorm:"not null;uniqueIndex:idx_cart_variant_option" json:"option_id"`                     // 选项ID
	Quantity         int       `gorm:"not null" json:"quantity"`                                                          // 数量
	PriceAtAddition  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_addition"`                    // 单价 × 数量
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                                           // 创建时间
	UpdatedAt        time.Time `gorm:"index" json:"updated_at"`                                                           // 更新时间

	ProductVariant *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"` // 关联款式
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
