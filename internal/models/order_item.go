package models

import (
	"time"
)

// OrderItem 订单项表（下单时的商品快照）
type OrderItem struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID          uint      `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductVariantID uint      `gorm:"index;not null" json:"product_variant_id"`                 // 款式ID
	OptionType       string    `gorm:"type:varchar(20);not null" json:"option_type"`             // 选项类型
	OptionID         uint      `gorm:"not null" json:"option_id"`                                // 选项ID
	OptionLabel      string    `gorm:"type:varchar(64)" json:"option_label"`                     // 选项名称
	ProductName      string    `gorm:"type:varchar(200);not null" json:"product_name"`           // 商品名称
	SKU              string    `gorm:"type:varchar(64)" json:"sku"`                              // SKU
	UnitPrice        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Quantity         int       `gorm:"not null" json:"quantity"`                                 // 数量
	TotalPrice       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
