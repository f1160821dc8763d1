package models

import (
	"time"
)

// WishlistItem 心愿单
type WishlistItem struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                                         // 主键
	CustomerID       uint      `gorm:"not null;uniqueIndex:idx_wishlist_customer_variant" json:"customer_id"`        // 顾客ID
	ProductVariantID uint      `gorm:"not null;uniqueIndex:idx_wishlist_customer_variant" json:"product_variant_id"` // 款式ID
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                                      // 创建时间

	ProductVariant *ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant,omitempty"` // 关联款式
}

// TableName 指定表名
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// Review 商品评价（每位顾客每个商品一条）
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                // 主键
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_review_product_customer" json:"product_id"`  // 商品ID
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_review_product_customer" json:"customer_id"` // 顾客ID
	Rating     int       `gorm:"not null" json:"rating"`                                              // 评分 1-5
	Comment    string    `gorm:"type:text" json:"comment"`                                            // 内容
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                             // 创建时间

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 评价人
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}

// Notification 站内通知
type Notification struct {
	ID         uint       `gorm:"primarykey" json:"id"`                    // 主键
	CustomerID uint       `gorm:"index;not null" json:"customer_id"`       // 顾客ID
	Title      string     `gorm:"type:varchar(200);not null" json:"title"` // 标题
	Body       string     `gorm:"type:text" json:"body"`                   // 内容
	ReadAt     *time.Time `gorm:"index" json:"read_at"`                    // 已读时间
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`                 // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
