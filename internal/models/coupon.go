package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Coupon 结算优惠券，金额均为 INR
type Coupon struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Code             string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	Description      string         `gorm:"type:varchar(255)" json:"description"`
	Type             string         `gorm:"type:varchar(16);not null" json:"type"`                      // fixed 立减 / percent 折扣百分比
	Value            Money          `gorm:"type:decimal(20,2);not null" json:"value"`                   // 立减金额或百分比
	MinAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_amount"`    // 适用商品小计门槛
	MaxDiscount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`  // 0 不封顶
	UsageLimit       int            `gorm:"not null;default:0" json:"usage_limit"`                      // 0 不限
	UsedCount        int            `gorm:"not null;default:0" json:"used_count"`
	PerCustomerLimit int            `gorm:"not null;default:0" json:"per_customer_limit"`               // 0 不限
	Scope            string         `gorm:"type:varchar(16);not null;default:'all'" json:"scope"`       // all / product
	ProductIDs       string         `gorm:"type:text" json:"product_ids"`                               // product 范围下的商品 ID，JSON 数组
	StartsAt         *time.Time     `gorm:"index" json:"starts_at"`
	EndsAt           *time.Time     `gorm:"index" json:"ends_at"`
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// NotStarted 尚未到生效时间
func (c *Coupon) NotStarted(now time.Time) bool {
	return c.StartsAt != nil && now.Before(*c.StartsAt)
}

// Ended 已过失效时间
func (c *Coupon) Ended(now time.Time) bool {
	return c.EndsAt != nil && now.After(*c.EndsAt)
}

// Exhausted 总使用次数已满
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// ScopedProducts 解析 product 范围的商品集合，忽略 0
func (c *Coupon) ScopedProducts() (map[uint]struct{}, error) {
	raw := strings.TrimSpace(c.ProductIDs)
	if raw == "" {
		return map[uint]struct{}{}, nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id != 0 {
			set[id] = struct{}{}
		}
	}
	return set, nil
}
