package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	CustomerID      uint           `gorm:"index;not null" json:"customer_id"`                            // 顾客ID
	AddressID       uint           `gorm:"index;not null" json:"address_id"`                             // 收货地址ID
	AddressSnapshot JSON           `gorm:"type:json" json:"address"`                                     // 收货地址快照
	PaymentMethod   string         `gorm:"type:varchar(20);not null" json:"payment_method"`              // 支付方式（razorpay/paypal）
	Status          string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	Currency        string         `gorm:"type:varchar(8);not null" json:"currency"`                     // 币种
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 商品总额
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠券优惠
	GiftAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"gift_amount"`     // 礼品卡抵扣
	FinalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_amount"`    // 实付金额
	CouponID        *uint          `gorm:"index" json:"coupon_id,omitempty"`                             // 优惠券ID
	GiftCardID      *uint          `gorm:"index" json:"gift_card_id,omitempty"`                          // 礼品卡ID
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                      // 支付截止时间
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                     // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
