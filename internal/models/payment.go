package models

import (
	"time"
)

// Payment 支付记录
type Payment struct {
	ID               uint       `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID          uint       `gorm:"index;not null" json:"order_id"`                          // 订单ID
	Provider         string     `gorm:"type:varchar(20);not null" json:"provider"`               // 网关（razorpay/paypal）
	GatewayOrderID   string     `gorm:"type:varchar(128);index" json:"gateway_order_id"`         // 网关订单号
	GatewayPaymentID string     `gorm:"type:varchar(128);index" json:"gateway_payment_id"`       // 网关支付流水号
	Amount           Money      `gorm:"type:decimal(20,2);not null" json:"amount"`               // 支付金额（INR）
	Currency         string     `gorm:"type:varchar(8);not null" json:"currency"`                // 币种
	Status           string     `gorm:"index;not null" json:"status"`                            // 支付状态
	ApprovalURL      string     `gorm:"type:text" json:"approval_url,omitempty"`                 // PayPal 跳转链接
	ProviderPayload  JSON       `gorm:"type:json" json:"provider_payload,omitempty"`             // 网关原始数据
	PaidAt           *time.Time `gorm:"index" json:"paid_at"`                                    // 支付时间
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt        time.Time  `gorm:"index" json:"updated_at"`                                 // 更新时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
