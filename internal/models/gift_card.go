package models

import (
	"time"

	"gorm.io/gorm"
)

// GiftCard 礼品卡（一次性整额抵扣）
type GiftCard struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Code               string         `gorm:"type:varchar(80);uniqueIndex;not null" json:"code"`              // 卡号
	Value              Money          `gorm:"type:decimal(20,2);not null" json:"value"`                       // 面额（INR）
	Status             string         `gorm:"type:varchar(24);index;not null;default:'active'" json:"status"` // 状态
	ExpiresAt          *time.Time     `gorm:"index" json:"expires_at"`                                        // 过期时间
	RedeemedAt         *time.Time     `gorm:"index" json:"redeemed_at"`                                       // 使用时间
	RedeemedCustomerID *uint          `gorm:"index" json:"redeemed_customer_id,omitempty"`                    // 使用顾客ID
	RedeemedOrderID    *uint          `gorm:"index" json:"redeemed_order_id,omitempty"`                       // 使用订单ID
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
}

// TableName 指定表名
func (GiftCard) TableName() string {
	return "gift_cards"
}
