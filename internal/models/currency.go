package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency 展示币种（汇率为 1 INR 兑换的数量）
type Currency struct {
	ID           uint            `gorm:"primarykey" json:"id"`                                       // 主键
	Code         string          `gorm:"type:varchar(8);uniqueIndex;not null" json:"code"`           // 币种代码
	Symbol       string          `gorm:"type:varchar(8);not null" json:"symbol"`                     // 符号
	ExchangeRate decimal.Decimal `gorm:"type:decimal(20,6);not null;default:1" json:"exchange_rate"` // 汇率
	IsBase       bool            `gorm:"not null;default:false" json:"is_base"`                      // 是否基准币种
	IsActive     bool            `gorm:"not null;default:true;index" json:"is_active"`               // 是否启用
	SortOrder    int             `gorm:"not null;default:0" json:"sort_order"`                       // 排序
	UpdatedAt    time.Time       `json:"updated_at"`                                                 // 更新时间
}

// TableName 指定表名
func (Currency) TableName() string {
	return "currencies"
}
