package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品款式（金属/纯度/克重）
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                       // 主键
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                           // 商品ID
	SKU         string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`           // SKU 编码
	Metal       string         `gorm:"type:varchar(32);default:''" json:"metal"`                   // 金属
	Purity      string         `gorm:"type:varchar(16);default:''" json:"purity"`                  // 纯度
	WeightGrams Money          `gorm:"type:decimal(20,2);not null;default:0" json:"weight_grams"`  // 克重
	MRP         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"mrp"`           // 标价
	FinalPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_price"`   // 售价
	Stock       int            `gorm:"not null;default:0" json:"stock"`                            // 库存（0 表示不限）
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                        // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Product      *Product             `gorm:"foreignKey:ProductID" json:"product,omitempty"`      // 所属商品
	Sizes        []VariantSize        `gorm:"foreignKey:VariantID" json:"sizes,omitempty"`        // 尺码
	ScrewOptions []VariantScrewOption `gorm:"foreignKey:VariantID" json:"screw_options,omitempty"` // 耳堵选项
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// VariantSize 款式尺码（戒指/手镯）
type VariantSize struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	VariantID uint      `gorm:"index;not null" json:"variant_id"`       // 款式ID
	Label     string    `gorm:"type:varchar(32);not null" json:"label"` // 尺码
	IsActive  bool      `gorm:"default:true" json:"is_active"`          // 是否启用
	CreatedAt time.Time `json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (VariantSize) TableName() string {
	return "variant_sizes"
}

// VariantScrewOption 款式耳堵选项（耳饰）
type VariantScrewOption struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	VariantID uint      `gorm:"index;not null" json:"variant_id"`       // 款式ID
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`  // 名称
	IsActive  bool      `gorm:"default:true" json:"is_active"`          // 是否启用
	CreatedAt time.Time `json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (VariantScrewOption) TableName() string {
	return "variant_screw_options"
}
