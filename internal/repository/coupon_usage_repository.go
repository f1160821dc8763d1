package repository

import (
	"github.com/aurelia-jewels/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponUsageRepository 优惠券使用记录数据访问接口
type CouponUsageRepository interface {
	CountByCustomer(couponID, customerID uint) (int64, error)
	Create(usage *models.CouponUsage) (bool, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建使用记录仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// CountByCustomer 统计顾客对某券的使用次数
func (r *GormCouponUsageRepository) CountByCustomer(couponID, customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&count).Error
	return count, err
}

// Create 写入使用记录，同一订单重复写入时返回 false
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(usage)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
