package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"

	"gorm.io/gorm"
)

// GiftCardRepository 礼品卡数据访问接口
type GiftCardRepository interface {
	GetByCode(code string) (*models.GiftCard, error)
	GetByID(id uint) (*models.GiftCard, error)
	Create(card *models.GiftCard) error
	Reserve(id, customerID, orderID uint) (bool, error)
	Release(id, orderID uint) (bool, error)
	MarkRedeemed(id, customerID, orderID uint, at time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormGiftCardRepository
}

// GormGiftCardRepository GORM 实现
type GormGiftCardRepository struct {
	db *gorm.DB
}

// NewGiftCardRepository 创建礼品卡仓库
func NewGiftCardRepository(db *gorm.DB) *GormGiftCardRepository {
	return &GormGiftCardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormGiftCardRepository) WithTx(tx *gorm.DB) *GormGiftCardRepository {
	if tx == nil {
		return r
	}
	return &GormGiftCardRepository{db: tx}
}

// GetByCode 根据卡号获取
func (r *GormGiftCardRepository) GetByCode(code string) (*models.GiftCard, error) {
	var card models.GiftCard
	if err := r.db.Where("code = ?", strings.TrimSpace(code)).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByID 根据 ID 获取礼品卡
func (r *GormGiftCardRepository) GetByID(id uint) (*models.GiftCard, error) {
	var card models.GiftCard
	if err := r.db.First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// Create 创建礼品卡
func (r *GormGiftCardRepository) Create(card *models.GiftCard) error {
	return r.db.Create(card).Error
}

// Reserve 下单时占用礼品卡，仅 active 状态可被占用
func (r *GormGiftCardRepository) Reserve(id, customerID, orderID uint) (bool, error) {
	result := r.db.Model(&models.GiftCard{}).
		Where("id = ? AND status = ?", id, constants.GiftCardStatusActive).
		Updates(map[string]interface{}{
			"status":               constants.GiftCardStatusReserved,
			"redeemed_customer_id": customerID,
			"redeemed_order_id":    orderID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Release 订单取消后归还被该订单占用的礼品卡
func (r *GormGiftCardRepository) Release(id, orderID uint) (bool, error) {
	result := r.db.Model(&models.GiftCard{}).
		Where("id = ? AND status = ? AND redeemed_order_id = ?", id, constants.GiftCardStatusReserved, orderID).
		Updates(map[string]interface{}{
			"status":               constants.GiftCardStatusActive,
			"redeemed_customer_id": nil,
			"redeemed_order_id":    nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkRedeemed 核销礼品卡：须为该订单占用中，或已归还且仍为 active
func (r *GormGiftCardRepository) MarkRedeemed(id, customerID, orderID uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.GiftCard{}).
		Where("id = ? AND ((status = ? AND redeemed_order_id = ?) OR status = ?)",
			id, constants.GiftCardStatusReserved, orderID, constants.GiftCardStatusActive).
		Updates(map[string]interface{}{
			"status":               constants.GiftCardStatusRedeemed,
			"redeemed_at":          at,
			"redeemed_customer_id": customerID,
			"redeemed_order_id":    orderID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
