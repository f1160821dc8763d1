package repository

import (
	"errors"
	"time"

	"github.com/aurelia-jewels/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository 心愿单数据访问接口
type WishlistRepository interface {
	ListByCustomer(customerID uint) ([]models.WishlistItem, error)
	Add(item *models.WishlistItem) error
	Remove(customerID, variantID uint) (bool, error)
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// ListByCustomer 顾客心愿单（含款式与商品）
func (r *GormWishlistRepository) ListByCustomer(customerID uint) ([]models.WishlistItem, error) {
	items := make([]models.WishlistItem, 0)
	err := r.db.Preload("ProductVariant").Preload("ProductVariant.Product").
		Where("customer_id = ?", customerID).
		Order("id desc").
		Find(&items).Error
	return items, err
}

// Add 加入心愿单，已存在时忽略
func (r *GormWishlistRepository) Add(item *models.WishlistItem) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

// Remove 移出心愿单
func (r *GormWishlistRepository) Remove(customerID, variantID uint) (bool, error) {
	result := r.db.Where("customer_id = ? AND product_variant_id = ?", customerID, variantID).Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error)
	GetByProductAndCustomer(productID, customerID uint) (*models.Review, error)
	Create(review *models.Review) error
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ListByProduct 商品评价列表
func (r *GormReviewRepository) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	query := r.db.Model(&models.Review{}).Where("product_id = ?", productID)
	query, total, err := paginate(query, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := query.Preload("Customer").Order("id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetByProductAndCustomer 查询顾客对商品的评价
func (r *GormReviewRepository) GetByProductAndCustomer(productID, customerID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("product_id = ? AND customer_id = ?", productID, customerID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// NotificationRepository 站内通知数据访问接口
type NotificationRepository interface {
	ListByCustomer(customerID uint, page, pageSize int) ([]models.Notification, int64, error)
	Create(notification *models.Notification) error
	MarkRead(id, customerID uint, at time.Time) (bool, error)
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// ListByCustomer 顾客通知列表
func (r *GormNotificationRepository) ListByCustomer(customerID uint, page, pageSize int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{}).Where("customer_id = ?", customerID)
	query, total, err := paginate(query, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := query.Order("id desc").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// Create 创建通知
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// MarkRead 标记已读
func (r *GormNotificationRepository) MarkRead(id, customerID uint, at time.Time) (bool, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND customer_id = ? AND read_at IS NULL", id, customerID).
		Update("read_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
