package repository

import (
	"errors"

	"github.com/aurelia-jewels/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByCustomer(customerID uint) (*models.Cart, error)
	Ensure(customerID uint) (*models.Cart, error)
	LockByCustomer(customerID uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItem(cartID, itemID uint) (*models.CartItem, error)
	FindItem(cartID, variantID uint, optionType string, optionID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	DeleteItem(cartID, itemID uint) error
	ClearItems(cartID uint) error
	BumpVersion(cartID uint, expected *int64) (bool, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByCustomer 获取顾客购物车，不存在返回 nil
func (r *GormCartRepository) GetByCustomer(customerID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Ensure 获取或创建顾客购物车（并发创建时以唯一索引兜底）
func (r *GormCartRepository) Ensure(customerID uint) (*models.Cart, error) {
	cart := models.Cart{CustomerID: customerID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cart).Error; err != nil {
		return nil, err
	}
	return r.GetByCustomer(customerID)
}

// LockByCustomer 事务内锁定购物车行（sqlite 忽略行锁）
func (r *GormCartRepository) LockByCustomer(customerID uint) (*models.Cart, error) {
	var cart models.Cart
	query := r.db
	if dbDialectName(r.db) != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// ListItems 获取购物车项（含款式与商品）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	err := r.db.Preload("ProductVariant").Preload("ProductVariant.Product").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error
	return items, err
}

// GetItem 获取购物车项（含款式）
func (r *GormCartRepository) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Preload("ProductVariant").Where("cart_id = ? AND id = ?", cartID, itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindItem 按款式与选项查找购物车项
func (r *GormCartRepository) FindItem(cartID, variantID uint, optionType string, optionID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_variant_id = ? AND option_type = ? AND option_id = ?",
		cartID, variantID, optionType, optionID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItem 更新数量与价格
func (r *GormCartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"quantity":          item.Quantity,
		"price_at_addition": item.PriceAtAddition,
	}).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(cartID, itemID uint) error {
	return r.db.Where("cart_id = ? AND id = ?", cartID, itemID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// BumpVersion 递增版本号；expected 非空时仅在版本一致时更新，返回是否更新成功
func (r *GormCartRepository) BumpVersion(cartID uint, expected *int64) (bool, error) {
	query := r.db.Model(&models.Cart{}).Where("id = ?", cartID)
	if expected != nil {
		query = query.Where("version = ?", *expected)
	}
	result := query.UpdateColumn("version", gorm.Expr("version + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
