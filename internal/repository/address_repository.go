package repository

import (
	"errors"

	"github.com/aurelia-jewels/storefront/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 收货地址数据访问接口
type AddressRepository interface {
	ListByCustomer(customerID uint) ([]models.Address, error)
	GetByIDAndCustomer(id, customerID uint) (*models.Address, error)
	Create(address *models.Address) error
	ClearDefault(customerID uint) error
	WithTx(tx *gorm.DB) *GormAddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) *GormAddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// ListByCustomer 获取顾客地址，默认地址优先
func (r *GormAddressRepository) ListByCustomer(customerID uint) ([]models.Address, error) {
	addresses := make([]models.Address, 0)
	err := r.db.Where("customer_id = ?", customerID).
		Order("is_default desc").Order("id desc").
		Find(&addresses).Error
	return addresses, err
}

// GetByIDAndCustomer 获取属于顾客的地址
func (r *GormAddressRepository) GetByIDAndCustomer(id, customerID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Where("id = ? AND customer_id = ?", id, customerID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// ClearDefault 取消顾客全部默认地址
func (r *GormAddressRepository) ClearDefault(customerID uint) error {
	return r.db.Model(&models.Address{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Update("is_default", false).Error
}
