package repository

import (
	"errors"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/models"

	"gorm.io/gorm"
)

// CurrencyRepository 币种数据访问接口
type CurrencyRepository interface {
	ListActive() ([]models.Currency, error)
	ListAll() ([]models.Currency, error)
	GetByCode(code string) (*models.Currency, error)
	Save(currency *models.Currency) error
}

// GormCurrencyRepository GORM 实现
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository 创建币种仓库
func NewCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// ListActive 启用的币种，按排序权重
func (r *GormCurrencyRepository) ListActive() ([]models.Currency, error) {
	currencies := make([]models.Currency, 0)
	err := r.db.Where("is_active = ?", true).Order("sort_order asc").Order("id asc").Find(&currencies).Error
	return currencies, err
}

// ListAll 全部币种
func (r *GormCurrencyRepository) ListAll() ([]models.Currency, error) {
	currencies := make([]models.Currency, 0)
	err := r.db.Order("sort_order asc").Order("id asc").Find(&currencies).Error
	return currencies, err
}

// GetByCode 根据代码获取币种
func (r *GormCurrencyRepository) GetByCode(code string) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &currency, nil
}

// Save 新增或更新币种
func (r *GormCurrencyRepository) Save(currency *models.Currency) error {
	return r.db.Save(currency).Error
}
