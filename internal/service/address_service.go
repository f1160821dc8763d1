package service

import (
	"strings"

	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

// AddressService 收货地址
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// AddressInput 新增地址参数
type AddressInput struct {
	Name      string
	Phone     string
	Line1     string
	Line2     string
	City      string
	State     string
	Pincode   string
	Country   string
	IsDefault bool
}

// List 顾客地址列表
func (s *AddressService) List(customerID uint) ([]models.Address, error) {
	if customerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.addressRepo.ListByCustomer(customerID)
}

// Create 新增地址；首个地址或显式默认时取消其他默认地址
func (s *AddressService) Create(customerID uint, input AddressInput) (*models.Address, error) {
	if customerID == 0 {
		return nil, ErrInvalidInput
	}
	address := &models.Address{
		CustomerID: customerID,
		Name:       strings.TrimSpace(input.Name),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      strings.TrimSpace(input.Line2),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		Pincode:    strings.TrimSpace(input.Pincode),
		Country:    strings.ToUpper(strings.TrimSpace(input.Country)),
		IsDefault:  input.IsDefault,
	}
	if address.Name == "" || address.Phone == "" || address.Line1 == "" ||
		address.City == "" || address.State == "" || address.Pincode == "" {
		return nil, ErrInvalidInput
	}
	if address.Country == "" {
		address.Country = "IN"
	}

	existing, err := s.addressRepo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		address.IsDefault = true
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(customerID); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}
