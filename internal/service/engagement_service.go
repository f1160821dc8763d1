package service

import (
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

// WishlistService 心愿单
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// List 顾客心愿单
func (s *WishlistService) List(customerID uint) ([]models.WishlistItem, error) {
	if customerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.wishlistRepo.ListByCustomer(customerID)
}

// Add 加入心愿单，重复加入不报错
func (s *WishlistService) Add(customerID, variantID uint) ([]models.WishlistItem, error) {
	if customerID == 0 || variantID == 0 {
		return nil, ErrInvalidInput
	}
	variant, err := s.productRepo.GetVariantByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	if err := s.wishlistRepo.Add(&models.WishlistItem{CustomerID: customerID, ProductVariantID: variantID}); err != nil {
		return nil, err
	}
	return s.wishlistRepo.ListByCustomer(customerID)
}

// Remove 移出心愿单
func (s *WishlistService) Remove(customerID, variantID uint) ([]models.WishlistItem, error) {
	if customerID == 0 || variantID == 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.wishlistRepo.Remove(customerID, variantID); err != nil {
		return nil, err
	}
	return s.wishlistRepo.ListByCustomer(customerID)
}

// ReviewService 商品评价
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// ReviewInput 发表评价参数
type ReviewInput struct {
	Rating  int
	Comment string
}

// ListByProduct 商品评价列表
func (s *ReviewService) ListByProduct(slug string, page, pageSize int) ([]models.Review, int64, error) {
	product, err := s.loadProduct(slug)
	if err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByProduct(product.ID, page, pageSize)
}

// Create 发表评价，每位顾客对同一商品只能评价一次
func (s *ReviewService) Create(customerID uint, slug string, input ReviewInput) (*models.Review, error) {
	if customerID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}
	product, err := s.loadProduct(slug)
	if err != nil {
		return nil, err
	}
	exist, err := s.reviewRepo.GetByProductAndCustomer(product.ID, customerID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrReviewExists
	}
	review := &models.Review{
		ProductID:  product.ID,
		CustomerID: customerID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) loadProduct(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// NotificationService 站内通知
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List 顾客通知列表
func (s *NotificationService) List(customerID uint, page, pageSize int) ([]models.Notification, int64, error) {
	if customerID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.notificationRepo.ListByCustomer(customerID, page, pageSize)
}

// MarkRead 标记通知已读；不存在、不属于该顾客或已读时返回 ErrNotificationNotFound
func (s *NotificationService) MarkRead(customerID, notificationID uint) error {
	if customerID == 0 || notificationID == 0 {
		return ErrInvalidInput
	}
	ok, err := s.notificationRepo.MarkRead(notificationID, customerID, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
