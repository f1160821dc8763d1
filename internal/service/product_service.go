package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

const recentlyViewedTTL = 30 * 24 * time.Hour

// ProductService 商品浏览与最近浏览记录
type ProductService struct {
	productRepo repository.ProductRepository
	store       cache.Store
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, store cache.Store) *ProductService {
	if store == nil {
		store = cache.Default()
	}
	return &ProductService{productRepo: productRepo, store: store}
}

// ProductListInput 商品列表参数
type ProductListInput struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

// Viewer 浏览者标识，顾客优先于游客
type Viewer struct {
	CustomerID uint
	GuestID    string
}

func (v Viewer) key() string {
	if v.CustomerID != 0 {
		return fmt.Sprintf("recently_viewed:customer:%d", v.CustomerID)
	}
	if guestID := strings.TrimSpace(v.GuestID); guestID != "" {
		return "recently_viewed:guest:" + guestID
	}
	return ""
}

// List 上架商品列表
func (s *ProductService) List(input ProductListInput) ([]models.Product, int64, error) {
	return s.productRepo.List(repository.ProductListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		Category:   strings.TrimSpace(input.Category),
		Search:     strings.TrimSpace(input.Search),
		OnlyActive: true,
	})
}

// Detail 商品详情，并记入浏览者的最近浏览
func (s *ProductService) Detail(ctx context.Context, slug string, viewer Viewer) (*models.Product, error) {
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
	if key := viewer.key(); key != "" {
		value := strconv.FormatUint(uint64(product.ID), 10)
		if err := s.store.PushCapped(ctx, key, value, constants.RecentlyViewedLimit, recentlyViewedTTL); err != nil {
			logger.Warnw("recently_viewed_push_failed", "product_id", product.ID, "error", err)
		}
	}
	return product, nil
}

// RecentlyViewed 最近浏览的上架商品，按浏览时间倒序
func (s *ProductService) RecentlyViewed(ctx context.Context, viewer Viewer) ([]models.Product, error) {
	key := viewer.key()
	if key == "" {
		return []models.Product{}, nil
	}
	values, err := s.store.ListRange(ctx, key, constants.RecentlyViewedLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			ordered = append(ordered, product)
		}
	}
	return ordered, nil
}
