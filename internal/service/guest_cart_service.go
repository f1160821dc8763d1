package service

import (
	"context"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"github.com/google/uuid"
)

const defaultGuestCartTTL = 7 * 24 * time.Hour

// GuestCartService 游客购物车服务（缓存存储，按游客ID隔离）
type GuestCartService struct {
	store    cache.Store
	ttl      time.Duration
	resolver variantResolver
}

// NewGuestCartService 创建游客购物车服务
func NewGuestCartService(store cache.Store, productRepo repository.ProductRepository, ttl time.Duration) *GuestCartService {
	if store == nil {
		store = cache.Default()
	}
	if ttl <= 0 {
		ttl = defaultGuestCartTTL
	}
	return &GuestCartService{
		store:    store,
		ttl:      ttl,
		resolver: variantResolver{productRepo: productRepo},
	}
}

func guestCartKey(guestID string) string {
	return "guest_cart:" + guestID
}

// Get 读取游客购物车，不存在时返回空车
func (s *GuestCartService) Get(ctx context.Context, guestID string) (*models.GuestCart, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return emptyGuestCart(), nil
	}
	var cart models.GuestCart
	found, err := s.store.GetJSON(ctx, guestCartKey(guestID), &cart)
	if err != nil {
		return nil, err
	}
	if !found {
		return emptyGuestCart(), nil
	}
	if cart.Items == nil {
		cart.Items = []models.GuestCartItem{}
	}
	cart.Recalculate()
	return &cart, nil
}

// AddItem 加入游客购物车，相同款式与选项合并数量
func (s *GuestCartService) AddItem(ctx context.Context, guestID string, input CartItemInput) (*models.GuestCart, error) {
	quantity, err := normalizeAddQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.resolve(input.ProductVariantID, input.OptionType, input.OptionID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, guestID, input.BaseVersion, func(cart *models.GuestCart) error {
		// 立即购买留下的单品车在普通加购时恢复为常规购物车
		cart.IsBuyNow = false
		for idx := range cart.Items {
			item := &cart.Items[idx]
			if item.ProductVariantID != resolved.Variant.ID || item.OptionType != resolved.Option.Type() || item.OptionID != resolved.Option.ID() {
				continue
			}
			merged := item.Quantity + quantity
			if err := checkStock(resolved.Variant, merged); err != nil {
				return err
			}
			item.Quantity = merged
			item.Snapshot = resolved.Snapshot()
			item.PriceAtAddition = resolved.Variant.FinalPrice.MulQty(merged)
			return nil
		}
		if err := checkStock(resolved.Variant, quantity); err != nil {
			return err
		}
		cart.Items = append(cart.Items, newGuestCartItem(resolved, quantity))
		return nil
	})
}

// UpdateQuantity 增减游客购物车数量
func (s *GuestCartService) UpdateQuantity(ctx context.Context, guestID, itemID, action string, baseVersion *int64) (*models.GuestCart, error) {
	if action != constants.CartActionIncrement && action != constants.CartActionDecrement {
		return nil, ErrCartActionInvalid
	}
	return s.mutate(ctx, guestID, baseVersion, func(cart *models.GuestCart) error {
		item := findGuestItem(cart, itemID)
		if item == nil {
			return ErrCartItemNotFound
		}
		item.Quantity = nextQuantity(item.Quantity, action)
		item.PriceAtAddition = item.Snapshot.FinalPrice.MulQty(item.Quantity)
		return nil
	})
}

// RemoveItem 删除游客购物车项
func (s *GuestCartService) RemoveItem(ctx context.Context, guestID, itemID string, baseVersion *int64) (*models.GuestCart, error) {
	return s.mutate(ctx, guestID, baseVersion, func(cart *models.GuestCart) error {
		for idx := range cart.Items {
			if cart.Items[idx].ID == itemID {
				cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
				return nil
			}
		}
		return ErrCartItemNotFound
	})
}

// Clear 清空游客购物车
func (s *GuestCartService) Clear(ctx context.Context, guestID string) error {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil
	}
	return s.store.Del(ctx, guestCartKey(guestID))
}

// Replace 用单个商品替换游客购物车并标记为立即购买
func (s *GuestCartService) Replace(ctx context.Context, guestID string, input CartItemInput) (*models.GuestCart, error) {
	quantity, err := normalizeAddQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.resolve(input.ProductVariantID, input.OptionType, input.OptionID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(resolved.Variant, quantity); err != nil {
		return nil, err
	}
	return s.mutate(ctx, guestID, nil, func(cart *models.GuestCart) error {
		cart.Items = []models.GuestCartItem{newGuestCartItem(resolved, quantity)}
		cart.IsBuyNow = true
		return nil
	})
}

func (s *GuestCartService) mutate(ctx context.Context, guestID string, baseVersion *int64, fn func(cart *models.GuestCart) error) (*models.GuestCart, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, ErrInvalidInput
	}
	cart, err := s.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if baseVersion != nil && *baseVersion != cart.Version {
		return cart, ErrCartVersionConflict
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	cart.Version++
	cart.Recalculate()
	if err := s.store.SetJSON(ctx, guestCartKey(guestID), cart, s.ttl); err != nil {
		return nil, err
	}
	return cart, nil
}

func newGuestCartItem(resolved *resolvedVariant, quantity int) models.GuestCartItem {
	return models.GuestCartItem{
		ID:               uuid.NewString(),
		ProductVariantID: resolved.Variant.ID,
		OptionID:         resolved.Option.ID(),
		OptionType:       resolved.Option.Type(),
		Quantity:         quantity,
		PriceAtAddition:  resolved.Variant.FinalPrice.MulQty(quantity),
		Snapshot:         resolved.Snapshot(),
	}
}

func findGuestItem(cart *models.GuestCart, itemID string) *models.GuestCartItem {
	for idx := range cart.Items {
		if cart.Items[idx].ID == itemID {
			return &cart.Items[idx]
		}
	}
	return nil
}

func emptyGuestCart() *models.GuestCart {
	return &models.GuestCart{Items: []models.GuestCartItem{}}
}
