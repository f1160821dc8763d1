package service

import (
	"context"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/models"
)

// BuyNowActor 立即购买发起方：顾客或游客，二选一
type BuyNowActor struct {
	CustomerID uint
	GuestID    string
}

// BuyNowResult 立即购买结果
type BuyNowResult struct {
	Redirect  string            `json:"redirect"`
	Intent    *CartItemInput    `json:"intent,omitempty"`
	Cart      *CartView         `json:"cart,omitempty"`
	GuestCart *models.GuestCart `json:"guest_cart,omitempty"`
}

// BuyNowService 立即购买服务
type BuyNowService struct {
	carts      *CartService
	guestCarts *GuestCartService
}

// NewBuyNowService 创建立即购买服务
func NewBuyNowService(carts *CartService, guestCarts *GuestCartService) *BuyNowService {
	return &BuyNowService{carts: carts, guestCarts: guestCarts}
}

// BuyNow 已登录时用该商品替换购物车并进入结算；游客替换游客购物车并要求登录
func (s *BuyNowService) BuyNow(ctx context.Context, actor BuyNowActor, item CartItemInput) (*BuyNowResult, error) {
	item.BaseVersion = nil
	if actor.CustomerID != 0 {
		view, err := s.carts.ReplaceWith(actor.CustomerID, item)
		if err != nil {
			return nil, err
		}
		logger.Infow("buy_now_cart_replaced",
			"customer_id", actor.CustomerID,
			"variant_id", item.ProductVariantID,
		)
		return &BuyNowResult{Redirect: constants.RedirectCheckout, Cart: view}, nil
	}

	guestID := strings.TrimSpace(actor.GuestID)
	if guestID == "" {
		return nil, ErrInvalidInput
	}
	cart, err := s.guestCarts.Replace(ctx, guestID, item)
	if err != nil {
		return nil, err
	}
	intent := item
	if intent.Quantity <= 0 {
		intent.Quantity = 1
	}
	return &BuyNowResult{Redirect: constants.RedirectLogin, Intent: &intent, GuestCart: cart}, nil
}
