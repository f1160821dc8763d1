package service

import (
	"context"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/metrics"
	"github.com/aurelia-jewels/storefront/internal/models"

	"golang.org/x/sync/errgroup"
)

const defaultMigrationConcurrency = 4

// MigrationResult 游客购物车迁移结果
type MigrationResult struct {
	Total    int       `json:"total"`
	Migrated int       `json:"migrated"`
	Failed   int       `json:"failed"`
	Message  string    `json:"message,omitempty"`
	Cart     *CartView `json:"cart,omitempty"`
}

// Localize 按语言生成部分失败提示
func (r *MigrationResult) Localize(locale string) {
	if r == nil || r.Failed == 0 {
		return
	}
	r.Message = i18n.Sprintf(locale, "cart.migration_partial", r.Failed, r.Total)
}

// LoginReconcileResult 登录后购物车对账结果
type LoginReconcileResult struct {
	Migration *MigrationResult `json:"migration,omitempty"`
	BuyNow    *BuyNowResult    `json:"buy_now,omitempty"`
}

// CartMigrationService 登录后将游客购物车并入顾客购物车
type CartMigrationService struct {
	carts       *CartService
	guestCarts  *GuestCartService
	buyNow      *BuyNowService
	concurrency int
}

// NewCartMigrationService 创建迁移服务
func NewCartMigrationService(carts *CartService, guestCarts *GuestCartService, buyNow *BuyNowService, concurrency int) *CartMigrationService {
	if concurrency <= 0 {
		concurrency = defaultMigrationConcurrency
	}
	return &CartMigrationService{
		carts:       carts,
		guestCarts:  guestCarts,
		buyNow:      buyNow,
		concurrency: concurrency,
	}
}

// MigrateGuestCart 并发加购每个游客购物车项，全部完成后汇总；游客购物车最终总会被清空
func (s *CartMigrationService) MigrateGuestCart(ctx context.Context, customerID uint, guestID string) (*MigrationResult, error) {
	guestID = strings.TrimSpace(guestID)
	result := &MigrationResult{}
	if guestID == "" {
		return result, nil
	}
	guestCart, err := s.guestCarts.Get(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if len(guestCart.Items) == 0 {
		return result, nil
	}
	defer s.clearGuestCart(ctx, customerID, guestID)

	if _, err := s.carts.cartRepo.Ensure(customerID); err != nil {
		return nil, err
	}

	items := guestCart.Items
	outcomes := make([]error, len(items))
	var group errgroup.Group
	group.SetLimit(s.concurrency)
	for idx := range items {
		item := items[idx]
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[idx] = err
				return nil
			}
			_, outcomes[idx] = s.carts.AddItem(customerID, guestItemInput(item))
			return nil
		})
	}
	_ = group.Wait()

	result.Total = len(items)
	for idx, outcome := range outcomes {
		if outcome == nil {
			result.Migrated++
			continue
		}
		result.Failed++
		logger.Warnw("cart_migration_item_failed",
			"customer_id", customerID,
			"variant_id", items[idx].ProductVariantID,
			"option_type", items[idx].OptionType,
			"option_id", items[idx].OptionID,
			"error", outcome,
		)
	}
	metrics.ObserveCartMigration(result.Migrated, result.Failed)
	result.Localize(i18n.DefaultLocale)

	if result.Migrated > 0 {
		view, err := s.carts.Fetch(customerID)
		if err != nil {
			logger.Warnw("cart_migration_refetch_failed", "customer_id", customerID, "error", err)
		} else {
			result.Cart = view
		}
	}
	logger.Infow("cart_migration_done",
		"customer_id", customerID,
		"total", result.Total,
		"migrated", result.Migrated,
		"failed", result.Failed,
	)
	return result, nil
}

// ReconcileAfterLogin 登录后对账：带立即购买意图时走已登录立即购买，否则迁移游客购物车
func (s *CartMigrationService) ReconcileAfterLogin(ctx context.Context, customerID uint, guestID string, intent *CartItemInput) (*LoginReconcileResult, error) {
	guestID = strings.TrimSpace(guestID)
	if intent == nil && guestID != "" {
		guestCart, err := s.guestCarts.Get(ctx, guestID)
		if err != nil {
			return nil, err
		}
		if guestCart.IsBuyNow && len(guestCart.Items) == 1 {
			derived := guestItemInput(guestCart.Items[0])
			intent = &derived
		}
	}

	if intent != nil {
		defer s.clearGuestCart(ctx, customerID, guestID)
		outcome, err := s.buyNow.BuyNow(ctx, BuyNowActor{CustomerID: customerID}, *intent)
		if err != nil {
			return nil, err
		}
		return &LoginReconcileResult{BuyNow: outcome}, nil
	}

	migration, err := s.MigrateGuestCart(ctx, customerID, guestID)
	if err != nil {
		return nil, err
	}
	return &LoginReconcileResult{Migration: migration}, nil
}

func (s *CartMigrationService) clearGuestCart(ctx context.Context, customerID uint, guestID string) {
	if guestID == "" {
		return
	}
	if err := s.guestCarts.Clear(context.WithoutCancel(ctx), guestID); err != nil {
		logger.Warnw("cart_migration_guest_clear_failed", "customer_id", customerID, "guest_id", guestID, "error", err)
	}
}

func guestItemInput(item models.GuestCartItem) CartItemInput {
	return CartItemInput{
		ProductVariantID: item.ProductVariantID,
		OptionID:         item.OptionID,
		OptionType:       item.OptionType,
		Quantity:         item.Quantity,
	}
}
