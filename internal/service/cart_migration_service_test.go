package service

import (
	"context"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

type migrationFixture struct {
	migration  *CartMigrationService
	carts      *CartService
	guestCarts *GuestCartService
	catalog    catalogFixture
	db         *gorm.DB
}

func setupCartMigrationTest(t *testing.T) migrationFixture {
	t.Helper()
	db := setupServiceTestDB(t, "cart_migration_test")
	catalog := seedCatalog(t, db)
	productRepo := repository.NewProductRepository(db)
	carts := NewCartService(repository.NewCartRepository(db), productRepo)
	guestCarts := NewGuestCartService(cache.NewMemoryStore(), productRepo, time.Hour)
	buyNow := NewBuyNowService(carts, guestCarts)
	return migrationFixture{
		migration:  NewCartMigrationService(carts, guestCarts, buyNow, 4),
		carts:      carts,
		guestCarts: guestCarts,
		catalog:    catalog,
		db:         db,
	}
}

func TestMigrateGuestCartAllSettled(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()
	guestID := "guest-migrate"

	if _, err := fx.guestCarts.AddItem(ctx, guestID, fx.catalog.ringInput(1)); err != nil {
		t.Fatalf("add ring failed: %v", err)
	}
	size14 := fx.catalog.ringInput(2)
	size14.OptionID = fx.catalog.RingSize14.ID
	if _, err := fx.guestCarts.AddItem(ctx, guestID, size14); err != nil {
		t.Fatalf("add ring size 14 failed: %v", err)
	}
	if _, err := fx.guestCarts.AddItem(ctx, guestID, fx.catalog.studInput(1)); err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	// 耳钉在登录前下架，迁移时单项失败
	if err := fx.db.Model(&models.ProductVariant{}).Where("id = ?", fx.catalog.StudPlain.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate stud failed: %v", err)
	}

	result, err := fx.migration.MigrateGuestCart(ctx, 5, guestID)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if result.Total != 3 || result.Migrated != 2 || result.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Message != "1 of 3 items couldn't be migrated" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if result.Cart == nil || len(result.Cart.Cart.Items) != 2 || result.Cart.Summary.CartItemsCount != 3 {
		t.Fatalf("refetched cart mismatch: %+v", result.Cart)
	}

	guestCart, err := fx.guestCarts.Get(ctx, guestID)
	if err != nil {
		t.Fatalf("get guest cart failed: %v", err)
	}
	if guestCart.Count != 0 {
		t.Fatalf("guest cart should be cleared, got %d lines", guestCart.Count)
	}
}

func TestMigrateGuestCartMergesWithExistingServerCart(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()

	if _, err := fx.carts.AddItem(5, fx.catalog.ringInput(1)); err != nil {
		t.Fatalf("seed server cart failed: %v", err)
	}
	if _, err := fx.guestCarts.AddItem(ctx, "guest-merge", fx.catalog.ringInput(2)); err != nil {
		t.Fatalf("add guest ring failed: %v", err)
	}
	result, err := fx.migration.MigrateGuestCart(ctx, 5, "guest-merge")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if result.Failed != 0 || result.Message != "" {
		t.Fatalf("unexpected failure: %+v", result)
	}
	if len(result.Cart.Cart.Items) != 1 || result.Cart.Cart.Items[0].Quantity != 3 {
		t.Fatalf("guest line should merge into server line: %+v", result.Cart.Cart.Items)
	}
}

func TestMigrateEmptyGuestCartIsNoop(t *testing.T) {
	fx := setupCartMigrationTest(t)
	result, err := fx.migration.MigrateGuestCart(context.Background(), 5, "guest-empty")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if result.Total != 0 || result.Cart != nil {
		t.Fatalf("expected no-op result, got %+v", result)
	}
	var count int64
	fx.db.Model(&models.Cart{}).Where("customer_id = ?", 5).Count(&count)
	if count != 0 {
		t.Fatalf("empty migration should not create a cart")
	}
}

func TestMigrateWithAllFailuresLeavesNoCart(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()

	if _, err := fx.guestCarts.AddItem(ctx, "guest-fail", fx.catalog.studInput(1)); err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	if err := fx.db.Model(&models.Product{}).Where("id = ?", fx.catalog.Stud.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	result, err := fx.migration.MigrateGuestCart(ctx, 5, "guest-fail")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if result.Migrated != 0 || result.Failed != 1 || result.Cart != nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Message != "1 of 1 items couldn't be migrated" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestReconcileAfterLoginWithIntentRunsBuyNow(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()

	if _, err := fx.carts.AddItem(5, fx.catalog.ringInput(3)); err != nil {
		t.Fatalf("seed server cart failed: %v", err)
	}
	if _, err := fx.guestCarts.AddItem(ctx, "guest-intent", fx.catalog.ringInput(1)); err != nil {
		t.Fatalf("add guest ring failed: %v", err)
	}
	intent := fx.catalog.studInput(1)
	result, err := fx.migration.ReconcileAfterLogin(ctx, 5, "guest-intent", &intent)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.Migration != nil || result.BuyNow == nil {
		t.Fatalf("intent should take the buy now path: %+v", result)
	}
	if result.BuyNow.Redirect != constants.RedirectCheckout {
		t.Fatalf("redirect want %s got %s", constants.RedirectCheckout, result.BuyNow.Redirect)
	}
	items := result.BuyNow.Cart.Cart.Items
	if len(items) != 1 || items[0].ProductVariantID != fx.catalog.StudPlain.ID {
		t.Fatalf("cart should hold only the intent item: %+v", items)
	}
	guestCart, _ := fx.guestCarts.Get(ctx, "guest-intent")
	if guestCart.Count != 0 {
		t.Fatalf("guest cart should be cleared")
	}
}

func TestReconcileAfterLoginDerivesIntentFromGuestBuyNow(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()

	buyNow := NewBuyNowService(fx.carts, fx.guestCarts)
	guestResult, err := buyNow.BuyNow(ctx, BuyNowActor{GuestID: "guest-bn"}, fx.catalog.ringInput(1))
	if err != nil {
		t.Fatalf("guest buy now failed: %v", err)
	}
	if guestResult.Redirect != constants.RedirectLogin || guestResult.Intent == nil {
		t.Fatalf("guest buy now should redirect to login with intent: %+v", guestResult)
	}

	result, err := fx.migration.ReconcileAfterLogin(ctx, 6, "guest-bn", nil)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.BuyNow == nil || result.BuyNow.Redirect != constants.RedirectCheckout {
		t.Fatalf("expected buy now checkout redirect, got %+v", result)
	}
}
