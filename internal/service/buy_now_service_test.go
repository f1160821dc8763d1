package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aurelia-jewels/storefront/internal/constants"
)

func TestBuyNowGuestReplacesGuestCart(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()
	buyNow := NewBuyNowService(fx.carts, fx.guestCarts)

	if _, err := fx.guestCarts.AddItem(ctx, "guest-replace", fx.catalog.ringInput(2)); err != nil {
		t.Fatalf("seed guest cart failed: %v", err)
	}
	result, err := buyNow.BuyNow(ctx, BuyNowActor{GuestID: "guest-replace"}, fx.catalog.studInput(0))
	if err != nil {
		t.Fatalf("buy now failed: %v", err)
	}
	if result.Redirect != constants.RedirectLogin {
		t.Fatalf("redirect want %s got %s", constants.RedirectLogin, result.Redirect)
	}
	if result.Intent == nil || result.Intent.Quantity != 1 {
		t.Fatalf("intent quantity should default to 1: %+v", result.Intent)
	}
	cart, err := fx.guestCarts.Get(ctx, "guest-replace")
	if err != nil {
		t.Fatalf("get guest cart failed: %v", err)
	}
	if !cart.IsBuyNow || len(cart.Items) != 1 || cart.Items[0].ProductVariantID != fx.catalog.StudPlain.ID {
		t.Fatalf("guest cart should hold only the buy now item: %+v", cart)
	}
}

func TestBuyNowCustomerReplacesServerCart(t *testing.T) {
	fx := setupCartMigrationTest(t)
	ctx := context.Background()
	buyNow := NewBuyNowService(fx.carts, fx.guestCarts)

	if _, err := fx.carts.AddItem(11, fx.catalog.ringInput(3)); err != nil {
		t.Fatalf("seed server cart failed: %v", err)
	}
	result, err := buyNow.BuyNow(ctx, BuyNowActor{CustomerID: 11}, fx.catalog.studInput(1))
	if err != nil {
		t.Fatalf("buy now failed: %v", err)
	}
	if result.Redirect != constants.RedirectCheckout || result.Intent != nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	items := result.Cart.Cart.Items
	if len(items) != 1 || items[0].ProductVariantID != fx.catalog.StudPlain.ID || items[0].Quantity != 1 {
		t.Fatalf("server cart should hold only the stud: %+v", items)
	}
}

func TestBuyNowRequiresActor(t *testing.T) {
	fx := setupCartMigrationTest(t)
	buyNow := NewBuyNowService(fx.carts, fx.guestCarts)

	_, err := buyNow.BuyNow(context.Background(), BuyNowActor{GuestID: "  "}, fx.catalog.ringInput(1))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
