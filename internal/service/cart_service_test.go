package service

import (
	"errors"
	"testing"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, catalogFixture, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t, "cart_service_test")
	fixture := seedCatalog(t, db)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	return svc, fixture, db
}

func TestCartServiceAddItemMergesSameOption(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	if _, err := svc.AddItem(1, f.ringInput(1)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	view, err := svc.AddItem(1, f.ringInput(2))
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected merged single line, got %d", len(view.Cart.Items))
	}
	item := view.Cart.Items[0]
	if item.Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", item.Quantity)
	}
	if item.PriceAtAddition.String() != "3000.00" {
		t.Fatalf("price_at_addition want 3000.00 got %s", item.PriceAtAddition.String())
	}
	if view.Cart.Version != 2 {
		t.Fatalf("version want 2 got %d", view.Cart.Version)
	}
	if view.Summary.CartItemsCount != 3 || view.Summary.GrandTotal.String() != "3000.00" ||
		view.Summary.SubTotal.String() != "3600.00" || view.Summary.TotalDiscount.String() != "600.00" {
		t.Fatalf("unexpected summary: %+v", view.Summary)
	}
}

func TestCartServiceDifferentOptionsAreSeparateLines(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	if _, err := svc.AddItem(1, f.ringInput(1)); err != nil {
		t.Fatalf("add size 12 failed: %v", err)
	}
	other := f.ringInput(1)
	other.OptionID = f.RingSize14.ID
	view, err := svc.AddItem(1, other)
	if err != nil {
		t.Fatalf("add size 14 failed: %v", err)
	}
	if len(view.Cart.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(view.Cart.Items))
	}
}

func TestCartServiceRejectsInvalidOptions(t *testing.T) {
	svc, f, db := setupCartServiceTest(t)

	wrongType := f.ringInput(1)
	wrongType.OptionType = "COLOUR"
	if _, err := svc.AddItem(1, wrongType); !errors.Is(err, ErrOptionTypeInvalid) {
		t.Fatalf("expected option type invalid, got %v", err)
	}

	foreign := f.ringInput(1)
	foreign.OptionType = constants.OptionTypeScrewOption
	foreign.OptionID = f.StudScrew.ID
	if _, err := svc.AddItem(1, foreign); !errors.Is(err, ErrOptionMismatch) {
		t.Fatalf("expected option mismatch, got %v", err)
	}

	if err := db.Model(&models.ProductVariant{}).Where("id = ?", f.RingGold.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate variant failed: %v", err)
	}
	if _, err := svc.AddItem(1, f.ringInput(1)); !errors.Is(err, ErrVariantInactive) {
		t.Fatalf("expected variant inactive, got %v", err)
	}
}

func TestCartServiceStockLimit(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	view, err := svc.AddItem(1, f.studInput(2))
	if err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	if _, err := svc.UpdateQuantity(1, view.Cart.Items[0].ID, constants.CartActionIncrement, nil); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected stock insufficient, got %v", err)
	}
}

func TestCartServiceDecrementClampsAtOne(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	view, err := svc.AddItem(1, f.ringInput(2))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	itemID := view.Cart.Items[0].ID
	for i := 0; i < 3; i++ {
		view, err = svc.UpdateQuantity(1, itemID, constants.CartActionDecrement, nil)
		if err != nil {
			t.Fatalf("decrement failed: %v", err)
		}
	}
	if view.Cart.Items[0].Quantity != 1 {
		t.Fatalf("quantity should clamp at 1, got %d", view.Cart.Items[0].Quantity)
	}
	if view.Cart.Items[0].PriceAtAddition.String() != "1000.00" {
		t.Fatalf("price should follow quantity, got %s", view.Cart.Items[0].PriceAtAddition.String())
	}

	if _, err := svc.UpdateQuantity(1, itemID, "double", nil); !errors.Is(err, ErrCartActionInvalid) {
		t.Fatalf("expected invalid action, got %v", err)
	}
}

func TestCartServiceVersionConflictReturnsCurrentCart(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	view, err := svc.AddItem(1, f.ringInput(1))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	stale := view.Cart.Version - 1
	input := f.studInput(1)
	input.BaseVersion = &stale

	current, err := svc.AddItem(1, input)
	if !errors.Is(err, ErrCartVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if current == nil || current.Cart.Version != view.Cart.Version || len(current.Cart.Items) != 1 {
		t.Fatalf("conflict should return unchanged cart, got %+v", current)
	}

	fresh := view.Cart.Version
	input.BaseVersion = &fresh
	updated, err := svc.AddItem(1, input)
	if err != nil {
		t.Fatalf("add with fresh version failed: %v", err)
	}
	if updated.Cart.Version != fresh+1 || len(updated.Cart.Items) != 2 {
		t.Fatalf("unexpected cart after fresh add: %+v", updated.Cart)
	}
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	if _, err := svc.AddItem(1, f.ringInput(1)); err != nil {
		t.Fatalf("add ring failed: %v", err)
	}
	view, err := svc.AddItem(1, f.studInput(1))
	if err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	view, err = svc.RemoveItem(1, view.Cart.Items[0].ID, nil)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected one line after remove, got %d", len(view.Cart.Items))
	}
	if _, err := svc.RemoveItem(1, 99999, nil); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
	view, err = svc.Clear(1)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !view.Empty() {
		t.Fatalf("cart should be empty after clear")
	}
}

func TestCartServiceHidesInactiveVariants(t *testing.T) {
	svc, f, db := setupCartServiceTest(t)

	if _, err := svc.AddItem(1, f.ringInput(1)); err != nil {
		t.Fatalf("add ring failed: %v", err)
	}
	if _, err := svc.AddItem(1, f.studInput(1)); err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", f.Stud.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}
	view, err := svc.Fetch(1)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Summary.GrandTotal.String() != "1000.00" {
		t.Fatalf("inactive product should be hidden, got %+v", view)
	}
}

func TestCartServiceReplaceWith(t *testing.T) {
	svc, f, _ := setupCartServiceTest(t)

	if _, err := svc.AddItem(1, f.ringInput(3)); err != nil {
		t.Fatalf("add ring failed: %v", err)
	}
	view, err := svc.ReplaceWith(1, f.studInput(1))
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].ProductVariantID != f.StudPlain.ID {
		t.Fatalf("cart should only contain the stud, got %+v", view.Cart.Items)
	}
}
