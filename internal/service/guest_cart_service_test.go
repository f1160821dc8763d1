package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

func setupGuestCartServiceTest(t *testing.T) (*GuestCartService, catalogFixture, cache.Store) {
	t.Helper()
	db := setupServiceTestDB(t, "guest_cart_service_test")
	fixture := seedCatalog(t, db)
	store := cache.NewMemoryStore()
	svc := NewGuestCartService(store, repository.NewProductRepository(db), time.Hour)
	return svc, fixture, store
}

func TestGuestCartAddMergesAndTotals(t *testing.T) {
	svc, f, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "guest-1", f.ringInput(1)); err != nil {
		t.Fatalf("add ring failed: %v", err)
	}
	if _, err := svc.AddItem(ctx, "guest-1", f.ringInput(1)); err != nil {
		t.Fatalf("add ring again failed: %v", err)
	}
	cart, err := svc.AddItem(ctx, "guest-1", f.studInput(1))
	if err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	if cart.Count != 2 {
		t.Fatalf("count should be number of lines, got %d", cart.Count)
	}
	if cart.Items[0].Quantity != 2 || cart.Items[0].PriceAtAddition.String() != "2000.00" {
		t.Fatalf("ring line not merged: %+v", cart.Items[0])
	}
	if cart.Total.String() != "4500.00" {
		t.Fatalf("total want 4500.00 got %s", cart.Total.String())
	}
	if cart.Items[0].Snapshot.ProductName != "Solitaire Ring" || cart.Items[0].Snapshot.OptionLabel != "12" {
		t.Fatalf("unexpected snapshot: %+v", cart.Items[0].Snapshot)
	}
	if cart.Version != 3 {
		t.Fatalf("version want 3 got %d", cart.Version)
	}
}

func TestGuestCartRoundTrip(t *testing.T) {
	svc, f, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	stored, err := svc.AddItem(ctx, "guest-rt", f.ringInput(2))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	loaded, err := svc.Get(ctx, "guest-rt")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Count != stored.Count || !loaded.Total.Equal(stored.Total) || len(loaded.Items) != len(stored.Items) {
		t.Fatalf("round trip mismatch: stored=%+v loaded=%+v", stored, loaded)
	}
	if loaded.Items[0].ID != stored.Items[0].ID || loaded.Items[0].Quantity != 2 {
		t.Fatalf("item mismatch: %+v", loaded.Items[0])
	}
}

func TestGuestCartMissingIsEmpty(t *testing.T) {
	svc, _, _ := setupGuestCartServiceTest(t)
	cart, err := svc.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if cart.Count != 0 || len(cart.Items) != 0 || !cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestGuestCartUpdateRemoveClear(t *testing.T) {
	svc, f, store := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "guest-2", f.ringInput(2))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	itemID := cart.Items[0].ID
	for i := 0; i < 3; i++ {
		cart, err = svc.UpdateQuantity(ctx, "guest-2", itemID, constants.CartActionDecrement, nil)
		if err != nil {
			t.Fatalf("decrement failed: %v", err)
		}
	}
	if cart.Items[0].Quantity != 1 || cart.Total.String() != "1000.00" {
		t.Fatalf("decrement should clamp at 1: %+v", cart.Items[0])
	}
	if _, err := svc.UpdateQuantity(ctx, "guest-2", "missing", constants.CartActionIncrement, nil); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}

	cart, err = svc.RemoveItem(ctx, "guest-2", itemID, nil)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if cart.Count != 0 {
		t.Fatalf("expected empty after remove, got %d", cart.Count)
	}

	if _, err := svc.AddItem(ctx, "guest-2", f.ringInput(1)); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	if err := svc.Clear(ctx, "guest-2"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	var raw models.GuestCart
	found, err := store.GetJSON(ctx, guestCartKey("guest-2"), &raw)
	if err != nil || found {
		t.Fatalf("guest cart key should be deleted, found=%v err=%v", found, err)
	}
}

func TestGuestCartVersionConflict(t *testing.T) {
	svc, f, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "guest-3", f.ringInput(1))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	stale := int64(0)
	current, err := svc.RemoveItem(ctx, "guest-3", cart.Items[0].ID, &stale)
	if !errors.Is(err, ErrCartVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if current == nil || current.Count != 1 {
		t.Fatalf("conflict should return current cart, got %+v", current)
	}
}

func TestGuestCartReplaceMarksBuyNow(t *testing.T) {
	svc, f, _ := setupGuestCartServiceTest(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "guest-4", f.ringInput(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := svc.Replace(ctx, "guest-4", f.studInput(1))
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if !cart.IsBuyNow || cart.Count != 1 || cart.Items[0].ProductVariantID != f.StudPlain.ID {
		t.Fatalf("unexpected buy now cart: %+v", cart)
	}
	cart, err = svc.AddItem(ctx, "guest-4", f.ringInput(1))
	if err != nil {
		t.Fatalf("add after buy now failed: %v", err)
	}
	if cart.IsBuyNow {
		t.Fatalf("regular add should clear buy now flag")
	}
}
