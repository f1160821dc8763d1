package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aurelia-jewels/storefront/internal/authz"
	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

func TestProductDetailRecordsRecentlyViewed(t *testing.T) {
	db := setupServiceTestDB(t, "product_service_test")
	f := seedCatalog(t, db)
	svc := NewProductService(repository.NewProductRepository(db), cache.NewMemoryStore())
	ctx := context.Background()
	viewer := Viewer{GuestID: "guest-rv"}

	if _, err := svc.Detail(ctx, f.Ring.Slug, viewer); err != nil {
		t.Fatalf("ring detail failed: %v", err)
	}
	if _, err := svc.Detail(ctx, f.Stud.Slug, viewer); err != nil {
		t.Fatalf("stud detail failed: %v", err)
	}
	if _, err := svc.Detail(ctx, f.Ring.Slug, viewer); err != nil {
		t.Fatalf("ring detail again failed: %v", err)
	}
	recent, err := svc.RecentlyViewed(ctx, viewer)
	if err != nil {
		t.Fatalf("recently viewed failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != f.Ring.ID || recent[1].ID != f.Stud.ID {
		t.Fatalf("unexpected recently viewed order: %+v", recent)
	}

	other, err := svc.RecentlyViewed(ctx, Viewer{CustomerID: 42})
	if err != nil || len(other) != 0 {
		t.Fatalf("other viewer should have no history, got %v err=%v", other, err)
	}
	if _, err := svc.Detail(ctx, "missing", viewer); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestRecentlyViewedIsCapped(t *testing.T) {
	db := setupServiceTestDB(t, "recently_viewed_cap_test")
	repo := repository.NewProductRepository(db)
	svc := NewProductService(repo, cache.NewMemoryStore())
	ctx := context.Background()
	viewer := Viewer{CustomerID: 7}

	for i := 0; i < 12; i++ {
		product := models.Product{Slug: fmt.Sprintf("chain-%d", i), Name: fmt.Sprintf("Chain %d", i), IsActive: true}
		mustCreate(t, db, &product)
		if _, err := svc.Detail(ctx, product.Slug, viewer); err != nil {
			t.Fatalf("detail %d failed: %v", i, err)
		}
	}
	recent, err := svc.RecentlyViewed(ctx, viewer)
	if err != nil {
		t.Fatalf("recently viewed failed: %v", err)
	}
	if len(recent) != 10 || recent[0].Slug != "chain-11" {
		t.Fatalf("expected 10 most recent products, got %d first=%s", len(recent), recent[0].Slug)
	}
}

func TestAddressCreateDefaultHandling(t *testing.T) {
	db := setupServiceTestDB(t, "address_service_test")
	customer := seedCustomer(t, db, "addr@example.com")
	svc := NewAddressService(repository.NewAddressRepository(db))

	input := AddressInput{Name: "Asha", Phone: "9876543210", Line1: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"}
	first, err := svc.Create(customer.ID, input)
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if !first.IsDefault || first.Country != "IN" {
		t.Fatalf("first address should be default in IN: %+v", first)
	}

	input.Line1 = "4 Park Street"
	input.IsDefault = true
	second, err := svc.Create(customer.ID, input)
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	list, err := svc.List(customer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].IsDefault {
		t.Fatalf("only the newest default should remain default: %+v", list)
	}

	if _, err := svc.Create(customer.ID, AddressInput{Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	db := setupServiceTestDB(t, "wishlist_service_test")
	f := seedCatalog(t, db)
	customer := seedCustomer(t, db, "wish@example.com")
	svc := NewWishlistService(repository.NewWishlistRepository(db), repository.NewProductRepository(db))

	if _, err := svc.Add(customer.ID, f.RingGold.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	items, err := svc.Add(customer.ID, f.RingGold.ID)
	if err != nil {
		t.Fatalf("add again failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductVariant == nil {
		t.Fatalf("expected one wishlist item with variant, got %+v", items)
	}
	if _, err := svc.Add(customer.ID, 99999); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got %v", err)
	}
	items, err = svc.Remove(customer.ID, f.RingGold.ID)
	if err != nil || len(items) != 0 {
		t.Fatalf("remove failed: items=%v err=%v", items, err)
	}
}

func TestReviewCreateRules(t *testing.T) {
	db := setupServiceTestDB(t, "review_service_test")
	f := seedCatalog(t, db)
	customer := seedCustomer(t, db, "review@example.com")
	svc := NewReviewService(repository.NewReviewRepository(db), repository.NewProductRepository(db))

	if _, err := svc.Create(customer.ID, f.Ring.Slug, ReviewInput{Rating: 6}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("expected rating invalid, got %v", err)
	}
	if _, err := svc.Create(customer.ID, f.Ring.Slug, ReviewInput{Rating: 5, Comment: " Stunning "}); err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if _, err := svc.Create(customer.ID, f.Ring.Slug, ReviewInput{Rating: 4}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected review exists, got %v", err)
	}
	reviews, total, err := svc.ListByProduct(f.Ring.Slug, 1, 20)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if total != 1 || reviews[0].Comment != "Stunning" || reviews[0].Customer == nil {
		t.Fatalf("unexpected reviews: total=%d %+v", total, reviews)
	}
}

func TestNotificationMarkRead(t *testing.T) {
	db := setupServiceTestDB(t, "notification_service_test")
	customer := seedCustomer(t, db, "note@example.com")
	other := seedCustomer(t, db, "other@example.com")
	notification := models.Notification{CustomerID: customer.ID, Title: "Order paid"}
	mustCreate(t, db, &notification)
	svc := NewNotificationService(repository.NewNotificationRepository(db))

	if err := svc.MarkRead(other.ID, notification.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("other customer must not mark read, got %v", err)
	}
	if err := svc.MarkRead(customer.ID, notification.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	list, total, err := svc.List(customer.ID, 1, 20)
	if err != nil || total != 1 || list[0].ReadAt == nil {
		t.Fatalf("notification should be read: %+v total=%d err=%v", list, total, err)
	}
}

func TestAdminRoleAssignment(t *testing.T) {
	db := setupServiceTestDB(t, "admin_role_service_test")
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	admin := models.Admin{Username: "support-1", PasswordHash: "hash"}
	mustCreate(t, db, &admin)
	svc := NewAdminRoleService(repository.NewAdminRepository(db), authzService)

	roles, err := svc.AssignRoles(1, admin.ID, []string{"support"})
	if err != nil {
		t.Fatalf("assign roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "support" {
		t.Fatalf("unexpected roles: %v", roles)
	}
	if _, err := svc.AssignRoles(1, admin.ID, []string{"owner"}); !errors.Is(err, ErrAdminRoleInvalid) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	if _, err := svc.AssignRoles(1, 99999, []string{"support"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected admin not found, got %v", err)
	}
}
