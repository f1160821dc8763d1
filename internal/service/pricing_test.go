package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

type pricingFixture struct {
	coupons   *CouponService
	giftCards *GiftCardService
	carts     *CartService
	catalog   catalogFixture
	db        *gorm.DB
}

func setupPricingTest(t *testing.T) pricingFixture {
	t.Helper()
	db := setupServiceTestDB(t, "pricing_test")
	catalog := seedCatalog(t, db)
	return pricingFixture{
		coupons:   NewCouponService(repository.NewCouponRepository(db), repository.NewCouponUsageRepository(db)),
		giftCards: NewGiftCardService(repository.NewGiftCardRepository(db)),
		carts:     NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db)),
		catalog:   catalog,
		db:        db,
	}
}

// cartWithRingAndStud 戒指 ×2（2000）+ 耳钉 ×1（2500），grand_total 4500
func (fx pricingFixture) cartWithRingAndStud(t *testing.T, customerID uint) *CartView {
	t.Helper()
	if _, err := fx.carts.AddItem(customerID, fx.catalog.ringInput(2)); err != nil {
		t.Fatalf("add ring failed: %v", err)
	}
	view, err := fx.carts.AddItem(customerID, fx.catalog.studInput(1))
	if err != nil {
		t.Fatalf("add stud failed: %v", err)
	}
	return view
}

func TestApplyCouponRequiresCode(t *testing.T) {
	fx := setupPricingTest(t)
	view := fx.cartWithRingAndStud(t, 1)
	if _, err := fx.coupons.ApplyCoupon("   ", 1, view); !errors.Is(err, ErrCouponCodeRequired) {
		t.Fatalf("expected code required, got %v", err)
	}
}

func TestApplyCouponDiscounts(t *testing.T) {
	fx := setupPricingTest(t)
	view := fx.cartWithRingAndStud(t, 1)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	coupons := []models.Coupon{
		{Code: "FLAT500", Type: constants.CouponTypeFixed, Value: models.MustMoney("500"), IsActive: true},
		{Code: "TENPCT", Type: constants.CouponTypePercent, Value: models.MustMoney("10"), MaxDiscount: models.MustMoney("300"), IsActive: true},
		{Code: "RINGS20", Type: constants.CouponTypePercent, Value: models.MustMoney("20"), Scope: constants.ScopeTypeProduct, ProductIDs: fmt.Sprintf("[%d]", fx.catalog.Ring.ID), IsActive: true},
		{Code: "HUGE", Type: constants.CouponTypeFixed, Value: models.MustMoney("99999"), Scope: constants.ScopeTypeProduct, ProductIDs: fmt.Sprintf("[%d]", fx.catalog.Ring.ID), IsActive: true},
		{Code: "MIN9000", Type: constants.CouponTypeFixed, Value: models.MustMoney("100"), MinAmount: models.MustMoney("9000"), IsActive: true},
		{Code: "LATER", Type: constants.CouponTypeFixed, Value: models.MustMoney("100"), StartsAt: &future, IsActive: true},
		{Code: "GONE", Type: constants.CouponTypeFixed, Value: models.MustMoney("100"), EndsAt: &past, IsActive: true},
		{Code: "USEDUP", Type: constants.CouponTypeFixed, Value: models.MustMoney("100"), UsageLimit: 1, UsedCount: 1, IsActive: true},
		{Code: "OTHER", Type: constants.CouponTypeFixed, Value: models.MustMoney("100"), Scope: constants.ScopeTypeProduct, ProductIDs: "[987654]", IsActive: true},
	}
	for idx := range coupons {
		mustCreate(t, fx.db, &coupons[idx])
	}

	cases := []struct {
		code      string
		discount  string
		final     string
		wantError error
	}{
		{code: "flat500", discount: "500.00", final: "4000.00"},
		{code: "TENPCT", discount: "300.00", final: "4200.00"},
		{code: "RINGS20", discount: "400.00", final: "4100.00"},
		{code: "HUGE", discount: "2000.00", final: "2500.00"},
		{code: "MIN9000", wantError: ErrCouponMinAmount},
		{code: "LATER", wantError: ErrCouponNotStarted},
		{code: "GONE", wantError: ErrCouponExpired},
		{code: "USEDUP", wantError: ErrCouponUsageLimit},
		{code: "OTHER", wantError: ErrCouponScopeInvalid},
		{code: "MISSING", wantError: ErrCouponNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			applied, err := fx.coupons.ApplyCoupon(tc.code, 1, view)
			if tc.wantError != nil {
				if !errors.Is(err, tc.wantError) {
					t.Fatalf("want %v got %v", tc.wantError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if applied.DiscountAmount.String() != tc.discount || applied.FinalAmount.String() != tc.final {
				t.Fatalf("want discount=%s final=%s, got %s/%s", tc.discount, tc.final, applied.DiscountAmount, applied.FinalAmount)
			}
			if applied.GrandTotal.String() != "4500.00" {
				t.Fatalf("grand total want 4500.00 got %s", applied.GrandTotal)
			}
		})
	}
}

func TestApplyCouponPerCustomerLimit(t *testing.T) {
	fx := setupPricingTest(t)
	view := fx.cartWithRingAndStud(t, 3)
	coupon := models.Coupon{Code: "ONCE", Type: constants.CouponTypeFixed, Value: models.MustMoney("100"), PerCustomerLimit: 1, IsActive: true}
	mustCreate(t, fx.db, &coupon)
	mustCreate(t, fx.db, &models.CouponUsage{CouponID: coupon.ID, CustomerID: 3, OrderID: 77, DiscountAmount: models.MustMoney("100")})

	if _, err := fx.coupons.ApplyCoupon("ONCE", 3, view); !errors.Is(err, ErrCouponPerCustomerLimit) {
		t.Fatalf("expected per user limit, got %v", err)
	}
	if _, err := fx.coupons.ApplyCoupon("ONCE", 4, view); err != nil {
		t.Fatalf("other customer should be allowed, got %v", err)
	}
}

func TestApplyGift(t *testing.T) {
	fx := setupPricingTest(t)
	past := time.Now().Add(-time.Hour)
	cards := []models.GiftCard{
		{Code: "GIFT-1000", Value: models.MustMoney("1000"), Status: constants.GiftCardStatusActive},
		{Code: "GIFT-9000", Value: models.MustMoney("9000"), Status: constants.GiftCardStatusActive},
		{Code: "GIFT-USED", Value: models.MustMoney("100"), Status: constants.GiftCardStatusRedeemed},
		{Code: "GIFT-HELD", Value: models.MustMoney("100"), Status: constants.GiftCardStatusReserved},
		{Code: "GIFT-OFF", Value: models.MustMoney("100"), Status: constants.GiftCardStatusDisabled},
		{Code: "GIFT-OLD", Value: models.MustMoney("100"), Status: constants.GiftCardStatusActive, ExpiresAt: &past},
	}
	for idx := range cards {
		mustCreate(t, fx.db, &cards[idx])
	}
	order := models.MustMoney("4500")

	applied, err := fx.giftCards.ApplyGift(" gift-1000 ", order)
	if err != nil {
		t.Fatalf("apply gift failed: %v", err)
	}
	if applied.Value.String() != "1000.00" || applied.GiftCardID != cards[0].ID {
		t.Fatalf("unexpected gift application: %+v", applied)
	}

	cases := map[string]error{
		"":          ErrGiftCardCodeRequired,
		"NOPE":      ErrGiftCardNotFound,
		"GIFT-9000": ErrGiftCardExceedsOrder,
		"GIFT-USED": ErrGiftCardRedeemed,
		"GIFT-HELD": ErrGiftCardRedeemed,
		"GIFT-OFF":  ErrGiftCardInactive,
		"GIFT-OLD":  ErrGiftCardExpired,
	}
	for code, want := range cases {
		if _, err := fx.giftCards.ApplyGift(code, order); !errors.Is(err, want) {
			t.Fatalf("%q: want %v got %v", code, want, err)
		}
	}
}

func TestCombineTotals(t *testing.T) {
	grand := models.MustMoney("4500")
	coupon := &CouponApplication{FinalAmount: models.MustMoney("4000"), DiscountAmount: models.MustMoney("500")}
	gift := &GiftApplication{Value: models.MustMoney("1000")}

	cases := []struct {
		name   string
		coupon *CouponApplication
		gift   *GiftApplication
		want   string
	}{
		{name: "none", want: "4500.00"},
		{name: "coupon only", coupon: coupon, want: "4000.00"},
		{name: "gift only", gift: gift, want: "3500.00"},
		{name: "both", coupon: coupon, gift: gift, want: "3000.00"},
		{name: "clamped", coupon: &CouponApplication{FinalAmount: models.MustMoney("500")}, gift: gift, want: "0.00"},
	}
	for _, tc := range cases {
		if got := CombineTotals(grand, tc.coupon, tc.gift); got.String() != tc.want {
			t.Fatalf("%s: want %s got %s", tc.name, tc.want, got)
		}
	}
}
