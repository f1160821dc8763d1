package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCurrencyServiceTest(t *testing.T) (*CurrencyService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t, "currency_service_test")
	if err := models.InitBaseCurrency("INR"); err != nil {
		t.Fatalf("seed base currency failed: %v", err)
	}
	mustCreate(t, db, &models.Currency{Code: "USD", Symbol: "$", ExchangeRate: decimal.RequireFromString("0.012"), IsActive: true, SortOrder: 1})
	svc := NewCurrencyService(repository.NewCurrencyRepository(db), cache.NewMemoryStore(), time.Minute, "INR")
	return svc, db
}

func TestFormatIndianGrouping(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"999.5":      "999.50",
		"1000":       "1,000.00",
		"123456":     "1,23,456.00",
		"12345678.9": "1,23,45,678.90",
		"-1234567":   "-12,34,567.00",
		"100000.005": "1,00,000.01",
	}
	for raw, want := range cases {
		if got := FormatIndianGrouping(decimal.RequireFromString(raw)); got != want {
			t.Fatalf("%s: want %s got %s", raw, want, got)
		}
	}
}

func TestDisplayPrice(t *testing.T) {
	svc, _ := setupCurrencyServiceTest(t)
	ctx := context.Background()
	amount := models.MustMoney("123456")

	got, err := svc.DisplayPrice(ctx, amount, "INR")
	if err != nil {
		t.Fatalf("display inr failed: %v", err)
	}
	if got != "₹1,23,456.00" {
		t.Fatalf("unexpected inr display: %s", got)
	}

	got, err = svc.DisplayPrice(ctx, amount, "usd")
	if err != nil {
		t.Fatalf("display usd failed: %v", err)
	}
	if got != "$1,481.47" {
		t.Fatalf("unexpected usd display: %s", got)
	}

	again, _ := svc.DisplayPrice(ctx, amount, "usd")
	if again != got {
		t.Fatalf("display should be idempotent: %s vs %s", got, again)
	}
	if amount.String() != "123456.00" {
		t.Fatalf("stored amount must not change, got %s", amount)
	}

	fallback, err := svc.DisplayPrice(ctx, amount, "XYZ")
	if err != nil {
		t.Fatalf("display unknown failed: %v", err)
	}
	if fallback != "₹1,23,456.00" {
		t.Fatalf("unknown code should fall back to base, got %s", fallback)
	}
}

func TestUpdateRateInvalidatesCache(t *testing.T) {
	svc, _ := setupCurrencyServiceTest(t)
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("warm cache failed: %v", err)
	}
	if _, err := svc.UpdateRate(ctx, "USD", decimal.RequireFromString("0.02"), nil); err != nil {
		t.Fatalf("update rate failed: %v", err)
	}
	got, err := svc.DisplayPrice(ctx, models.MustMoney("1000"), "USD")
	if err != nil {
		t.Fatalf("display failed: %v", err)
	}
	if got != "$20.00" {
		t.Fatalf("new rate not applied: %s", got)
	}

	if _, err := svc.UpdateRate(ctx, "INR", decimal.RequireFromString("2"), nil); !errors.Is(err, ErrCurrencyRateInvalid) {
		t.Fatalf("base rate change should fail, got %v", err)
	}
	if _, err := svc.UpdateRate(ctx, "USD", decimal.Zero, nil); !errors.Is(err, ErrCurrencyRateInvalid) {
		t.Fatalf("zero rate should fail, got %v", err)
	}
	if _, err := svc.UpdateRate(ctx, "EUR", decimal.NewFromInt(1), nil); !errors.Is(err, ErrCurrencyNotFound) {
		t.Fatalf("unknown currency should fail, got %v", err)
	}
}
