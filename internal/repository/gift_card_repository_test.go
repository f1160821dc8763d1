package repository

import (
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
)

func TestGiftCardReserveIsExclusive(t *testing.T) {
	db := openRepositoryTestDB(t, "gift_card_reserve", &models.GiftCard{})
	repo := NewGiftCardRepository(db)
	card := models.GiftCard{Code: "ONCE500", Value: models.MustMoney("500"), Status: constants.GiftCardStatusActive}
	if err := repo.Create(&card); err != nil {
		t.Fatalf("create gift card failed: %v", err)
	}

	ok, err := repo.Reserve(card.ID, 1, 10)
	if err != nil || !ok {
		t.Fatalf("first reserve should succeed: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Reserve(card.ID, 2, 11)
	if err != nil || ok {
		t.Fatalf("second reserve must fail: ok=%v err=%v", ok, err)
	}
	if ok, _ := repo.MarkRedeemed(card.ID, 2, 11, time.Now()); ok {
		t.Fatalf("another order must not redeem a reserved card")
	}
	if ok, _ := repo.Release(card.ID, 11); ok {
		t.Fatalf("only the holding order can release the card")
	}

	ok, err = repo.MarkRedeemed(card.ID, 1, 10, time.Now())
	if err != nil || !ok {
		t.Fatalf("holding order should redeem: ok=%v err=%v", ok, err)
	}
	stored, err := repo.GetByID(card.ID)
	if err != nil {
		t.Fatalf("load gift card failed: %v", err)
	}
	if stored.Status != constants.GiftCardStatusRedeemed || stored.RedeemedOrderID == nil || *stored.RedeemedOrderID != 10 {
		t.Fatalf("unexpected gift card: %+v", stored)
	}
	if ok, _ := repo.Reserve(card.ID, 3, 12); ok {
		t.Fatalf("redeemed card must not be reserved again")
	}
}

func TestGiftCardReleaseReturnsCard(t *testing.T) {
	db := openRepositoryTestDB(t, "gift_card_release", &models.GiftCard{})
	repo := NewGiftCardRepository(db)
	card := models.GiftCard{Code: "BACK300", Value: models.MustMoney("300"), Status: constants.GiftCardStatusActive}
	if err := repo.Create(&card); err != nil {
		t.Fatalf("create gift card failed: %v", err)
	}
	if ok, err := repo.Reserve(card.ID, 1, 20); err != nil || !ok {
		t.Fatalf("reserve failed: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Release(card.ID, 20); err != nil || !ok {
		t.Fatalf("release failed: ok=%v err=%v", ok, err)
	}
	stored, err := repo.GetByID(card.ID)
	if err != nil {
		t.Fatalf("load gift card failed: %v", err)
	}
	if stored.Status != constants.GiftCardStatusActive || stored.RedeemedOrderID != nil || stored.RedeemedCustomerID != nil {
		t.Fatalf("released card should be active and unbound: %+v", stored)
	}
	if ok, _ := repo.Reserve(card.ID, 2, 21); !ok {
		t.Fatalf("released card should be reservable again")
	}
}
