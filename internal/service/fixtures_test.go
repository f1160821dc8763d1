package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Admin{},
		&models.Address{},
		&models.Product{},
		&models.ProductVariant{},
		&models.VariantSize{},
		&models.VariantScrewOption{},
		&models.Cart{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.GiftCard{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Currency{},
		&models.WishlistItem{},
		&models.Review{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

type catalogFixture struct {
	Ring       models.Product
	RingGold   models.ProductVariant
	RingSize12 models.VariantSize
	RingSize14 models.VariantSize
	Stud       models.Product
	StudPlain  models.ProductVariant
	StudScrew  models.VariantScrewOption
}

// seedCatalog 戒指（售价 1000/标价 1200，两个尺码）与耳钉（售价 2500/标价 2500，库存 2）
func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()
	var f catalogFixture

	f.Ring = models.Product{Slug: "solitaire-ring", Name: "Solitaire Ring", Category: "rings", Images: models.StringArray{"ring.jpg"}, IsActive: true}
	mustCreate(t, db, &f.Ring)
	f.RingGold = models.ProductVariant{
		ProductID:  f.Ring.ID,
		SKU:        "RING-18K",
		Metal:      "gold",
		Purity:     "18K",
		MRP:        models.MustMoney("1200.00"),
		FinalPrice: models.MustMoney("1000.00"),
		IsActive:   true,
	}
	mustCreate(t, db, &f.RingGold)
	f.RingSize12 = models.VariantSize{VariantID: f.RingGold.ID, Label: "12", IsActive: true}
	mustCreate(t, db, &f.RingSize12)
	f.RingSize14 = models.VariantSize{VariantID: f.RingGold.ID, Label: "14", IsActive: true}
	mustCreate(t, db, &f.RingSize14)

	f.Stud = models.Product{Slug: "pearl-stud", Name: "Pearl Stud", Category: "earrings", IsActive: true}
	mustCreate(t, db, &f.Stud)
	f.StudPlain = models.ProductVariant{
		ProductID:  f.Stud.ID,
		SKU:        "STUD-PL",
		Metal:      "silver",
		MRP:        models.MustMoney("2500.00"),
		FinalPrice: models.MustMoney("2500.00"),
		Stock:      2,
		IsActive:   true,
	}
	mustCreate(t, db, &f.StudPlain)
	f.StudScrew = models.VariantScrewOption{VariantID: f.StudPlain.ID, Name: "push back", IsActive: true}
	mustCreate(t, db, &f.StudScrew)
	return f
}

func (f catalogFixture) ringInput(quantity int) CartItemInput {
	return CartItemInput{
		ProductVariantID: f.RingGold.ID,
		OptionType:       constants.OptionTypeSize,
		OptionID:         f.RingSize12.ID,
		Quantity:         quantity,
	}
}

func (f catalogFixture) studInput(quantity int) CartItemInput {
	return CartItemInput{
		ProductVariantID: f.StudPlain.ID,
		OptionType:       constants.OptionTypeScrewOption,
		OptionID:         f.StudScrew.ID,
		Quantity:         quantity,
	}
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) models.Customer {
	t.Helper()
	customer := models.Customer{Email: email, PasswordHash: "hash", Name: "Test", Status: constants.CustomerStatusActive}
	mustCreate(t, db, &customer)
	return customer
}

func seedAddress(t *testing.T, db *gorm.DB, customerID uint) models.Address {
	t.Helper()
	address := models.Address{
		CustomerID: customerID,
		Name:       "Asha",
		Phone:      "9876543210",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		Pincode:    "560001",
		IsDefault:  true,
	}
	mustCreate(t, db, &address)
	return address
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T failed: %v", value, err)
	}
}
