package main

import (
	"time"

	"github.com/aurelia-jewels/storefront/internal/config"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitBaseCurrency(cfg.Currency.Base); err != nil {
		stdLog.Fatalf("Failed to init base currency: %v", err)
	}

	// 展示币种
	currencies := []models.Currency{
		{Code: "USD", Symbol: "$", ExchangeRate: decimal.RequireFromString("0.012"), IsActive: true, SortOrder: 10},
		{Code: "EUR", Symbol: "€", ExchangeRate: decimal.RequireFromString("0.011"), IsActive: true, SortOrder: 20},
		{Code: "GBP", Symbol: "£", ExchangeRate: decimal.RequireFromString("0.0095"), IsActive: true, SortOrder: 30},
		{Code: "AED", Symbol: "AED", ExchangeRate: decimal.RequireFromString("0.044"), IsActive: true, SortOrder: 40},
	}
	for _, currency := range currencies {
		var existing models.Currency
		result := models.DB.Where("code = ?", currency.Code).Limit(1).Find(&existing)
		if result.Error != nil {
			stdLog.Printf("Failed to load currency %s: %v", currency.Code, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			stdLog.Printf("Currency already exists: %s", currency.Code)
			continue
		}
		if err := models.DB.Create(&currency).Error; err != nil {
			stdLog.Printf("Failed to create currency %s: %v", currency.Code, err)
		} else {
			stdLog.Printf("Created currency: %s", currency.Code)
		}
	}

	// 商品与款式
	products := []models.Product{
		{
			Slug:        "solitaire-promise-ring",
			Name:        "Solitaire Promise Ring",
			Description: "A single brilliant-cut diamond set in a four-prong crown.",
			Category:    "rings",
			Images:      models.StringArray{"/uploads/products/solitaire-1.jpg", "/uploads/products/solitaire-2.jpg"},
			IsActive:    true,
			SortOrder:   100,
			Variants: []models.ProductVariant{
				{
					SKU:         "RING-SOL-YG18",
					Metal:       "Yellow Gold",
					Purity:      "18K",
					WeightGrams: models.MustMoney("3.20"),
					MRP:         models.MustMoney("64999.00"),
					FinalPrice:  models.MustMoney("58499.00"),
					IsActive:    true,
					Sizes:       ringSizes("10", "12", "14", "16"),
				},
				{
					SKU:         "RING-SOL-WG14",
					Metal:       "White Gold",
					Purity:      "14K",
					WeightGrams: models.MustMoney("2.90"),
					MRP:         models.MustMoney("52999.00"),
					FinalPrice:  models.MustMoney("47999.00"),
					Stock:       25,
					IsActive:    true,
					Sizes:       ringSizes("10", "12", "14"),
				},
			},
		},
		{
			Slug:        "pearl-drop-earrings",
			Name:        "Pearl Drop Earrings",
			Description: "Freshwater pearls suspended from a polished gold hook.",
			Category:    "earrings",
			Images:      models.StringArray{"/uploads/products/pearl-drop-1.jpg"},
			IsActive:    true,
			SortOrder:   90,
			Variants: []models.ProductVariant{
				{
					SKU:         "EAR-PRL-YG18",
					Metal:       "Yellow Gold",
					Purity:      "18K",
					WeightGrams: models.MustMoney("2.40"),
					MRP:         models.MustMoney("18999.00"),
					FinalPrice:  models.MustMoney("16499.00"),
					IsActive:    true,
					ScrewOptions: []models.VariantScrewOption{
						{Name: "Push Back", IsActive: true},
						{Name: "Screw Back", IsActive: true},
					},
				},
			},
		},
		{
			Slug:        "heritage-temple-pendant",
			Name:        "Heritage Temple Pendant",
			Description: "Hand-engraved temple motif pendant in hallmarked gold.",
			Category:    "pendants",
			Images:      models.StringArray{"/uploads/products/temple-pendant-1.jpg"},
			IsActive:    true,
			SortOrder:   80,
			Variants: []models.ProductVariant{
				{
					SKU:         "PEN-TMP-YG22",
					Metal:       "Yellow Gold",
					Purity:      "22K",
					WeightGrams: models.MustMoney("5.60"),
					MRP:         models.MustMoney("42999.00"),
					FinalPrice:  models.MustMoney("42999.00"),
					Stock:       10,
					IsActive:    true,
				},
			},
		},
	}
	for _, product := range products {
		var existing models.Product
		result := models.DB.Where("slug = ?", product.Slug).Limit(1).Find(&existing)
		if result.Error != nil {
			stdLog.Printf("Failed to load product %s: %v", product.Slug, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			stdLog.Printf("Product already exists: %s", product.Slug)
			continue
		}
		// 关联款式、尺码与耳堵一并创建
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
		} else {
			stdLog.Printf("Created product: %s", product.Slug)
		}
	}

	// 优惠券
	now := time.Now()
	endsAt := now.AddDate(0, 6, 0)
	coupons := []models.Coupon{
		{
			Code:             "WELCOME10",
			Description:      "10% off your first piece",
			Type:             constants.CouponTypePercent,
			Value:            models.MustMoney("10"),
			MinAmount:        models.MustMoney("5000.00"),
			MaxDiscount:      models.MustMoney("3000.00"),
			PerCustomerLimit: 1,
			Scope:            constants.ScopeTypeAll,
			StartsAt:         &now,
			EndsAt:           &endsAt,
			IsActive:         true,
		},
		{
			Code:        "FLAT500",
			Description: "₹500 off orders above ₹10,000",
			Type:        constants.CouponTypeFixed,
			Value:       models.MustMoney("500.00"),
			MinAmount:   models.MustMoney("10000.00"),
			UsageLimit:  500,
			Scope:       constants.ScopeTypeAll,
			IsActive:    true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		result := models.DB.Where("code = ?", coupon.Code).Limit(1).Find(&existing)
		if result.Error != nil {
			stdLog.Printf("Failed to load coupon %s: %v", coupon.Code, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
			continue
		}
		if err := models.DB.Create(&coupon).Error; err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
		} else {
			stdLog.Printf("Created coupon: %s", coupon.Code)
		}
	}

	// 礼品卡
	giftExpiresAt := now.AddDate(1, 0, 0)
	giftCard := models.GiftCard{
		Code:      "GIFT-AURELIA-2000",
		Value:     models.MustMoney("2000.00"),
		Status:    constants.GiftCardStatusActive,
		ExpiresAt: &giftExpiresAt,
	}
	var existingGift models.GiftCard
	result := models.DB.Where("code = ?", giftCard.Code).Limit(1).Find(&existingGift)
	switch {
	case result.Error != nil:
		stdLog.Printf("Failed to load gift card %s: %v", giftCard.Code, result.Error)
	case result.RowsAffected > 0:
		stdLog.Printf("Gift card already exists: %s", giftCard.Code)
	default:
		if err := models.DB.Create(&giftCard).Error; err != nil {
			stdLog.Printf("Failed to create gift card %s: %v", giftCard.Code, err)
		} else {
			stdLog.Printf("Created gift card: %s", giftCard.Code)
		}
	}

	stdLog.Println("Seed data completed")
}

func ringSizes(labels ...string) []models.VariantSize {
	sizes := make([]models.VariantSize, 0, len(labels))
	for _, label := range labels {
		sizes = append(sizes, models.VariantSize{Label: label, IsActive: true})
	}
	return sizes
}
