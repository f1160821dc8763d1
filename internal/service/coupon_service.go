package service

import (
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

// CouponApplication 优惠券试算结果
type CouponApplication struct {
	CouponID       uint         `json:"coupon_id"`
	Code           string       `json:"code"`
	DiscountAmount models.Money `json:"discount_amount"`
	FinalAmount    models.Money `json:"final_amount"`
	GrandTotal     models.Money `json:"grand_total"`
}

// ApplyCoupon 基于当前购物车试算优惠券，final_amount = grand_total - discount
func (s *CouponService) ApplyCoupon(code string, customerID uint, cart *CartView) (*CouponApplication, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrCouponCodeRequired
	}
	if cart.Empty() {
		return nil, ErrCartEmpty
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}

	now := time.Now()
	if coupon.NotStarted(now) {
		return nil, ErrCouponNotStarted
	}
	if coupon.Ended(now) {
		return nil, ErrCouponExpired
	}
	if coupon.Exhausted() {
		return nil, ErrCouponUsageLimit
	}

	if coupon.PerCustomerLimit > 0 && customerID != 0 {
		count, err := s.usageRepo.CountByCustomer(coupon.ID, customerID)
		if err != nil {
			return nil, err
		}
		if int(count) >= coupon.PerCustomerLimit {
			return nil, ErrCouponPerCustomerLimit
		}
	}

	eligibleSubtotal, err := s.resolveEligibleSubtotal(coupon, cart.Cart.Items)
	if err != nil {
		return nil, err
	}

	if eligibleSubtotal.Decimal.Cmp(coupon.MinAmount.Decimal) < 0 {
		return nil, ErrCouponMinAmount
	}

	discount, err := s.calculateDiscount(coupon, eligibleSubtotal)
	if err != nil {
		return nil, err
	}

	if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.Decimal.GreaterThan(coupon.MaxDiscount.Decimal) {
		discount = models.NewMoneyFromDecimal(coupon.MaxDiscount.Decimal)
	}

	if discount.Decimal.GreaterThan(eligibleSubtotal.Decimal) {
		discount = models.NewMoneyFromDecimal(eligibleSubtotal.Decimal)
	}

	grandTotal := cart.Summary.GrandTotal
	return &CouponApplication{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: discount,
		FinalAmount:    grandTotal.SubFloor(discount),
		GrandTotal:     grandTotal,
	}, nil
}

// resolveEligibleSubtotal all 范围取全部行，product 范围只取列出的商品
func (s *CouponService) resolveEligibleSubtotal(coupon *models.Coupon, items []models.CartItem) (models.Money, error) {
	scope := strings.ToLower(strings.TrimSpace(coupon.Scope))
	var ids map[uint]struct{}
	switch scope {
	case "", constants.ScopeTypeAll:
	case constants.ScopeTypeProduct:
		decoded, err := coupon.ScopedProducts()
		if err != nil || len(decoded) == 0 {
			return models.Money{}, ErrCouponScopeInvalid
		}
		ids = decoded
	default:
		return models.Money{}, ErrCouponScopeInvalid
	}

	eligible := decimal.Zero
	for _, item := range items {
		if item.ProductVariant == nil {
			continue
		}
		if ids != nil {
			if _, ok := ids[item.ProductVariant.ProductID]; !ok {
				continue
			}
		}
		eligible = eligible.Add(item.ProductVariant.FinalPrice.MulQty(item.Quantity).Decimal)
	}

	if eligible.IsZero() {
		return models.Money{}, ErrCouponScopeInvalid
	}
	return models.NewMoneyFromDecimal(eligible), nil
}

func (s *CouponService) calculateDiscount(coupon *models.Coupon, eligibleSubtotal models.Money) (models.Money, error) {
	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypeFixed:
		if coupon.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrCouponInvalid
		}
		return models.NewMoneyFromDecimal(coupon.Value.Decimal), nil
	case constants.CouponTypePercent:
		if coupon.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrCouponInvalid
		}
		percent := coupon.Value.Decimal.Div(decimal.NewFromInt(100))
		discount := eligibleSubtotal.Decimal.Mul(percent)
		return models.NewMoneyFromDecimal(discount), nil
	default:
		return models.Money{}, ErrCouponInvalid
	}
}
