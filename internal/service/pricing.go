package service

import "github.com/aurelia-jewels/storefront/internal/models"

// Quote 结算金额汇总
type Quote struct {
	GrandTotal     models.Money       `json:"grand_total"`
	SubTotal       models.Money       `json:"sub_total"`
	TotalDiscount  models.Money       `json:"total_discount"`
	CouponDiscount models.Money       `json:"coupon_discount"`
	GiftAmount     models.Money       `json:"gift_amount"`
	FinalAmount    models.Money       `json:"final_amount"`
	Coupon         *CouponApplication `json:"coupon,omitempty"`
	Gift           *GiftApplication   `json:"gift,omitempty"`
}

// CombineTotals 合并优惠券与礼品卡：(有券 ? 券后金额 : 商品总额) - 礼品卡面额，不低于 0
func CombineTotals(grandTotal models.Money, coupon *CouponApplication, gift *GiftApplication) models.Money {
	base := grandTotal
	if coupon != nil {
		base = coupon.FinalAmount
	}
	if gift != nil {
		base = base.SubFloor(gift.Value)
	}
	return base
}

func buildQuote(cart *CartView, coupon *CouponApplication, gift *GiftApplication) *Quote {
	quote := &Quote{
		GrandTotal:    cart.Summary.GrandTotal,
		SubTotal:      cart.Summary.SubTotal,
		TotalDiscount: cart.Summary.TotalDiscount,
		Coupon:        coupon,
		Gift:          gift,
	}
	if coupon != nil {
		quote.CouponDiscount = coupon.DiscountAmount
	}
	if gift != nil {
		quote.GiftAmount = gift.Value
	}
	quote.FinalAmount = CombineTotals(cart.Summary.GrandTotal, coupon, gift)
	return quote
}
