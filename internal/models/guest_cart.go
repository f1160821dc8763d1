package models

// GuestCart 游客购物车（存储于缓存，不落库）
type GuestCart struct {
	Items    []GuestCartItem `json:"items"`
	Count    int             `json:"count"`
	Total    Money           `json:"total"`
	IsBuyNow bool            `json:"is_buy_now"`
	Version  int64           `json:"version"`
}

// GuestCartItem 游客购物车项
type GuestCartItem struct {
	ID               string          `json:"id"`
	ProductVariantID uint            `json:"product_variant_id"`
	OptionID         uint            `json:"option_id"`
	OptionType       string          `json:"option_type"`
	Quantity         int             `json:"quantity"`
	PriceAtAddition  Money           `json:"price_at_addition"`
	Snapshot         VariantSnapshot `json:"product_variant_snapshot"`
}

// VariantSnapshot 加入购物车时的款式展示快照
type VariantSnapshot struct {
	ProductName string `json:"product_name"`
	ProductSlug string `json:"product_slug"`
	SKU         string `json:"sku"`
	Image       string `json:"image"`
	MRP         Money  `json:"mrp"`
	FinalPrice  Money  `json:"final_price"`
	OptionLabel string `json:"option_label"`
}

// Recalculate 重新计算件数与总额
func (g *GuestCart) Recalculate() {
	total := Money{}
	for _, item := range g.Items {
		total = total.Add(item.PriceAtAddition)
	}
	g.Count = len(g.Items)
	g.Total = total
}
