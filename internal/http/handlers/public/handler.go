package public

import "github.com/aurelia-jewels/storefront/internal/provider"

// Handler 前台接口：商品浏览、游客与顾客购物车、结算、支付回调
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
