package admin

import "github.com/aurelia-jewels/storefront/internal/provider"

// Handler 管理端接口：登录、汇率维护、订单查询与角色分配
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
