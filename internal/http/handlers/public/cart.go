package public

import (
	"strconv"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求
type CartItemRequest struct {
	ProductVariantID uint   `json:"product_variant_id" binding:"required"`
	OptionID         uint   `json:"option_id" binding:"required"`
	OptionType       string `json:"option_type" binding:"required"`
	Quantity         int    `json:"quantity"`
	BaseVersion      *int64 `json:"base_version"`
}

// ToInput 转换为服务层输入，数量缺省为 1
func (r CartItemRequest) ToInput() service.CartItemInput {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return service.CartItemInput{
		ProductVariantID: r.ProductVariantID,
		OptionID:         r.OptionID,
		OptionType:       r.OptionType,
		Quantity:         quantity,
		BaseVersion:      r.BaseVersion,
	}
}

// CartQuantityRequest 数量调整请求
type CartQuantityRequest struct {
	Action      string `json:"action" binding:"required"`
	BaseVersion *int64 `json:"base_version"`
}

// parseBaseVersion 删除类请求通过查询参数携带版本号
func parseBaseVersion(c *gin.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.Query("base_version"))
	if raw == "" {
		return nil, true
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, false
	}
	return &version, true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(value), true
}

// GetCart 获取顾客购物车
func (h *Handler) GetCart(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Fetch(customerID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.AddItem(customerID, req.ToInput())
	if err != nil {
		respondCartError(c, err, view)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "cart.item_added"), view)
}

// UpdateCartItem 调整购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.UpdateQuantity(customerID, itemID, req.Action, req.BaseVersion)
	if err != nil {
		respondCartError(c, err, view)
		return
	}
	response.Success(c, view)
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	baseVersion, ok := parseBaseVersion(c)
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(customerID, itemID, baseVersion)
	if err != nil {
		respondCartError(c, err, view)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(customerID)
	if err != nil {
		respondCartError(c, err, view)
		return
	}
	response.Success(c, view)
}

// GetGuestCart 获取游客购物车，无游客 ID 时返回空车
func (h *Handler) GetGuestCart(c *gin.Context) {
	cart, err := h.GuestCartService.Get(c.Request.Context(), h.readGuestID(c))
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, cart)
}

// AddGuestCartItem 游客加购
func (h *Handler) AddGuestCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	guestID := h.ensureGuestID(c)
	cart, err := h.GuestCartService.AddItem(c.Request.Context(), guestID, req.ToInput())
	if err != nil {
		respondCartError(c, err, cart)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "cart.item_added"), cart)
}

// UpdateGuestCartItem 游客调整数量
func (h *Handler) UpdateGuestCartItem(c *gin.Context) {
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	guestID := h.readGuestID(c)
	if guestID == "" {
		respondError(c, response.CodeNotFound, "error.cart_item_not_found", nil)
		return
	}
	cart, err := h.GuestCartService.UpdateQuantity(c.Request.Context(), guestID, c.Param("id"), req.Action, req.BaseVersion)
	if err != nil {
		respondCartError(c, err, cart)
		return
	}
	response.Success(c, cart)
}

// DeleteGuestCartItem 游客删除购物车项
func (h *Handler) DeleteGuestCartItem(c *gin.Context) {
	baseVersion, ok := parseBaseVersion(c)
	if !ok {
		return
	}
	guestID := h.readGuestID(c)
	if guestID == "" {
		respondError(c, response.CodeNotFound, "error.cart_item_not_found", nil)
		return
	}
	cart, err := h.GuestCartService.RemoveItem(c.Request.Context(), guestID, c.Param("id"), baseVersion)
	if err != nil {
		respondCartError(c, err, cart)
		return
	}
	response.Success(c, cart)
}

// ClearGuestCart 清空游客购物车
func (h *Handler) ClearGuestCart(c *gin.Context) {
	ctx := c.Request.Context()
	guestID := h.readGuestID(c)
	if err := h.GuestCartService.Clear(ctx, guestID); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}
	cart, err := h.GuestCartService.Get(ctx, guestID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, cart)
}

// BuyNow 立即购买：已登录进入结算，游客替换游客购物车并要求登录
func (h *Handler) BuyNow(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	actor := service.BuyNowActor{CustomerID: optionalCustomerID(c)}
	if actor.CustomerID == 0 {
		actor.GuestID = h.ensureGuestID(c)
	}
	result, err := h.BuyNowService.BuyNow(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondCartError(c, err, nil)
		return
	}
	if actor.CustomerID == 0 {
		response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "cart.buy_now_login"), result)
		return
	}
	response.Success(c, result)
}
