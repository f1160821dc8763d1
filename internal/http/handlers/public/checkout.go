package public

import (
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// SelectAddressRequest 选择收货地址请求
type SelectAddressRequest struct {
	AddressID uint `json:"address_id" binding:"required"`
}

// DiscountCodeRequest 优惠券/礼品卡请求
type DiscountCodeRequest struct {
	Code string `json:"code"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	AddressID     uint          `json:"address_id"`
	PaymentMethod string        `json:"payment_method"`
	FinalAmount   *models.Money `json:"final_amount"`
}

// GetCheckoutSession 当前结算会话
func (h *Handler) GetCheckoutSession(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	session, err := h.CheckoutService.Session(c.Request.Context(), customerID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, session)
}

// SelectCheckoutAddress 选择收货地址
func (h *Handler) SelectCheckoutAddress(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req SelectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.address_required", nil)
		return
	}
	session, err := h.CheckoutService.SelectAddress(c.Request.Context(), customerID, req.AddressID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, session)
}

// ApplyCoupon 应用优惠券
func (h *Handler) ApplyCoupon(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	quote, err := h.CheckoutService.ApplyCoupon(c.Request.Context(), customerID, req.Code)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "checkout.coupon_applied"), quote)
}

// RemoveCoupon 移除优惠券
func (h *Handler) RemoveCoupon(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	quote, err := h.CheckoutService.RemoveCoupon(c.Request.Context(), customerID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "checkout.discount_removed"), quote)
}

// ApplyGift 应用礼品卡
func (h *Handler) ApplyGift(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	quote, err := h.CheckoutService.ApplyGift(c.Request.Context(), customerID, req.Code)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "checkout.gift_applied"), quote)
}

// RemoveGift 移除礼品卡
func (h *Handler) RemoveGift(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	quote, err := h.CheckoutService.RemoveGift(c.Request.Context(), customerID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "checkout.discount_removed"), quote)
}

// GetQuote 服务端重新计算的结算金额
func (h *Handler) GetQuote(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	quote, err := h.CheckoutService.Quote(c.Request.Context(), customerID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, quote)
}

// PlaceOrder 提交订单并拉起支付
func (h *Handler) PlaceOrder(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CheckoutService.PlaceOrder(c.Request.Context(), customerID, service.PlaceOrderInput{
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		FinalAmount:   req.FinalAmount,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	if result.Outcome != nil {
		respondPaymentOutcome(c, result.Outcome, result)
		return
	}
	response.Success(c, result)
}

// VerifyRazorpay 校验 Razorpay 支付签名
func (h *Handler) VerifyRazorpay(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req service.RazorpayVerifyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	outcome, err := h.CheckoutService.VerifyRazorpay(c.Request.Context(), customerID, req)
	if err != nil {
		respondPaymentVerifyError(c, err)
		return
	}
	respondPaymentOutcome(c, outcome, outcome)
}

// VerifyPaypal 校验 PayPal 订单，已批准的订单由服务端扣款
func (h *Handler) VerifyPaypal(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req service.PaypalVerifyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	outcome, err := h.CheckoutService.VerifyPaypal(c.Request.Context(), customerID, req)
	if err != nil {
		respondPaymentVerifyError(c, err)
		return
	}
	respondPaymentOutcome(c, outcome, outcome)
}

// DismissPayment Razorpay 弹窗被关闭
func (h *Handler) DismissPayment(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	session, err := h.CheckoutService.DismissPayment(c.Request.Context(), customerID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "payment.dismissed"), session)
}

func respondPaymentOutcome(c *gin.Context, outcome *service.PaymentOutcome, data interface{}) {
	key := "payment.failed"
	if outcome.Status == constants.PaymentOutcomeVerified {
		key = "payment.success"
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), data)
}
