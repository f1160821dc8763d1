package public

import (
	"errors"

	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrPasswordTooShort, code: response.CodeBadRequest, key: "error.password_too_short"},
	{target: service.ErrCustomerDisabled, code: response.CodeForbidden, key: "error.user_disabled"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, key: "error.variant_not_found"},
	{target: service.ErrVariantInactive, code: response.CodeBadRequest, key: "error.variant_inactive"},
	{target: service.ErrOptionTypeInvalid, code: response.CodeBadRequest, key: "error.option_type_invalid"},
	{target: service.ErrOptionNotFound, code: response.CodeBadRequest, key: "error.option_not_found"},
	{target: service.ErrOptionMismatch, code: response.CodeBadRequest, key: "error.option_mismatch"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, key: "error.stock_insufficient"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrCartActionInvalid, code: response.CodeBadRequest, key: "error.cart_action_invalid"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.bad_request"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponCodeRequired, code: response.CodeBadRequest, key: "error.coupon_code_required"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_not_found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, key: "error.coupon_inactive"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, key: "error.coupon_not_started"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, key: "error.coupon_usage_limit"},
	{target: service.ErrCouponPerCustomerLimit, code: response.CodeBadRequest, key: "error.coupon_customer_limit"},
	{target: service.ErrCouponScopeInvalid, code: response.CodeBadRequest, key: "error.coupon_scope_invalid"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, key: "error.coupon_min_amount"},
}

var giftCardErrorRules = []mappedHandlerError{
	{target: service.ErrGiftCardCodeRequired, code: response.CodeBadRequest, key: "error.gift_card_code_required"},
	{target: service.ErrGiftCardNotFound, code: response.CodeBadRequest, key: "error.gift_card_not_found"},
	{target: service.ErrGiftCardInactive, code: response.CodeBadRequest, key: "error.gift_card_inactive"},
	{target: service.ErrGiftCardExpired, code: response.CodeBadRequest, key: "error.gift_card_expired"},
	{target: service.ErrGiftCardRedeemed, code: response.CodeBadRequest, key: "error.gift_card_redeemed"},
	{target: service.ErrGiftCardExceedsOrder, code: response.CodeBadRequest, key: "error.gift_card_exceeds_order"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, key: "error.address_required"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, key: "error.address_not_found"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid"},
	{target: service.ErrPaymentNotConfigured, code: response.CodeBadRequest, key: "error.payment_not_configured"},
	{target: service.ErrAmountMismatch, code: response.CodeConflict, key: "error.amount_mismatch"},
	{target: service.ErrCheckoutStateInvalid, code: response.CodeConflict, key: "error.checkout_state_invalid"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeBadGateway, key: "error.payment_gateway_failed"},
}

var paymentVerifyErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
	{target: service.ErrPaymentNotConfigured, code: response.CodeBadRequest, key: "error.payment_not_configured"},
	{target: service.ErrPaymentVerifyFailed, code: response.CodeBadRequest, key: "error.payment_verify_failed"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeBadGateway, key: "error.payment_gateway_failed"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.bad_request"},
}

var webhookErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentVerifyFailed, code: response.CodeBadRequest, key: "error.webhook_invalid"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.webhook_invalid"},
	{target: service.ErrPaymentNotConfigured, code: response.CodeBadRequest, key: "error.payment_not_configured"},
}

func respondAuthError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, authErrorRules, response.CodeInternal, fallbackKey)
}

// respondCartError 版本冲突时携带服务端当前购物车，客户端据此丢弃本地乐观状态
func respondCartError(c *gin.Context, err error, current interface{}) {
	if errors.Is(err, service.ErrCartVersionConflict) {
		handlershared.RespondConflict(c, "error.cart_version_conflict", current)
		return
	}
	respondWithMappedError(c, err, concatMappedHandlerErrors(catalogErrorRules, cartErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutErrorRules, couponErrorRules, giftCardErrorRules), response.CodeInternal, "error.checkout_failed")
}

func respondPaymentVerifyError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentVerifyErrorRules, response.CodeInternal, "error.payment_verify_failed")
}

func respondWebhookError(c *gin.Context, err error) {
	respondWithMappedError(c, err, webhookErrorRules, response.CodeInternal, "error.internal")
}
