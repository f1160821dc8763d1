package service

import "errors"

// 通用错误
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// 认证相关错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailExists        = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrCustomerDisabled   = errors.New("customer disabled")
	ErrTokenInvalid       = errors.New("token invalid")
)

// 商品与款式相关错误
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrVariantNotFound     = errors.New("product variant not found")
	ErrVariantInactive     = errors.New("product variant inactive")
	ErrOptionTypeInvalid   = errors.New("option type invalid")
	ErrOptionNotFound      = errors.New("variant option not found")
	ErrOptionMismatch      = errors.New("option does not belong to variant")
	ErrStockInsufficient   = errors.New("stock insufficient")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrCartActionInvalid   = errors.New("cart action invalid")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrCartVersionConflict = errors.New("cart version conflict")
	ErrCartEmpty           = errors.New("cart empty")
)

// 优惠券与礼品卡相关错误
var (
	ErrCouponCodeRequired     = errors.New("coupon code required")
	ErrCouponInvalid          = errors.New("coupon invalid")
	ErrCouponNotFound         = errors.New("coupon not found")
	ErrCouponInactive         = errors.New("coupon inactive")
	ErrCouponNotStarted       = errors.New("coupon not started")
	ErrCouponExpired          = errors.New("coupon expired")
	ErrCouponUsageLimit       = errors.New("coupon usage limit reached")
	ErrCouponPerCustomerLimit = errors.New("coupon per customer limit reached")
	ErrCouponScopeInvalid     = errors.New("coupon not applicable to cart")
	ErrCouponMinAmount        = errors.New("coupon minimum amount not met")

	ErrGiftCardCodeRequired = errors.New("gift card code required")
	ErrGiftCardNotFound     = errors.New("gift card not found")
	ErrGiftCardInactive     = errors.New("gift card inactive")
	ErrGiftCardExpired      = errors.New("gift card expired")
	ErrGiftCardRedeemed     = errors.New("gift card already redeemed")
	ErrGiftCardExceedsOrder = errors.New("gift card value exceeds order value")
)

// 结算与支付相关错误
var (
	ErrAddressRequired      = errors.New("shipping address required")
	ErrAddressNotFound      = errors.New("address not found")
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	ErrAmountMismatch       = errors.New("amount mismatch")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderStatusInvalid   = errors.New("order status invalid")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentGatewayFailed = errors.New("payment gateway request failed")
	ErrPaymentNotConfigured = errors.New("payment gateway not configured")
	ErrPaymentVerifyFailed  = errors.New("payment verification failed")
	ErrCheckoutStateInvalid = errors.New("checkout state invalid")
	ErrCurrencyNotFound     = errors.New("currency not found")
	ErrCurrencyRateInvalid  = errors.New("currency rate invalid")
	ErrReviewExists         = errors.New("review already exists")
	ErrReviewRatingInvalid  = errors.New("review rating invalid")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAdminRoleInvalid     = errors.New("admin role invalid")
)
