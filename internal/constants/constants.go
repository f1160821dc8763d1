package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusPaymentFailed  = "payment_failed"
	OrderStatusCanceled       = "canceled"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// 支付方式常量
const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodPaypal   = "paypal"
)

// 款式选项类型常量
const (
	OptionTypeSize        = "SIZE"
	OptionTypeScrewOption = "SCREW_OPTION"
)

// 购物车数量操作常量
const (
	CartActionIncrement = "increment"
	CartActionDecrement = "decrement"
)

// 结算状态常量
const (
	CheckoutStateIdle            = "idle"
	CheckoutStateAddressSelected = "address_selected"
	CheckoutStateOrderCreated    = "order_created"
	CheckoutStatePaymentPending  = "payment_pending"
	CheckoutStatePaymentVerified = "payment_verified"
	CheckoutStatePaymentFailed   = "payment_failed"
)

// 支付校验结果常量
const (
	PaymentOutcomeVerified = "verified"
	PaymentOutcomeFailed   = "failed"
)

// 结算跳转路径常量
const (
	RedirectLogin          = "/login"
	RedirectCheckout       = "/checkout"
	RedirectPaymentSuccess = "/payment/success"
	RedirectPaymentFailure = "/payment/failure"
	RedirectOrderHistory   = "/orders"
)

// 优惠券类型常量
const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

// 优惠券适用范围常量
const (
	ScopeTypeAll     = "all"
	ScopeTypeProduct = "product"
)

// 礼品卡状态常量
const (
	GiftCardStatusActive   = "active"
	GiftCardStatusReserved = "reserved"
	GiftCardStatusRedeemed = "redeemed"
	GiftCardStatusDisabled = "disabled"
)

// 用户状态常量
const (
	CustomerStatusActive   = "active"
	CustomerStatusDisabled = "disabled"
)

// 币种常量
const (
	BaseCurrencyCode   = "INR"
	BaseCurrencySymbol = "₹"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型常量
const (
	TaskOrderPaidNotification = "order:paid_notification"
	TaskOrderTimeoutCancel    = "order:timeout_cancel"
)

// 最近浏览上限
const RecentlyViewedLimit = 10
