package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/metrics"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/payment/paypal"
	"github.com/aurelia-jewels/storefront/internal/payment/razorpay"
	"github.com/aurelia-jewels/storefront/internal/queue"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultCheckoutSessionTTL   = 30 * time.Minute
	defaultPaymentExpire        = 15 * time.Minute
	defaultRedirectDelaySeconds = 6
)

// RazorpayGateway Razorpay 网关能力
type RazorpayGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, input razorpay.CreateInput) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	VerifyWebhookSignature(body []byte, signature string) error
}

// PaypalGateway PayPal 网关能力
type PaypalGateway interface {
	Currency() string
	CreateOrder(ctx context.Context, input paypal.CreateInput) (*paypal.OrderResult, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.OrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.OrderResult, error)
	VerifyWebhookSignature(ctx context.Context, headers http.Header, event map[string]interface{}) error
}

// OrderTaskEnqueuer 订单异步任务投递
type OrderTaskEnqueuer interface {
	EnqueueOrderTimeoutCancel(payload queue.OrderTimeoutCancelPayload, delay time.Duration) error
	EnqueueOrderPaidNotification(payload queue.OrderPaidNotificationPayload) error
}

// CheckoutOptions 结算参数
type CheckoutOptions struct {
	SessionTTL           time.Duration
	PaymentExpire        time.Duration
	RedirectDelaySeconds int
}

// CheckoutDeps 结算服务依赖；网关未配置时留空
type CheckoutDeps struct {
	Store           cache.Store
	Carts           *CartService
	Coupons         *CouponService
	GiftCards       *GiftCardService
	Currencies      *CurrencyService
	AddressRepo     repository.AddressRepository
	OrderRepo       repository.OrderRepository
	PaymentRepo     repository.PaymentRepository
	CartRepo        repository.CartRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	GiftCardRepo    repository.GiftCardRepository
	Razorpay        RazorpayGateway
	Paypal          PaypalGateway
	Tasks           OrderTaskEnqueuer
}

// CheckoutService 结算状态机：选址、优惠、下单、支付校验
type CheckoutService struct {
	CheckoutDeps
	opts CheckoutOptions
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(deps CheckoutDeps, opts CheckoutOptions) *CheckoutService {
	if deps.Store == nil {
		deps.Store = cache.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultCheckoutSessionTTL
	}
	if opts.PaymentExpire <= 0 {
		opts.PaymentExpire = defaultPaymentExpire
	}
	if opts.RedirectDelaySeconds <= 0 {
		opts.RedirectDelaySeconds = defaultRedirectDelaySeconds
	}
	return &CheckoutService{CheckoutDeps: deps, opts: opts}
}

// CheckoutSession 结算会话，优惠券与礼品卡只保存卡号，每次试算重新校验
type CheckoutSession struct {
	State      string    `json:"state"`
	AddressID  uint      `json:"address_id,omitempty"`
	CouponCode string    `json:"coupon_code,omitempty"`
	GiftCode   string    `json:"gift_code,omitempty"`
	OrderID    uint      `json:"order_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	AddressID     uint          `json:"address_id"`
	PaymentMethod string        `json:"payment_method"`
	FinalAmount   *models.Money `json:"final_amount,omitempty"`
}

// RazorpayCheckout 前端拉起 Razorpay 所需参数
type RazorpayCheckout struct {
	KeyID          string `json:"key_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	OrderNo        string `json:"order_no"`
}

// PaypalCheckout 前端跳转 PayPal 所需参数
type PaypalCheckout struct {
	GatewayOrderID string `json:"gateway_order_id"`
	ApprovalURL    string `json:"approval_url"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
}

// PlaceOrderResult 下单结果
type PlaceOrderResult struct {
	State    string            `json:"state"`
	Order    *models.Order     `json:"order"`
	Quote    *Quote            `json:"quote"`
	Razorpay *RazorpayCheckout `json:"razorpay,omitempty"`
	Paypal   *PaypalCheckout   `json:"paypal,omitempty"`
	Outcome  *PaymentOutcome   `json:"outcome,omitempty"`
}

// PaymentOutcome 支付校验结果与跳转指引
type PaymentOutcome struct {
	Status               string `json:"status"`
	OrderID              uint   `json:"order_id"`
	OrderNo              string `json:"order_no"`
	Redirect             string `json:"redirect"`
	FollowUp             string `json:"follow_up,omitempty"`
	RedirectAfterSeconds int    `json:"redirect_after_seconds,omitempty"`
}

// RazorpayVerifyInput Razorpay 回调参数
type RazorpayVerifyInput struct {
	OrderID           uint   `json:"order_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PaypalVerifyInput PayPal 回跳参数
type PaypalVerifyInput struct {
	OrderID       uint   `json:"order_id"`
	PaypalOrderID string `json:"paypal_order_id"`
}

type paidDetails struct {
	GatewayPaymentID string
	PaidAt           *time.Time
	Payload          models.JSON
}

func checkoutSessionKey(customerID uint) string {
	return fmt.Sprintf("checkout:session:%d", customerID)
}

// Session 读取结算会话，不存在时为 idle
func (s *CheckoutService) Session(ctx context.Context, customerID uint) (*CheckoutSession, error) {
	return s.loadSession(ctx, customerID)
}

// SelectAddress 选择收货地址
func (s *CheckoutService) SelectAddress(ctx context.Context, customerID, addressID uint) (*CheckoutSession, error) {
	if addressID == 0 {
		return nil, ErrAddressRequired
	}
	address, err := s.AddressRepo.GetByIDAndCustomer(addressID, customerID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrCartEmpty
	}
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	session.AddressID = address.ID
	session.OrderID = 0
	observeTransition(session, constants.CheckoutStateAddressSelected)
	if err := s.saveSession(ctx, customerID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ApplyCoupon 应用优惠券并返回最新试算
func (s *CheckoutService) ApplyCoupon(ctx context.Context, customerID uint, code string) (*Quote, error) {
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	application, err := s.Coupons.ApplyCoupon(code, customerID, cart)
	if err != nil {
		return nil, err
	}
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	session.CouponCode = application.Code
	return s.quoteAndSave(ctx, customerID, session, cart)
}

// RemoveCoupon 移除优惠券
func (s *CheckoutService) RemoveCoupon(ctx context.Context, customerID uint) (*Quote, error) {
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	session.CouponCode = ""
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	return s.quoteAndSave(ctx, customerID, session, cart)
}

// ApplyGift 应用礼品卡，面额不得超过（券后）订单金额
func (s *CheckoutService) ApplyGift(ctx context.Context, customerID uint, code string) (*Quote, error) {
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrCartEmpty
	}
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	coupon, err := s.resolveCoupon(session, customerID, cart)
	if err != nil {
		return nil, err
	}
	application, err := s.GiftCards.ApplyGift(code, CombineTotals(cart.Summary.GrandTotal, coupon, nil))
	if err != nil {
		return nil, err
	}
	session.GiftCode = application.Code
	return s.quoteAndSave(ctx, customerID, session, cart)
}

// RemoveGift 移除礼品卡
func (s *CheckoutService) RemoveGift(ctx context.Context, customerID uint) (*Quote, error) {
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	session.GiftCode = ""
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	return s.quoteAndSave(ctx, customerID, session, cart)
}

// Quote 服务端重新计算金额；已失效的优惠从会话中移除
func (s *CheckoutService) Quote(ctx context.Context, customerID uint) (*Quote, error) {
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrCartEmpty
	}
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.quoteAndSave(ctx, customerID, session, cart)
}

// PlaceOrder 创建订单并发起网关支付；任一步失败时会话回到 idle，已应用的优惠保留
func (s *CheckoutService) PlaceOrder(ctx context.Context, customerID uint, input PlaceOrderInput) (result *PlaceOrderResult, err error) {
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			s.resetSession(ctx, customerID, session, err)
		}
	}()

	addressID := input.AddressID
	if addressID == 0 {
		addressID = session.AddressID
	}
	if addressID == 0 {
		return nil, ErrAddressRequired
	}
	address, err := s.AddressRepo.GetByIDAndCustomer(addressID, customerID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	method, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	cart, err := s.Carts.Fetch(customerID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, ErrCartEmpty
	}
	coupon, gift, err := s.resolveApplications(session, customerID, cart)
	if err != nil {
		return nil, err
	}
	quote := buildQuote(cart, coupon, gift)
	if input.FinalAmount != nil && !input.FinalAmount.Equal(quote.FinalAmount) {
		logger.Warnw("checkout_amount_mismatch",
			"customer_id", customerID,
			"client_amount", input.FinalAmount.String(),
			"server_amount", quote.FinalAmount.String(),
		)
		return nil, ErrAmountMismatch
	}
	if !quote.FinalAmount.IsZero() {
		if err := s.ensureGateway(method); err != nil {
			return nil, err
		}
	}
	items, err := s.buildOrderItems(cart)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.opts.PaymentExpire)
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		CustomerID:      customerID,
		AddressID:       address.ID,
		AddressSnapshot: address.Snapshot(),
		PaymentMethod:   method,
		Status:          constants.OrderStatusPendingPayment,
		Currency:        constants.BaseCurrencyCode,
		TotalAmount:     quote.GrandTotal,
		DiscountAmount:  quote.CouponDiscount,
		GiftAmount:      quote.GiftAmount,
		FinalAmount:     quote.FinalAmount,
		ExpiresAt:       &expiresAt,
	}
	if coupon != nil {
		order.CouponID = &coupon.CouponID
	}
	if gift != nil {
		order.GiftCardID = &gift.GiftCardID
	}
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.OrderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		if gift == nil {
			return nil
		}
		reserved, err := s.GiftCardRepo.WithTx(tx).Reserve(gift.GiftCardID, customerID, order.ID)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrGiftCardRedeemed
		}
		return nil
	}); err != nil {
		return nil, err
	}
	session.AddressID = address.ID
	session.OrderID = order.ID
	observeTransition(session, constants.CheckoutStateOrderCreated)
	s.persistSession(ctx, customerID, session)
	s.scheduleTimeout(order)
	logger.Infow("checkout_order_created",
		"customer_id", customerID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"payment_method", method,
		"final_amount", order.FinalAmount.String(),
	)

	result = &PlaceOrderResult{Order: order, Quote: quote}
	if order.FinalAmount.IsZero() {
		outcome, err := s.settleWithoutGateway(ctx, order)
		if err != nil {
			return nil, err
		}
		result.State = constants.CheckoutStatePaymentVerified
		result.Outcome = outcome
		return result, nil
	}

	if err := s.createGatewayPayment(ctx, order, result); err != nil {
		s.cancelOrder(order, "gateway_failed")
		return nil, err
	}
	observeTransition(session, constants.CheckoutStatePaymentPending)
	s.persistSession(ctx, customerID, session)
	result.State = constants.CheckoutStatePaymentPending
	return result, nil
}

// VerifyRazorpay 校验 Razorpay 支付签名并完成订单
func (s *CheckoutService) VerifyRazorpay(ctx context.Context, customerID uint, input RazorpayVerifyInput) (*PaymentOutcome, error) {
	if s.Razorpay == nil {
		return nil, ErrPaymentNotConfigured
	}
	if input.OrderID == 0 || strings.TrimSpace(input.RazorpayOrderID) == "" ||
		strings.TrimSpace(input.RazorpayPaymentID) == "" || strings.TrimSpace(input.RazorpaySignature) == "" {
		return nil, ErrInvalidInput
	}
	order, payment, err := s.loadCustomerPayment(customerID, input.OrderID, constants.PaymentMethodRazorpay, input.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if outcome, done, err := s.settledOutcome(order); done {
		return outcome, err
	}
	if err := s.Razorpay.VerifyPaymentSignature(payment.GatewayOrderID, input.RazorpayPaymentID, input.RazorpaySignature); err != nil {
		metrics.ObservePaymentVerification(constants.PaymentMethodRazorpay, constants.PaymentOutcomeFailed)
		logger.Warnw("razorpay_signature_mismatch", "order_id", order.ID, "gateway_order_id", payment.GatewayOrderID, "error", err)
		return s.failPayment(ctx, order, payment, "signature_mismatch")
	}
	metrics.ObservePaymentVerification(constants.PaymentMethodRazorpay, constants.PaymentOutcomeVerified)
	return s.finalizePaid(ctx, order, payment, paidDetails{
		GatewayPaymentID: strings.TrimSpace(input.RazorpayPaymentID),
		Payload:          models.JSON{"razorpay_payment_id": strings.TrimSpace(input.RazorpayPaymentID)},
	})
}

// VerifyPaypal 查询 PayPal 订单：COMPLETED 核对金额，APPROVED 服务端扣款，其余视为失败
func (s *CheckoutService) VerifyPaypal(ctx context.Context, customerID uint, input PaypalVerifyInput) (*PaymentOutcome, error) {
	if s.Paypal == nil {
		return nil, ErrPaymentNotConfigured
	}
	if input.OrderID == 0 || strings.TrimSpace(input.PaypalOrderID) == "" {
		return nil, ErrInvalidInput
	}
	order, payment, err := s.loadCustomerPayment(customerID, input.OrderID, constants.PaymentMethodPaypal, input.PaypalOrderID)
	if err != nil {
		return nil, err
	}
	if outcome, done, err := s.settledOutcome(order); done {
		return outcome, err
	}
	gatewayOrder, err := s.Paypal.GetOrder(ctx, payment.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}

	switch strings.ToUpper(gatewayOrder.Status) {
	case paypal.OrderStatusCompleted:
		if !paypalAmountMatches(payment, gatewayOrder.Amount) {
			metrics.ObservePaymentVerification(constants.PaymentMethodPaypal, constants.PaymentOutcomeFailed)
			logger.Warnw("paypal_amount_mismatch", "order_id", order.ID, "gateway_amount", gatewayOrder.Amount)
			return s.failPayment(ctx, order, payment, "amount_mismatch")
		}
	case paypal.OrderStatusApproved:
		if order.Status == constants.OrderStatusCanceled {
			return nil, ErrOrderStatusInvalid
		}
		captured, err := s.Paypal.CaptureOrder(ctx, payment.GatewayOrderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
		}
		if !captured.Captured() {
			metrics.ObservePaymentVerification(constants.PaymentMethodPaypal, constants.PaymentOutcomeFailed)
			return s.failPayment(ctx, order, payment, "capture_"+strings.ToLower(captured.CaptureStatus))
		}
		gatewayOrder = captured
	default:
		metrics.ObservePaymentVerification(constants.PaymentMethodPaypal, constants.PaymentOutcomeFailed)
		return s.failPayment(ctx, order, payment, "status_"+strings.ToLower(gatewayOrder.Status))
	}

	metrics.ObservePaymentVerification(constants.PaymentMethodPaypal, constants.PaymentOutcomeVerified)
	return s.finalizePaid(ctx, order, payment, paidDetails{
		GatewayPaymentID: gatewayOrder.CaptureID,
		PaidAt:           gatewayOrder.PaidAt,
		Payload:          models.JSON{"paypal_status": gatewayOrder.Status, "capture_id": gatewayOrder.CaptureID},
	})
}

// DismissPayment 用户关闭支付弹窗：仅清除礼品卡，保留优惠券，会话回到 idle
func (s *CheckoutService) DismissPayment(ctx context.Context, customerID uint) (*CheckoutSession, error) {
	session, err := s.loadSession(ctx, customerID)
	if err != nil {
		return nil, err
	}
	session.GiftCode = ""
	session.OrderID = 0
	observeTransition(session, constants.CheckoutStateIdle)
	if err := s.saveSession(ctx, customerID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// HandleRazorpayWebhook 处理 Razorpay Webhook，重复事件幂等
func (s *CheckoutService) HandleRazorpayWebhook(ctx context.Context, body []byte, signature string) error {
	if s.Razorpay == nil {
		return ErrPaymentNotConfigured
	}
	if err := s.Razorpay.VerifyWebhookSignature(body, signature); err != nil {
		metrics.ObservePaymentWebhook(constants.PaymentMethodRazorpay, "invalid_signature")
		return fmt.Errorf("%w: %v", ErrPaymentVerifyFailed, err)
	}
	event, err := razorpay.ParseWebhookEvent(body)
	if err != nil {
		metrics.ObservePaymentWebhook(constants.PaymentMethodRazorpay, "invalid_payload")
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var status string
	switch event.Event {
	case razorpay.EventPaymentCaptured, razorpay.EventOrderPaid:
		status = constants.PaymentStatusSuccess
	case razorpay.EventPaymentFailed:
		status = constants.PaymentStatusFailed
	default:
		metrics.ObservePaymentWebhook(constants.PaymentMethodRazorpay, "ignored")
		return nil
	}
	order, payment, err := s.loadWebhookPayment(constants.PaymentMethodRazorpay, event.OrderID)
	if err != nil || order == nil {
		return err
	}
	if status == constants.PaymentStatusSuccess {
		if expected, convErr := razorpay.ToMinorAmount(payment.Amount.Decimal); convErr == nil && event.Amount > 0 && event.Amount != expected {
			metrics.ObservePaymentWebhook(constants.PaymentMethodRazorpay, "amount_mismatch")
			logger.Warnw("razorpay_webhook_amount_mismatch", "order_id", order.ID, "expected", expected, "actual", event.Amount)
			return nil
		}
		_, err = s.finalizePaid(ctx, order, payment, paidDetails{
			GatewayPaymentID: event.PaymentID,
			Payload:          models.JSON{"webhook_event": event.Event, "razorpay_payment_id": event.PaymentID},
		})
	} else {
		_, err = s.failPayment(ctx, order, payment, "webhook_"+event.Event)
	}
	if err != nil {
		metrics.ObservePaymentWebhook(constants.PaymentMethodRazorpay, "error")
		return err
	}
	metrics.ObservePaymentWebhook(constants.PaymentMethodRazorpay, status)
	return nil
}

// HandlePaypalWebhook 处理 PayPal Webhook，签名通过 PayPal 接口校验
func (s *CheckoutService) HandlePaypalWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if s.Paypal == nil {
		return ErrPaymentNotConfigured
	}
	event, err := paypal.ParseWebhookEvent(body)
	if err != nil {
		metrics.ObservePaymentWebhook(constants.PaymentMethodPaypal, "invalid_payload")
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.Paypal.VerifyWebhookSignature(ctx, headers, event.Raw); err != nil {
		metrics.ObservePaymentWebhook(constants.PaymentMethodPaypal, "invalid_signature")
		return fmt.Errorf("%w: %v", ErrPaymentVerifyFailed, err)
	}
	resourceStatus, _ := event.Resource["status"].(string)
	status, ok := paypal.ToPaymentStatus(event.EventType, resourceStatus)
	if !ok || status == constants.PaymentStatusPending {
		metrics.ObservePaymentWebhook(constants.PaymentMethodPaypal, "ignored")
		return nil
	}
	order, payment, err := s.loadWebhookPayment(constants.PaymentMethodPaypal, event.RelatedOrderID())
	if err != nil || order == nil {
		return err
	}
	if status == constants.PaymentStatusSuccess {
		amount, _ := event.CaptureAmount()
		if !paypalAmountMatches(payment, amount) {
			metrics.ObservePaymentWebhook(constants.PaymentMethodPaypal, "amount_mismatch")
			logger.Warnw("paypal_webhook_amount_mismatch", "order_id", order.ID, "amount", amount)
			return nil
		}
		_, err = s.finalizePaid(ctx, order, payment, paidDetails{
			GatewayPaymentID: event.CaptureID(),
			Payload:          models.JSON{"webhook_event": event.EventType, "capture_id": event.CaptureID()},
		})
	} else {
		_, err = s.failPayment(ctx, order, payment, "webhook_"+strings.ToLower(event.EventType))
	}
	if err != nil {
		metrics.ObservePaymentWebhook(constants.PaymentMethodPaypal, "error")
		return err
	}
	metrics.ObservePaymentWebhook(constants.PaymentMethodPaypal, status)
	return nil
}

// finalizePaid 在一个事务内完成支付：订单已支付、支付成功、核销礼品卡、记录优惠券、清空购物车。
// 网关已确认扣款时，超时取消的订单同样转为已支付
func (s *CheckoutService) finalizePaid(ctx context.Context, order *models.Order, payment *models.Payment, details paidDetails) (*PaymentOutcome, error) {
	now := time.Now()
	paidAt := now
	if details.PaidAt != nil {
		paidAt = *details.PaidAt
	}
	wasCanceled := order.Status == constants.OrderStatusCanceled
	alreadyPaid := false
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.OrderRepo.WithTx(tx)
		ok, err := orderRepo.TransitionStatus(order.ID,
			[]string{constants.OrderStatusPendingPayment, constants.OrderStatusPaymentFailed, constants.OrderStatusCanceled},
			constants.OrderStatusPaid,
			map[string]interface{}{"paid_at": paidAt, "canceled_at": nil, "updated_at": now},
		)
		if err != nil {
			return err
		}
		if !ok {
			current, err := orderRepo.GetByID(order.ID)
			if err != nil {
				return err
			}
			if current != nil && current.Status == constants.OrderStatusPaid {
				alreadyPaid = true
				return nil
			}
			return ErrOrderStatusInvalid
		}

		payload := details.Payload
		if order.GiftCardID != nil {
			redeemed, err := s.GiftCardRepo.WithTx(tx).MarkRedeemed(*order.GiftCardID, order.CustomerID, order.ID, now)
			if err != nil {
				return err
			}
			if !redeemed {
				// 仅在订单被取消、礼品卡归还后又被其他订单使用时出现，需人工补差
				logger.Errorw("gift_card_redeem_conflict", "order_id", order.ID, "gift_card_id", *order.GiftCardID)
				payload = mergePayload(payload, models.JSON{"gift_card_conflict": true})
			}
		}

		updates := map[string]interface{}{
			"status":     constants.PaymentStatusSuccess,
			"paid_at":    paidAt,
			"updated_at": now,
		}
		if details.GatewayPaymentID != "" {
			updates["gateway_payment_id"] = details.GatewayPaymentID
		}
		if payload != nil {
			updates["provider_payload"] = mergePayload(payment.ProviderPayload, payload)
		}
		if err := s.PaymentRepo.WithTx(tx).UpdateFields(payment.ID, updates); err != nil {
			return err
		}
		if order.CouponID != nil {
			created, err := s.CouponUsageRepo.WithTx(tx).Create(&models.CouponUsage{
				CouponID:       *order.CouponID,
				CustomerID:     order.CustomerID,
				OrderID:        order.ID,
				DiscountAmount: order.DiscountAmount,
			})
			if err != nil {
				return err
			}
			if created {
				if err := s.CouponRepo.WithTx(tx).IncrementUsedCount(*order.CouponID, 1); err != nil {
					return err
				}
			}
		}

		cartRepo := s.CartRepo.WithTx(tx)
		cart, err := cartRepo.GetByCustomer(order.CustomerID)
		if err != nil {
			return err
		}
		if cart == nil {
			return nil
		}
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		_, err = cartRepo.BumpVersion(cart.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return s.successOutcome(order), nil
	}

	if wasCanceled {
		logger.Warnw("order_paid_after_cancel", "order_id", order.ID, "order_no", order.OrderNo)
	}
	order.Status = constants.OrderStatusPaid
	order.PaidAt = &paidAt
	order.CanceledAt = nil
	if err := s.Store.Del(ctx, checkoutSessionKey(order.CustomerID)); err != nil {
		logger.Warnw("checkout_session_clear_failed", "customer_id", order.CustomerID, "error", err)
	}
	metrics.ObserveCheckoutTransition(constants.CheckoutStatePaymentVerified)
	if s.Tasks != nil {
		if err := s.Tasks.EnqueueOrderPaidNotification(queue.OrderPaidNotificationPayload{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
		}); err != nil {
			logger.Warnw("order_paid_notification_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}
	logger.Infow("order_paid",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"payment_method", order.PaymentMethod,
		"final_amount", order.FinalAmount.String(),
	)
	return s.successOutcome(order), nil
}

// failPayment 标记支付失败；订单保持可被超时任务取消
func (s *CheckoutService) failPayment(ctx context.Context, order *models.Order, payment *models.Payment, reason string) (*PaymentOutcome, error) {
	if payment.Status == constants.PaymentStatusSuccess {
		return s.successOutcome(order), nil
	}
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.PaymentRepo.WithTx(tx).UpdateFields(payment.ID, map[string]interface{}{
			"status":           constants.PaymentStatusFailed,
			"provider_payload": mergePayload(payment.ProviderPayload, models.JSON{"failure_reason": reason}),
			"updated_at":       now,
		}); err != nil {
			return err
		}
		_, err := s.OrderRepo.WithTx(tx).TransitionStatus(order.ID,
			[]string{constants.OrderStatusPendingPayment},
			constants.OrderStatusPaymentFailed,
			map[string]interface{}{"updated_at": now},
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, order.CustomerID)
	if err == nil && session.OrderID == order.ID {
		observeTransition(session, constants.CheckoutStatePaymentFailed)
		s.persistSession(ctx, order.CustomerID, session)
	}
	logger.Infow("order_payment_failed", "order_id", order.ID, "reason", reason)
	return &PaymentOutcome{
		Status:   constants.PaymentOutcomeFailed,
		OrderID:  order.ID,
		OrderNo:  order.OrderNo,
		Redirect: constants.RedirectPaymentFailure,
	}, nil
}

func (s *CheckoutService) successOutcome(order *models.Order) *PaymentOutcome {
	return &PaymentOutcome{
		Status:               constants.PaymentOutcomeVerified,
		OrderID:              order.ID,
		OrderNo:              order.OrderNo,
		Redirect:             constants.RedirectPaymentSuccess,
		FollowUp:             constants.RedirectOrderHistory,
		RedirectAfterSeconds: s.opts.RedirectDelaySeconds,
	}
}

// settledOutcome 订单已支付时直接给出结果；已取消的订单仍需校验，网关确认扣款后照常完成
func (s *CheckoutService) settledOutcome(order *models.Order) (*PaymentOutcome, bool, error) {
	if order.Status == constants.OrderStatusPaid {
		return s.successOutcome(order), true, nil
	}
	return nil, false, nil
}

func (s *CheckoutService) createGatewayPayment(ctx context.Context, order *models.Order, result *PlaceOrderResult) error {
	payment := &models.Payment{
		OrderID:  order.ID,
		Provider: order.PaymentMethod,
		Amount:   order.FinalAmount,
		Currency: constants.BaseCurrencyCode,
		Status:   constants.PaymentStatusPending,
	}
	switch order.PaymentMethod {
	case constants.PaymentMethodRazorpay:
		amount, err := razorpay.ToMinorAmount(order.FinalAmount.Decimal)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
		}
		gatewayOrder, err := s.Razorpay.CreateOrder(ctx, razorpay.CreateInput{
			Receipt:  order.OrderNo,
			Amount:   amount,
			Currency: constants.BaseCurrencyCode,
			Notes:    map[string]string{"order_no": order.OrderNo},
		})
		if err != nil {
			logger.Warnw("razorpay_create_order_failed", "order_id", order.ID, "error", err)
			return fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
		}
		payment.GatewayOrderID = gatewayOrder.ID
		payment.ProviderPayload = models.JSON{"amount_minor": amount, "status": gatewayOrder.Status}
		result.Razorpay = &RazorpayCheckout{
			KeyID:          s.Razorpay.KeyID(),
			GatewayOrderID: gatewayOrder.ID,
			Amount:         amount,
			Currency:       constants.BaseCurrencyCode,
			OrderNo:        order.OrderNo,
		}
	case constants.PaymentMethodPaypal:
		chargeAmount, chargeCurrency, err := s.paypalCharge(ctx, order.FinalAmount)
		if err != nil {
			return err
		}
		gatewayOrder, err := s.Paypal.CreateOrder(ctx, paypal.CreateInput{
			OrderNo:     order.OrderNo,
			Amount:      chargeAmount,
			Currency:    chargeCurrency,
			Description: "Order " + order.OrderNo,
		})
		if err != nil {
			logger.Warnw("paypal_create_order_failed", "order_id", order.ID, "error", err)
			return fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
		}
		payment.GatewayOrderID = gatewayOrder.OrderID
		payment.Currency = chargeCurrency
		payment.ApprovalURL = gatewayOrder.ApprovalURL
		payment.ProviderPayload = models.JSON{
			"charge_amount":   chargeAmount,
			"charge_currency": chargeCurrency,
			"status":          gatewayOrder.Status,
		}
		result.Paypal = &PaypalCheckout{
			GatewayOrderID: gatewayOrder.OrderID,
			ApprovalURL:    gatewayOrder.ApprovalURL,
			Amount:         chargeAmount,
			Currency:       chargeCurrency,
		}
	default:
		return ErrPaymentMethodInvalid
	}
	return s.PaymentRepo.Create(payment)
}

// paypalCharge 将 INR 金额换算为 PayPal 结算币种
func (s *CheckoutService) paypalCharge(ctx context.Context, amount models.Money) (string, string, error) {
	target := strings.ToUpper(strings.TrimSpace(s.Paypal.Currency()))
	if target == "" || target == constants.BaseCurrencyCode {
		return amount.String(), constants.BaseCurrencyCode, nil
	}
	if s.Currencies == nil {
		return "", "", ErrPaymentNotConfigured
	}
	converted, currency, err := s.Currencies.Convert(ctx, amount, target)
	if err != nil {
		return "", "", err
	}
	if !strings.EqualFold(currency.Code, target) {
		logger.Warnw("paypal_currency_unavailable", "currency", target)
		return "", "", ErrPaymentNotConfigured
	}
	return converted.StringFixed(2), currency.Code, nil
}

// settleWithoutGateway 礼品卡全额抵扣时无需网关，直接完成订单
func (s *CheckoutService) settleWithoutGateway(ctx context.Context, order *models.Order) (*PaymentOutcome, error) {
	payment := &models.Payment{
		OrderID:         order.ID,
		Provider:        order.PaymentMethod,
		Amount:          order.FinalAmount,
		Currency:        constants.BaseCurrencyCode,
		Status:          constants.PaymentStatusPending,
		ProviderPayload: models.JSON{"settled_by": "gift_card"},
	}
	if err := s.PaymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return s.finalizePaid(ctx, order, payment, paidDetails{})
}

func (s *CheckoutService) ensureGateway(method string) error {
	switch method {
	case constants.PaymentMethodRazorpay:
		if s.Razorpay == nil {
			return ErrPaymentNotConfigured
		}
	case constants.PaymentMethodPaypal:
		if s.Paypal == nil {
			return ErrPaymentNotConfigured
		}
	default:
		return ErrPaymentMethodInvalid
	}
	return nil
}

func (s *CheckoutService) buildOrderItems(cart *CartView) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cart.Cart.Items))
	for _, item := range cart.Cart.Items {
		variant := item.ProductVariant
		if variant == nil {
			return nil, ErrVariantNotFound
		}
		option, err := s.Carts.resolver.loadOption(item.OptionType, item.OptionID)
		if err != nil {
			return nil, err
		}
		if option.VariantID() != variant.ID {
			return nil, ErrOptionMismatch
		}
		if err := checkStock(variant, item.Quantity); err != nil {
			return nil, err
		}
		productName := variant.SKU
		if variant.Product != nil {
			productName = variant.Product.Name
		}
		items = append(items, models.OrderItem{
			ProductVariantID: variant.ID,
			OptionType:       option.Type(),
			OptionID:         option.ID(),
			OptionLabel:      option.Label(),
			ProductName:      productName,
			SKU:              variant.SKU,
			UnitPrice:        variant.FinalPrice,
			Quantity:         item.Quantity,
			TotalPrice:       variant.FinalPrice.MulQty(item.Quantity),
		})
	}
	return items, nil
}

func (s *CheckoutService) scheduleTimeout(order *models.Order) {
	if s.Tasks == nil {
		return
	}
	if err := s.Tasks.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: order.ID}, s.opts.PaymentExpire); err != nil {
		logger.Warnw("order_timeout_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

func (s *CheckoutService) cancelOrder(order *models.Order, reason string) {
	now := time.Now()
	ok := false
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		ok, err = s.OrderRepo.WithTx(tx).TransitionStatus(order.ID,
			[]string{constants.OrderStatusPendingPayment},
			constants.OrderStatusCanceled,
			map[string]interface{}{"canceled_at": now, "updated_at": now},
		)
		if err != nil || !ok || order.GiftCardID == nil {
			return err
		}
		_, err = s.GiftCardRepo.WithTx(tx).Release(*order.GiftCardID, order.ID)
		return err
	})
	if err != nil {
		logger.Warnw("order_cancel_failed", "order_id", order.ID, "reason", reason, "error", err)
		return
	}
	if ok {
		order.Status = constants.OrderStatusCanceled
		order.CanceledAt = &now
		logger.Infow("order_canceled", "order_id", order.ID, "reason", reason)
	}
}

func (s *CheckoutService) loadCustomerPayment(customerID, orderID uint, provider, gatewayOrderID string) (*models.Order, *models.Payment, error) {
	order, err := s.OrderRepo.GetByIDAndCustomer(orderID, customerID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	payment, err := s.PaymentRepo.GetByGatewayOrderID(provider, strings.TrimSpace(gatewayOrderID))
	if err != nil {
		return nil, nil, err
	}
	if payment == nil || payment.OrderID != order.ID {
		return nil, nil, ErrPaymentNotFound
	}
	return order, payment, nil
}

// loadWebhookPayment 未知网关订单返回 nil，Webhook 直接确认
func (s *CheckoutService) loadWebhookPayment(provider, gatewayOrderID string) (*models.Order, *models.Payment, error) {
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	if gatewayOrderID == "" {
		metrics.ObservePaymentWebhook(provider, "unknown_order")
		return nil, nil, nil
	}
	payment, err := s.PaymentRepo.GetByGatewayOrderID(provider, gatewayOrderID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		metrics.ObservePaymentWebhook(provider, "unknown_order")
		logger.Warnw("payment_webhook_unknown_order", "provider", provider, "gateway_order_id", gatewayOrderID)
		return nil, nil, nil
	}
	order, err := s.OrderRepo.GetByID(payment.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}
	return order, payment, nil
}

// resolveApplications 重新校验会话中的优惠券与礼品卡，业务性失效时从会话移除
func (s *CheckoutService) resolveApplications(session *CheckoutSession, customerID uint, cart *CartView) (*CouponApplication, *GiftApplication, error) {
	coupon, err := s.resolveCoupon(session, customerID, cart)
	if err != nil {
		return nil, nil, err
	}
	if session.GiftCode == "" {
		return coupon, nil, nil
	}
	gift, err := s.GiftCards.ApplyGift(session.GiftCode, CombineTotals(cart.Summary.GrandTotal, coupon, nil))
	if err != nil {
		if !isDiscountRejection(err) {
			return nil, nil, err
		}
		logger.Infow("checkout_gift_dropped", "customer_id", customerID, "code", session.GiftCode, "reason", err.Error())
		session.GiftCode = ""
		return coupon, nil, nil
	}
	return coupon, gift, nil
}

func (s *CheckoutService) resolveCoupon(session *CheckoutSession, customerID uint, cart *CartView) (*CouponApplication, error) {
	if session.CouponCode == "" || cart.Empty() {
		return nil, nil
	}
	coupon, err := s.Coupons.ApplyCoupon(session.CouponCode, customerID, cart)
	if err != nil {
		if !isDiscountRejection(err) {
			return nil, err
		}
		logger.Infow("checkout_coupon_dropped", "customer_id", customerID, "code", session.CouponCode, "reason", err.Error())
		session.CouponCode = ""
		return nil, nil
	}
	return coupon, nil
}

func (s *CheckoutService) quoteAndSave(ctx context.Context, customerID uint, session *CheckoutSession, cart *CartView) (*Quote, error) {
	coupon, gift, err := s.resolveApplications(session, customerID, cart)
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, customerID, session); err != nil {
		return nil, err
	}
	return buildQuote(cart, coupon, gift), nil
}

func (s *CheckoutService) loadSession(ctx context.Context, customerID uint) (*CheckoutSession, error) {
	if customerID == 0 {
		return nil, ErrInvalidInput
	}
	var session CheckoutSession
	found, err := s.Store.GetJSON(ctx, checkoutSessionKey(customerID), &session)
	if err != nil {
		return nil, err
	}
	if !found || session.State == "" {
		return &CheckoutSession{State: constants.CheckoutStateIdle}, nil
	}
	return &session, nil
}

func (s *CheckoutService) saveSession(ctx context.Context, customerID uint, session *CheckoutSession) error {
	session.UpdatedAt = time.Now()
	return s.Store.SetJSON(ctx, checkoutSessionKey(customerID), session, s.opts.SessionTTL)
}

// persistSession 订单已落库后的会话写入失败只记录日志
func (s *CheckoutService) persistSession(ctx context.Context, customerID uint, session *CheckoutSession) {
	if err := s.saveSession(ctx, customerID, session); err != nil {
		logger.Warnw("checkout_session_save_failed", "customer_id", customerID, "state", session.State, "error", err)
	}
}

func (s *CheckoutService) resetSession(ctx context.Context, customerID uint, session *CheckoutSession, cause error) {
	session.OrderID = 0
	observeTransition(session, constants.CheckoutStateIdle)
	s.persistSession(ctx, customerID, session)
	logger.Infow("checkout_reset", "customer_id", customerID, "reason", cause.Error())
}

func observeTransition(session *CheckoutSession, state string) {
	if session.State == state {
		return
	}
	session.State = state
	metrics.ObserveCheckoutTransition(state)
}

func normalizePaymentMethod(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.PaymentMethodRazorpay:
		return constants.PaymentMethodRazorpay, nil
	case constants.PaymentMethodPaypal:
		return constants.PaymentMethodPaypal, nil
	default:
		return "", ErrPaymentMethodInvalid
	}
}

// paypalAmountMatches 网关未返回金额时不做比对
func paypalAmountMatches(payment *models.Payment, gatewayAmount string) bool {
	gatewayAmount = strings.TrimSpace(gatewayAmount)
	if gatewayAmount == "" {
		return true
	}
	actual, err := decimal.NewFromString(gatewayAmount)
	if err != nil {
		return false
	}
	expected := payment.Amount.Decimal
	if raw, ok := payment.ProviderPayload["charge_amount"].(string); ok && raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return false
		}
		expected = parsed
	}
	return actual.Round(2).Equal(expected.Round(2))
}

func mergePayload(base, extra models.JSON) models.JSON {
	merged := models.JSON{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func isDiscountRejection(err error) bool {
	rejections := []error{
		ErrCouponCodeRequired, ErrCouponInvalid, ErrCouponNotFound, ErrCouponInactive,
		ErrCouponNotStarted, ErrCouponExpired, ErrCouponUsageLimit, ErrCouponPerCustomerLimit,
		ErrCouponScopeInvalid, ErrCouponMinAmount, ErrCartEmpty,
		ErrGiftCardCodeRequired, ErrGiftCardNotFound, ErrGiftCardInactive, ErrGiftCardExpired,
		ErrGiftCardRedeemed, ErrGiftCardExceedsOrder,
	}
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
